package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/bufferattr"
	"github.com/smazurov/audiohal/internal/device"
)

func (s *Server) registerBufferAttrRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-buffer-attr",
		Method:      http.MethodGet,
		Path:        "/api/buffer-attr",
		Summary:     "Buffer Attributes",
		Description: "Sound server buffer attributes for a stream of the given direction, latency class and sample spec",
		Tags:        []string{"stream"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(_ context.Context, input *models.BufferAttrInput) (*models.BufferAttrResponse, error) {
		dir, err := device.ParseDirection(input.Direction)
		if err != nil {
			return nil, toHTTPError("Invalid direction", err)
		}
		latency, err := bufferattr.ParseLatency(input.Latency)
		if err != nil {
			return nil, toHTTPError("Invalid latency", err)
		}
		format, err := bufferattr.ParseFormat(input.Format)
		if err != nil {
			return nil, toHTTPError("Invalid format", err)
		}

		attr, err := bufferattr.Compute(dir, latency, bufferattr.SampleSpec{
			Format:   format,
			Rate:     input.Rate,
			Channels: input.Channels,
		})
		if err != nil {
			return nil, toHTTPError("Invalid sample spec", err)
		}
		return &models.BufferAttrResponse{
			Body: models.BufferAttrData{
				MaxLength:      attr.MaxLength,
				TLength:        attr.TLength,
				PreBuf:         attr.PreBuf,
				MinReq:         attr.MinReq,
				FragSize:       attr.FragSize,
				PeriodTimeMsec: attr.Period.TimeMsec,
				PeriodSamples:  attr.Period.Samples,
				PeriodCount:    attr.Period.Count,
			},
		}, nil
	})
}
