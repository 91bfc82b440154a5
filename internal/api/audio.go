package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/audio"
	"github.com/smazurov/audiohal/internal/device"
)

func audioDevice(d audio.Device) models.AudioDevice {
	return models.AudioDevice{
		ALSADevice: d.ALSADevice,
		Direction:  d.Direction.String(),
		Card:       d.CardNumber,
		CardID:     d.CardID,
		CardName:   d.CardName,
		Device:     d.DeviceNumber,
		Name:       d.DeviceName,
		Caps: models.PCMCaps{
			Rates:    d.SupportedRates,
			Formats:  d.SupportedFormats,
			Channels: [2]int{d.MinChannels, d.MaxChannels},
			Buffer:   [2]int{d.MinBufferSize, d.MaxBufferSize},
			Period:   [2]int{d.MinPeriodSize, d.MaxPeriodSize},
		},
	}
}

func (s *Server) registerAudioRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-audio-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices/audio",
		Summary:     "List PCM Devices",
		Description: "PCM devices of every sound card with their hardware parameter ranges",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(_ context.Context, in *models.AudioDevicesInput) (*models.AudioDevicesResponse, error) {
		var dir device.Direction
		if in.Direction != "" {
			var err error
			if dir, err = device.ParseDirection(in.Direction); err != nil {
				return nil, toHTTPError("Invalid direction", err)
			}
		}

		found, err := s.options.Detector.ListDevices()
		if err != nil {
			return nil, huma.Error503ServiceUnavailable("Audio device enumeration failed", err)
		}

		out := make([]models.AudioDevice, 0, len(found))
		for _, d := range audio.ByDirection(found, dir) {
			if in.Rate > 0 && !d.SupportsRate(in.Rate) {
				continue
			}
			out = append(out, audioDevice(d))
		}
		return &models.AudioDevicesResponse{Body: models.AudioDevicesData{Devices: out, Count: len(out)}}, nil
	})
}
