package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/volume"
)

func (s *Server) registerVolumeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-volume-table",
		Method:      http.MethodGet,
		Path:        "/api/volume/{type}",
		Summary:     "Volume Table",
		Description: "Linear gain per level for a volume type",
		Tags:        []string{"volume"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(_ context.Context, input *models.VolumeTypeInput) (*models.VolumeTableResponse, error) {
		values, err := s.core.GetVolumeTable(input.Type)
		if err != nil {
			return nil, toHTTPError("Unknown volume type", err)
		}
		return &models.VolumeTableResponse{
			Body: models.VolumeTableData{Type: input.Type, LevelMax: len(values), Values: values},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-volume-level",
		Method:      http.MethodGet,
		Path:        "/api/volume/{type}/level",
		Summary:     "Volume Level",
		Description: "Current level of a volume type and its linear value",
		Tags:        []string{"volume"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(_ context.Context, input *models.VolumeTypeInput) (*models.VolumeLevelResponse, error) {
		return s.volumeLevel(input.Type)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-volume-level",
		Method:      http.MethodPut,
		Path:        "/api/volume/{type}/level",
		Summary:     "Set Volume Level",
		Description: "Set the current level of a volume type",
		Tags:        []string{"volume"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(_ context.Context, input *models.SetVolumeLevelRequest) (*models.VolumeLevelResponse, error) {
		if err := s.core.Volume().SetLevel(input.Type, input.Body.Level); err != nil {
			return nil, toHTTPError("Invalid volume level", err)
		}
		return s.volumeLevel(input.Type)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-gain",
		Method:      http.MethodGet,
		Path:        "/api/gain/{type}",
		Summary:     "Gain",
		Description: "Gain factor of a gain type",
		Tags:        []string{"volume"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(_ context.Context, input *models.GainInput) (*models.GainResponse, error) {
		factor, err := s.core.GetGain(input.Type)
		if err != nil {
			return nil, toHTTPError("Unknown gain type", err)
		}
		return &models.GainResponse{Body: models.GainData{Type: input.Type, Factor: factor}}, nil
	})

	if s.options.VolumeReload == nil {
		return
	}
	huma.Register(s.api, huma.Operation{
		OperationID: "reload-volume",
		Method:      http.MethodPost,
		Path:        "/api/volume/reload",
		Summary:     "Reload Volume Table",
		Description: "Reload the volume table file now. A failed reload keeps the current table",
		Tags:        []string{"volume"},
		Security:    withAuth(),
		Errors:      []int{422},
	}, func(_ context.Context, _ *struct{}) (*models.AckResponse, error) {
		if err := s.options.VolumeReload(); err != nil {
			return nil, huma.Error422UnprocessableEntity("Failed to reload volume table", err)
		}
		return &models.AckResponse{Body: models.AckData{Success: true}}, nil
	})
}

func (s *Server) volumeLevel(typ string) (*models.VolumeLevelResponse, error) {
	store := s.core.Volume()
	level, err := store.Level(typ)
	if err != nil {
		return nil, toHTTPError("Unknown volume type", err)
	}
	value, err := store.Value(typ, level, string(volume.GainDefault))
	if err != nil {
		return nil, toHTTPError("Unknown volume type", err)
	}
	return &models.VolumeLevelResponse{
		Body: models.VolumeLevelData{Type: typ, Level: level, Value: value},
	}, nil
}
