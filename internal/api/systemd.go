package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
)

// registerSystemdRoutes exposes the sound server unit when a controller
// is configured.
func (s *Server) registerSystemdRoutes() {
	unit := s.options.HostUnit
	if unit == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-host-unit",
		Method:      http.MethodGet,
		Path:        "/api/systemd/host/status",
		Summary:     "Sound Server Unit",
		Description: "ActiveState of the sound server systemd unit",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.UnitStatusResponse, error) {
		state, err := unit.Status(ctx)
		if err != nil {
			return nil, huma.Error502BadGateway("Failed to query "+unit.Unit(), err)
		}
		return &models.UnitStatusResponse{Body: models.UnitStatus{Unit: unit.Unit(), Status: state}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "control-host-unit",
		Method:      http.MethodPost,
		Path:        "/api/systemd/host/{action}",
		Summary:     "Control Sound Server Unit",
		Description: "Start, stop or restart the sound server unit and wait for the job to finish",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, in *models.UnitActionInput) (*models.UnitActionResponse, error) {
		run := map[string]func(context.Context) error{
			"start":   unit.Start,
			"stop":    unit.Stop,
			"restart": unit.Restart,
		}[in.Action]

		if err := run(ctx); err != nil {
			s.logger.Warn("Sound server unit job failed", "unit", unit.Unit(), "action", in.Action, "error", err)
			return nil, huma.Error500InternalServerError(in.Action+" "+unit.Unit()+" failed", err)
		}
		s.logger.Info("Sound server unit job done", "unit", unit.Unit(), "action", in.Action)
		return &models.UnitActionResponse{Body: models.UnitAction{Unit: unit.Unit(), Action: in.Action, Success: true}}, nil
	})
}
