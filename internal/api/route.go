package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/hal"
	"github.com/smazurov/audiohal/internal/route"
)

func (s *Server) registerRouteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "apply-route",
		Method:      http.MethodPost,
		Path:        "/api/route",
		Summary:     "Apply Route",
		Description: "Resolve a route request, merge it into the active device set and activate the UCM verb and devices",
		Tags:        []string{"route"},
		Security:    withAuth(),
		Errors:      []int{400, 409, 503},
	}, func(ctx context.Context, input *models.RouteRequest) (*models.RouteResponse, error) {
		devices := make([]device.Info, 0, len(input.Body.Devices))
		for _, d := range input.Body.Devices {
			dir, err := device.ParseDirection(d.Direction)
			if err != nil {
				return nil, toHTTPError("Invalid device", err)
			}
			devices = append(devices, device.Info{Type: d.Type, Direction: dir})
		}
		flags, err := route.ParseFlags(input.Body.Flags)
		if err != nil {
			return nil, toHTTPError("Invalid flags", err)
		}

		plan, err := s.core.Route(ctx, input.Body.Role, devices, flags)
		if err != nil {
			return nil, toHTTPError("Route failed", err)
		}
		return &models.RouteResponse{Body: planData(plan)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-route",
		Method:      http.MethodPost,
		Path:        "/api/route/reset",
		Summary:     "Reset Direction",
		Description: "Clear one direction of the active device set. During a call this also closes that voice PCM direction",
		Tags:        []string{"route"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(ctx context.Context, input *models.ResetRequest) (*models.AckResponse, error) {
		dir, err := device.ParseDirection(input.Body.Direction)
		if err != nil {
			return nil, toHTTPError("Invalid direction", err)
		}
		if err := s.core.Reset(ctx, dir); err != nil {
			return nil, toHTTPError("Reset failed", err)
		}
		return &models.AckResponse{Body: models.AckData{Success: true}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/api/state",
		Summary:     "Routing State",
		Description: "Current session, active device set, last UCM activation and voice PCM status",
		Tags:        []string{"route"},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.StateResponse, error) {
		return &models.StateResponse{Body: stateData(s.core.State())}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-stream-connection",
		Method:      http.MethodPost,
		Path:        "/api/streams/connection",
		Summary:     "Stream Connection",
		Description: "Notify the core that a host stream connected or disconnected",
		Tags:        []string{"route"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(ctx context.Context, input *models.StreamConnectionRequest) (*models.AckResponse, error) {
		dir, err := device.ParseDirection(input.Body.Direction)
		if err != nil {
			return nil, toHTTPError("Invalid direction", err)
		}
		info := hal.StreamInfo{Role: input.Body.Role, Direction: dir, Index: input.Body.Index}
		if err := s.core.UpdateStreamConnection(ctx, info, input.Body.Connected); err != nil {
			return nil, toHTTPError("Stream connection update failed", err)
		}
		return &models.AckResponse{Body: models.AckData{Success: true}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-route-option",
		Method:      http.MethodPost,
		Path:        "/api/route/option",
		Summary:     "Route Option",
		Description: "Set a named route option for a role",
		Tags:        []string{"route"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(ctx context.Context, input *models.RouteOptionRequest) (*models.AckResponse, error) {
		opt := hal.RouteOption{Role: input.Body.Role, Name: input.Body.Name, Value: input.Body.Value}
		if err := s.core.UpdateRouteOption(ctx, opt); err != nil {
			return nil, toHTTPError("Route option update failed", err)
		}
		return &models.AckResponse{Body: models.AckData{Success: true}}, nil
	})
}

func planData(p route.Plan) models.RoutePlanData {
	data := models.RoutePlanData{
		Kind:            p.Kind.String(),
		Verb:            string(p.Verb),
		Devices:         p.Devices,
		DualOut:         p.DualOut,
		InputSuppressed: p.InputSuppressed,
	}
	for _, m := range p.Modifiers {
		data.Modifiers = append(data.Modifiers, string(m))
	}
	for _, d := range p.Reset {
		data.Reset = append(data.Reset, d.String())
	}
	return data
}

func stateData(st hal.State) models.StateData {
	return models.StateData{
		Session:     st.Session.String(),
		Subsession:  st.Subsession.String(),
		CallSession: st.CallSession,
		Recording:   st.Recording,
		CallMode:    st.CallMode,
		Flags:       st.Flags.Names(),
		Outputs:     nonNil(st.Outputs),
		Inputs:      nonNil(st.Inputs),
		Verb:        string(st.Verb),
		Devices:     st.Devices,
		VoicePCM: models.VoicePCMData{
			PlaybackOpen: st.VoicePCM.PlaybackOpen,
			CaptureOpen:  st.VoicePCM.CaptureOpen,
			Rate:         st.VoicePCM.Rate,
			OpenCount:    st.VoicePCM.OpenCount,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
