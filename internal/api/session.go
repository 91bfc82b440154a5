package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/session"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "apply-session",
		Method:      http.MethodPost,
		Path:        "/api/session",
		Summary:     "Session Command",
		Description: "Start or end a session, or change the subsession. Call sessions drive the voice PCM path",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{400, 409},
	}, func(ctx context.Context, input *models.SessionRequest) (*models.SessionResponse, error) {
		cmd, err := session.ParseCommand(input.Body.Command)
		if err != nil {
			return nil, toHTTPError("Invalid command", err)
		}
		sess, err := session.ParseSession(input.Body.Session)
		if err != nil {
			return nil, toHTTPError("Invalid session", err)
		}
		sub := session.SubsessionNone
		if input.Body.Subsession != "" {
			if sub, err = session.ParseSubsession(input.Body.Subsession); err != nil {
				return nil, toHTTPError("Invalid subsession", err)
			}
		}

		if err := s.core.Session(ctx, cmd, sess, sub); err != nil {
			return nil, toHTTPError("Session command failed", err)
		}

		st := s.core.State()
		return &models.SessionResponse{
			Body: models.SessionData{
				Session:     st.Session.String(),
				Subsession:  st.Subsession.String(),
				CallSession: st.CallSession,
				Recording:   st.Recording,
			},
		}, nil
	})
}
