package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/updater"
)

func (s *Server) registerUpdateRoutes() {
	svc := s.options.Updater
	if svc == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-update-status",
		Method:      http.MethodGet,
		Path:        "/api/update/status",
		Summary:     "Update Status",
		Description: "Get the self-update state and backup availability",
		Tags:        []string{"update"},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.UpdateStatusResponse, error) {
		st := svc.Status()
		return &models.UpdateStatusResponse{
			Body: models.UpdateStatusData{
				Enabled:         svc.Enabled(),
				DisabledReason:  svc.DisabledReason(),
				State:           string(st.State),
				CurrentVersion:  st.CurrentVersion,
				TargetVersion:   st.TargetVersion,
				Error:           st.Error,
				LastChecked:     st.LastChecked,
				BackupAvailable: st.BackupAvailable,
				BackupVersion:   st.BackupVersion,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "check-update",
		Method:      http.MethodPost,
		Path:        "/api/update/check",
		Summary:     "Check for Updates",
		Description: "Query the release source for a newer version without downloading",
		Tags:        []string{"update"},
		Security:    withAuth(),
		Errors:      []int{404, 409, 502, 503},
	}, func(ctx context.Context, _ *struct{}) (*models.UpdateCheckResponse, error) {
		info, err := svc.CheckForUpdate(ctx)
		if err != nil {
			return nil, updateHTTPError(err)
		}
		return &models.UpdateCheckResponse{
			Body: models.UpdateCheckData{
				CurrentVersion:  info.CurrentVersion,
				LatestVersion:   info.LatestVersion,
				ReleaseNotes:    info.ReleaseNotes,
				ReleaseURL:      info.ReleaseURL,
				PublishedAt:     info.PublishedAt,
				AssetSize:       info.AssetSize,
				UpdateAvailable: info.UpdateAvailable,
			},
		}, nil
	})

	actions := []struct {
		name    string
		summary string
		desc    string
		message string
		run     func(context.Context) error
	}{
		{"apply", "Apply Update", "Back up the running binary, install the newest release and restart", "Update applied, restarting", svc.ApplyUpdate},
		{"rollback", "Rollback Update", "Restore the backed up binary and restart", "Rollback complete, restarting", svc.Rollback},
	}
	for _, a := range actions {
		huma.Register(s.api, huma.Operation{
			OperationID: a.name + "-update",
			Method:      http.MethodPost,
			Path:        "/api/update/" + a.name,
			Summary:     a.summary,
			Description: a.desc,
			Tags:        []string{"update"},
			Security:    withAuth(),
			Errors:      []int{404, 409, 500, 503},
		}, func(ctx context.Context, _ *struct{}) (*models.UpdateActionResponse, error) {
			if err := a.run(ctx); err != nil {
				return nil, updateHTTPError(err)
			}
			return &models.UpdateActionResponse{Body: models.UpdateActionData{Message: a.message}}, nil
		})
	}
}

// updateHTTPError keeps the updater's code in the problem detail so
// clients can tell NO_UPDATE from INVALID_STATE without parsing text.
func updateHTTPError(err error) error {
	code := updater.CodeOf(err)
	if code == "" {
		return huma.Error500InternalServerError("Update failed", err)
	}
	return huma.NewError(code.HTTPStatus(), err.Error(), &huma.ErrorDetail{
		Location: "update",
		Value:    string(code),
	})
}
