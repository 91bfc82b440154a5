package models

import "time"

// UpdateCheckData describes the newest release.
type UpdateCheckData struct {
	CurrentVersion  string    `json:"current_version" example:"1.0.0" doc:"Running version"`
	LatestVersion   string    `json:"latest_version" example:"1.1.0" doc:"Newest release"`
	ReleaseNotes    string    `json:"release_notes,omitempty" doc:"Markdown release notes"`
	ReleaseURL      string    `json:"release_url,omitempty" doc:"Release page"`
	PublishedAt     time.Time `json:"published_at,omitzero" doc:"Publication time"`
	AssetSize       int       `json:"asset_size,omitempty" example:"5242880" doc:"Asset size in bytes"`
	UpdateAvailable bool      `json:"update_available" doc:"Whether the release is newer than the running binary"`
}

type UpdateCheckResponse struct {
	Body UpdateCheckData
}

// UpdateStatusData is the updater state.
type UpdateStatusData struct {
	Enabled         bool       `json:"enabled" doc:"False when the binary directory is not writable"`
	DisabledReason  string     `json:"disabled_reason,omitempty" doc:"Why updates are disabled"`
	State           string     `json:"state" example:"idle" doc:"Update state"`
	CurrentVersion  string     `json:"current_version" example:"1.0.0" doc:"Running version"`
	TargetVersion   string     `json:"target_version,omitempty" example:"1.1.0" doc:"Pending release"`
	Error           string     `json:"error,omitempty" doc:"Last failure"`
	LastChecked     *time.Time `json:"last_checked,omitempty" doc:"Last release check"`
	BackupAvailable bool       `json:"backup_available" doc:"Whether a rollback is possible"`
	BackupVersion   string     `json:"backup_version,omitempty" example:"1.0.0" doc:"Version of the backup"`
}

type UpdateStatusResponse struct {
	Body UpdateStatusData
}

type UpdateActionData struct {
	Message string `json:"message" example:"Update applied, restarting" doc:"Status message"`
}

type UpdateActionResponse struct {
	Body UpdateActionData
}
