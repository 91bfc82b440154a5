// Package models holds the request and response bodies of the HTTP API.
package models

// HealthData answers the liveness probe.
type HealthData struct {
	Status   string `json:"status" example:"ok"`
	Session  string `json:"session" example:"media" doc:"Current session"`
	CallMode bool   `json:"call_mode" doc:"Whether a call route or call session is active"`
	Uptime   string `json:"uptime" example:"3h12m5s" doc:"Time since the API started"`
}

type HealthResponse struct {
	Body HealthData
}

// VersionData is the build information of the running binary.
type VersionData struct {
	Version   string `json:"version" example:"v1.2.0"`
	GitCommit string `json:"git_commit" example:"3f2a9c1"`
	BuildDate string `json:"build_date" example:"2026-05-01T00:00:00Z"`
	BuildID   string `json:"build_id,omitempty" example:"42"`
	GoVersion string `json:"go_version" example:"go1.24.11"`
	Platform  string `json:"platform" example:"linux/arm64"`
	Summary   string `json:"summary" example:"v1.2.0 (3f2a9c1, 2026-05-01) linux/arm64" doc:"One-line version string"`
	Dev       bool   `json:"dev" doc:"Whether this is an unreleased build"`
}

type VersionResponse struct {
	Body VersionData
}
