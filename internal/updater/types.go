package updater

import (
	"context"
	"time"
)

// State is the updater's position in the check/apply cycle.
//
//	idle -> checking -> available -> downloading -> applying -> restarting
//	          |                          |              |
//	          +--------------------------+--------------+--> error
//
// rolled_back is entered after a manual rollback or after a failed swap
// restored the previous binary.
type State string

// Updater states.
const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAvailable   State = "available"
	StateDownloading State = "downloading"
	StateApplying    State = "applying"
	StateRestarting  State = "restarting"
	StateError       State = "error"
	StateRolledBack  State = "rolled_back"
)

// Service installs newer releases of the running binary.
type Service interface {
	CheckForUpdate(ctx context.Context) (*UpdateInfo, error)
	// ApplyUpdate backs up the binary, swaps in the newest release and
	// schedules a restart.
	ApplyUpdate(ctx context.Context) error
	// Rollback puts the backed up binary back and schedules a restart.
	Rollback(ctx context.Context) error
	Status() *Status
	// Enabled is false when the binary cannot be replaced in place.
	Enabled() bool
	DisabledReason() string
}

// UpdateInfo is the result of a release check.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes,omitempty"`
	ReleaseURL      string    `json:"release_url,omitempty"`
	PublishedAt     time.Time `json:"published_at,omitzero"`
	AssetSize       int       `json:"asset_size,omitempty"`
	UpdateAvailable bool      `json:"update_available"`
}

// Status is a point-in-time view of the updater.
type Status struct {
	State           State      `json:"state"`
	CurrentVersion  string     `json:"current_version"`
	TargetVersion   string     `json:"target_version,omitempty"`
	Error           string     `json:"error,omitempty"`
	LastChecked     *time.Time `json:"last_checked,omitempty"`
	BackupAvailable bool       `json:"backup_available"`
	BackupVersion   string     `json:"backup_version,omitempty"`
}

// Options configures NewService.
type Options struct {
	Repository string // "owner/name" on GitHub
	Prerelease bool
	BackupDir  string // default $XDG_CACHE_HOME/audiohal/backup
	Restart    func() // default: SIGTERM to self, systemd restarts the unit
}
