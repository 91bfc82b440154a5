// Package updater replaces the daemon binary with newer GitHub releases and
// keeps one backup for rollback.
package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/looplab/fsm"
	"github.com/smazurov/audiohal/internal/logging"
	"github.com/smazurov/audiohal/internal/version"
)

const restartDelay = 500 * time.Millisecond

// State machine events.
const (
	evCheck     = "check"
	evFound     = "found"
	evUpToDate  = "up_to_date"
	evFail      = "fail"
	evDownload  = "download"
	evInstall   = "install"
	evInstalled = "installed"
	evRestore   = "restore"
)

func newMachine(logger *slog.Logger) *fsm.FSM {
	settled := []string{string(StateIdle), string(StateAvailable), string(StateError), string(StateRolledBack)}
	return fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: evCheck, Src: settled, Dst: string(StateChecking)},
			{Name: evFound, Src: []string{string(StateChecking)}, Dst: string(StateAvailable)},
			{Name: evUpToDate, Src: []string{string(StateChecking)}, Dst: string(StateIdle)},
			{Name: evFail, Src: []string{string(StateChecking), string(StateDownloading), string(StateApplying)}, Dst: string(StateError)},
			{Name: evDownload, Src: []string{string(StateAvailable)}, Dst: string(StateDownloading)},
			{Name: evInstall, Src: []string{string(StateDownloading)}, Dst: string(StateApplying)},
			{Name: evInstalled, Src: []string{string(StateApplying)}, Dst: string(StateRestarting)},
			{Name: evRestore, Src: settled, Dst: string(StateRolledBack)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug("Update state changed", "from", e.Src, "to", e.Dst, "event", e.Event)
			},
		},
	)
}

// releaseSource is the part of *selfupdate.Updater the service uses.
type releaseSource interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error
}

type service struct {
	repository selfupdate.Repository
	source     releaseSource
	backup     *backupManager
	executable func() (string, error)
	restart    func()
	machine    *fsm.FSM
	logger     *slog.Logger

	// Set once at construction.
	enabled        bool
	disabledReason string

	mu          sync.RWMutex
	latest      *selfupdate.Release
	lastChecked *time.Time
	lastErr     error
}

// NewService creates the updater. When the binary's directory is not
// writable the service is returned disabled instead of failing.
func NewService(opts Options) (Service, error) {
	logger := logging.GetLogger("updater")

	if ok, reason := checkWritePermission(selfupdate.ExecutablePath); !ok {
		logger.Warn("Update service disabled", "reason", reason)
		return &service{machine: newMachine(logger), disabledReason: reason, logger: logger}, nil
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}
	up, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return newService(opts, up, logger), nil
}

func newService(opts Options, source releaseSource, logger *slog.Logger) *service {
	s := &service{
		repository: selfupdate.ParseSlug(opts.Repository),
		source:     source,
		executable: selfupdate.ExecutablePath,
		restart:    opts.Restart,
		machine:    newMachine(logger),
		enabled:    true,
		logger:     logger,
	}
	if s.restart == nil {
		s.restart = s.signalSelf
	}

	dir := opts.BackupDir
	if dir == "" {
		if cache, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(cache, "audiohal", "backup")
		}
	}
	if dir == "" {
		logger.Warn("Rollback disabled: no backup directory")
		return s
	}
	backup, err := newBackupManager(dir, logger)
	if err != nil {
		logger.Warn("Rollback disabled", "error", err)
		return s
	}
	s.backup = backup
	return s
}

// checkWritePermission probes the executable's directory with a temp file;
// a bare access(2) check misses read-only mounts.
func checkWritePermission(executable func() (string, error)) (bool, string) {
	exe, err := executable()
	if err != nil {
		return false, fmt.Sprintf("failed to get executable path: %v", err)
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return false, fmt.Sprintf("failed to resolve symlinks: %v", err)
	}

	dir := filepath.Dir(exe)
	probe, err := os.CreateTemp(dir, ".audiohal.update.*")
	if err != nil {
		return false, fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return true, ""
}

func (s *service) Enabled() bool { return s.enabled }

func (s *service) DisabledReason() string { return s.disabledReason }

func (s *service) state() State { return State(s.machine.Current()) }

// fire runs a state machine event. Re-entering the current state is not
// an error.
func (s *service) fire(ctx context.Context, event string) error {
	err := s.machine.Event(ctx, event)
	var same fsm.NoTransitionError
	if err == nil || errors.As(err, &same) {
		return nil
	}
	return fail(CodeInvalidState, fmt.Sprintf("cannot %s in state %s", event, s.state()), err)
}

// failed records err and moves to the error state.
func (s *service) failed(ctx context.Context, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	_ = s.fire(ctx, evFail)
}

// CheckForUpdate treats a dev build as older than any release.
func (s *service) CheckForUpdate(ctx context.Context) (*UpdateInfo, error) {
	if !s.enabled {
		return nil, fail(CodeDisabled, s.disabledReason, nil)
	}
	if err := s.fire(ctx, evCheck); err != nil {
		return nil, err
	}

	release, found, err := s.source.DetectLatest(ctx, s.repository)
	now := time.Now()
	s.mu.Lock()
	s.lastChecked = &now
	s.lastErr = nil
	s.mu.Unlock()

	switch {
	case err != nil:
		s.failed(ctx, err)
		return nil, fail(CodeCheckFailed, "failed to check for updates", err)
	case !found:
		s.failed(ctx, errors.New("repository not found or has no releases"))
		return nil, fail(CodeNotFound, "repository not found or has no releases", nil)
	}

	info := &UpdateInfo{CurrentVersion: version.Version, LatestVersion: release.Version()}
	if !version.IsDev(version.Version) && !release.GreaterThan(version.Version) {
		_ = s.fire(ctx, evUpToDate)
		return info, nil
	}

	s.mu.Lock()
	s.latest = release
	s.mu.Unlock()
	_ = s.fire(ctx, evFound)

	info.ReleaseNotes = release.ReleaseNotes
	info.ReleaseURL = release.URL
	info.PublishedAt = release.PublishedAt
	info.AssetSize = release.AssetByteSize
	info.UpdateAvailable = true
	return info, nil
}

// ApplyUpdate checks first unless a release is already pending. If the
// swap fails the backup is put back.
func (s *service) ApplyUpdate(ctx context.Context) error {
	if !s.enabled {
		return fail(CodeDisabled, s.disabledReason, nil)
	}
	if s.state() != StateAvailable {
		info, err := s.CheckForUpdate(ctx)
		if err != nil {
			return err
		}
		if !info.UpdateAvailable {
			return fail(CodeNoUpdate, "already at "+info.LatestVersion, nil)
		}
	}
	if err := s.fire(ctx, evDownload); err != nil {
		return err
	}

	exe, err := s.executable()
	if err != nil {
		s.failed(ctx, err)
		return fail(CodeApplyFailed, "failed to get executable path", err)
	}
	if s.backup != nil {
		if err := s.backup.create(exe, version.Version); err != nil {
			s.failed(ctx, err)
			return fail(CodeBackupFailed, "failed to create backup", err)
		}
	}

	s.mu.RLock()
	release := s.latest
	s.mu.RUnlock()

	_ = s.fire(ctx, evInstall)
	if err := s.source.UpdateTo(ctx, release, exe); err != nil {
		s.failed(ctx, err)
		s.restoreAfterFailure(ctx)
		return fail(CodeApplyFailed, "failed to apply update", err)
	}

	_ = s.fire(ctx, evInstalled)
	s.logger.Info("Update applied, restarting", "from", version.Version, "to", release.Version())
	time.AfterFunc(restartDelay, s.restart)
	return nil
}

func (s *service) Rollback(ctx context.Context) error {
	if !s.enabled {
		return fail(CodeDisabled, s.disabledReason, nil)
	}
	if s.backup == nil || !s.backup.available() {
		return fail(CodeNoBackup, "no backup available for rollback", nil)
	}
	if !s.machine.Can(evRestore) {
		return fail(CodeInvalidState, "cannot roll back in state "+string(s.state()), nil)
	}
	if err := s.backup.restore(); err != nil {
		return fail(CodeRollbackFailed, "failed to restore backup", err)
	}

	_ = s.fire(ctx, evRestore)
	s.logger.Info("Rollback completed, restarting", "version", s.backup.version())
	time.AfterFunc(restartDelay, s.restart)
	return nil
}

func (s *service) Status() *Status {
	st := &Status{State: s.state(), CurrentVersion: version.Version}

	s.mu.RLock()
	st.LastChecked = s.lastChecked
	if s.latest != nil {
		st.TargetVersion = s.latest.Version()
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	s.mu.RUnlock()

	if s.backup != nil {
		st.BackupAvailable = s.backup.available()
		st.BackupVersion = s.backup.version()
	}
	return st
}

// restoreAfterFailure runs from the error state after a failed swap.
func (s *service) restoreAfterFailure(ctx context.Context) {
	if s.backup == nil || !s.backup.available() {
		s.logger.Error("Update failed and no backup is available")
		return
	}
	if err := s.backup.restore(); err != nil {
		s.logger.Error("Failed to restore backup", "error", err)
		return
	}
	_ = s.fire(ctx, evRestore)
	s.logger.Info("Previous binary restored", "version", s.backup.version())
}

func (s *service) signalSelf() {
	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		s.logger.Error("Failed to send SIGTERM", "error", err)
	}
}
