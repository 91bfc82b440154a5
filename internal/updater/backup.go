package updater

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	backupBinary   = "audiohal.backup"
	backupManifest = "backup.json"
)

// manifest describes the binary saved in the backup directory.
type manifest struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	ExecPath  string    `json:"exec_path"`
	SHA256    string    `json:"sha256"`
}

// backupManager keeps one copy of the binary that was running before the
// last update. The manifest is written after the copy, so a manifest on
// disk always refers to a complete binary.
type backupManager struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	current *manifest
}

func newBackupManager(dir string, logger *slog.Logger) (*backupManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	m := &backupManager{dir: dir, logger: logger}
	if mf, err := m.readManifest(); err == nil {
		m.current = mf
		logger.Debug("Found backup", "version", mf.Version, "created", mf.CreatedAt)
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Ignoring backup", "dir", dir, "error", err)
	}
	return m, nil
}

func (m *backupManager) binaryPath() string   { return filepath.Join(m.dir, backupBinary) }
func (m *backupManager) manifestPath() string { return filepath.Join(m.dir, backupManifest) }

func (m *backupManager) readManifest() (*manifest, error) {
	data, err := os.ReadFile(m.manifestPath())
	if err != nil {
		return nil, err
	}
	var mf manifest
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if _, err := os.Stat(m.binaryPath()); err != nil {
		return nil, fmt.Errorf("backup binary: %w", err)
	}
	return &mf, nil
}

// create saves execPath as the backup of version ver.
func (m *backupManager) create(execPath, ver string) error {
	sum, err := installFile(execPath, m.binaryPath())
	if err != nil {
		return err
	}

	mf := &manifest{Version: ver, CreatedAt: time.Now().UTC(), ExecPath: execPath, SHA256: sum}
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.manifestPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup manifest: %w", err)
	}

	m.mu.Lock()
	m.current = mf
	m.mu.Unlock()
	m.logger.Info("Backup created", "version", ver, "sha256", sum)
	return nil
}

// restore copies the backup over the executable it was taken from. A
// backup whose checksum no longer matches is refused.
func (m *backupManager) restore() error {
	m.mu.RLock()
	mf := m.current
	m.mu.RUnlock()
	if mf == nil {
		return errors.New("no backup available")
	}

	if mf.SHA256 != "" {
		sum, err := fileSHA256(m.binaryPath())
		if err != nil {
			return err
		}
		if sum != mf.SHA256 {
			return fmt.Errorf("backup checksum mismatch: have %s, want %s", sum, mf.SHA256)
		}
	}

	if _, err := installFile(m.binaryPath(), mf.ExecPath); err != nil {
		return err
	}
	m.logger.Info("Backup restored", "version", mf.Version, "path", mf.ExecPath)
	return nil
}

func (m *backupManager) available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

func (m *backupManager) version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Version
}

// installFile copies src to dst through a temp file in dst's directory and
// a rename, which also works when dst is the running executable. It
// returns the hex SHA-256 of the copied bytes.
func installFile(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), in); err != nil {
		tmp.Close()
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
