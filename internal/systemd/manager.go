// Package systemd talks to systemd: it controls the sound server unit the
// routing core feeds, and reports daemon readiness.
package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Manager controls one systemd unit over D-Bus.
type Manager struct {
	conn *dbus.Conn
	unit string
}

// NewManager connects to the user bus, or the system bus when system is set,
// and manages unit.
func NewManager(ctx context.Context, unit string, system bool) (*Manager, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	if system {
		conn, err = dbus.NewSystemConnectionContext(ctx)
	} else {
		conn, err = dbus.NewUserConnectionContext(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &Manager{conn: conn, unit: unit}, nil
}

// Unit returns the managed unit name.
func (m *Manager) Unit() string {
	return m.unit
}

// Status returns the unit's ActiveState.
func (m *Manager) Status(ctx context.Context) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, m.unit, "ActiveState")
	if err != nil {
		return "", err
	}
	if state, ok := prop.Value.Value().(string); ok {
		return state, nil
	}
	return prop.Value.String(), nil
}

// jobFunc matches the go-systemd unit job methods.
type jobFunc func(ctx context.Context, name, mode string, ch chan<- string) (int, error)

// Start starts the unit and waits for the job.
func (m *Manager) Start(ctx context.Context) error {
	return m.run(ctx, "start", m.conn.StartUnitContext)
}

// Stop stops the unit and waits for the job.
func (m *Manager) Stop(ctx context.Context) error {
	return m.run(ctx, "stop", m.conn.StopUnitContext)
}

// Restart restarts the unit and waits for the job.
func (m *Manager) Restart(ctx context.Context) error {
	return m.run(ctx, "restart", m.conn.RestartUnitContext)
}

func (m *Manager) run(ctx context.Context, action string, job jobFunc) error {
	done := make(chan string, 1)
	id, err := job(ctx, m.unit, "replace", done)
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, m.unit, err)
	}
	return waitJob(ctx, fmt.Sprintf("%s %s (job %d)", action, m.unit, id), done)
}

// Close cleanly closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}

// waitJob blocks until systemd reports the job result. Anything but
// "done" is a failure.
func waitJob(ctx context.Context, what string, ch <-chan string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", what, ctx.Err())
	case result := <-ch:
		if result == "done" {
			return nil
		}
		return fmt.Errorf("%s: %s", what, result)
	}
}
