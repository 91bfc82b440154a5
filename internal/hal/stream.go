package hal

import (
	"context"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/internal/metrics"
	"github.com/smazurov/audiohal/internal/pcm"
	"github.com/smazurov/audiohal/internal/session"
)

// Session runs a session command. Voice PCM failures are reported but do not
// undo the transition.
func (m *Manager) Session(ctx context.Context, cmd session.Command, s session.Session, sub session.Subsession) error {
	m.mu.Lock()
	err := m.machine.Apply(ctx, cmd, s, sub)
	st := m.machine.State()
	m.observeLocked()
	m.mu.Unlock()

	metrics.ObserveSessionCommand(cmd.String(), err)
	m.bus.Publish(events.SessionChangedEvent{
		ID:          events.NewID(),
		Command:     cmd.String(),
		Session:     st.Session.String(),
		Subsession:  st.Subsession.String(),
		CallSession: st.CallSession,
		Recording:   st.Recording,
		Timestamp:   events.Now(),
	})
	return err
}

// OpenPCM opens a client PCM stream on path. It is the in-process stream
// API for an embedding host; it has no HTTP or NATS route because the
// returned handle carries samples and cannot cross a request boundary.
func (m *Manager) OpenPCM(dir device.Direction, path string, p pcm.Params) (pcm.Handle, error) {
	if dir != device.DirectionOutput && dir != device.DirectionInput {
		return nil, halerr.Parameter("pcm direction %q is not in or out", dir)
	}
	h, err := m.voice.OpenStream(dir, path, p)
	metrics.SetOpenHandles(m.voice.Status().OpenCount)
	return h, err
}

// ClosePCM closes a stream opened by OpenPCM.
func (m *Manager) ClosePCM(h pcm.Handle) error {
	err := m.voice.CloseStream(h)
	metrics.SetOpenHandles(m.voice.Status().OpenCount)
	return err
}

// StreamInfo describes a host stream.
type StreamInfo struct {
	Role      string
	Direction device.Direction
	Index     uint32
}

// UpdateStreamConnection records that a host stream connected or
// disconnected. Routing is not affected.
func (m *Manager) UpdateStreamConnection(_ context.Context, info StreamInfo, connected bool) error {
	if info.Role == "" {
		return halerr.Parameter("stream role is empty")
	}
	m.logger.Info("Stream connection changed",
		"role", info.Role,
		"direction", info.Direction,
		"index", info.Index,
		"connected", connected)

	m.bus.Publish(events.StreamConnectionEvent{
		ID:        events.NewID(),
		Role:      info.Role,
		Direction: info.Direction.String(),
		Index:     info.Index,
		Connected: connected,
		Timestamp: events.Now(),
	})
	return nil
}

// RouteOption is a named routing option set by a client role.
type RouteOption struct {
	Role  string
	Name  string
	Value int
}

// UpdateRouteOption records a route option. Routing is not affected.
func (m *Manager) UpdateRouteOption(_ context.Context, opt RouteOption) error {
	if opt.Role == "" || opt.Name == "" {
		return halerr.Parameter("route option needs a role and a name")
	}
	m.logger.Info("Route option updated", "role", opt.Role, "option", opt.Name, "value", opt.Value)

	m.bus.Publish(events.RouteOptionEvent{
		ID:        events.NewID(),
		Role:      opt.Role,
		Name:      opt.Name,
		Value:     opt.Value,
		Timestamp: events.Now(),
	})
	return nil
}
