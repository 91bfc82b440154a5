// Package voicepcm owns the voice call PCM handles and the PCM lock.
package voicepcm

import (
	"log/slog"
	"sync"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/internal/pcm"
)

// DefaultDevice is the fixed voice hardware path.
const DefaultDevice = "hw:0,1"

// Voice path sample rates.
const (
	RateNarrowband uint32 = 8000
	RateWideband   uint32 = 16000
)

// Target selects which voice handles Close acts on.
type Target int

// Close targets.
const (
	TargetPlayback Target = iota + 1
	TargetCapture
	TargetBoth
)

// TargetFor returns the handle target of a direction.
func TargetFor(dir device.Direction) Target {
	if dir == device.DirectionInput {
		return TargetCapture
	}
	return TargetPlayback
}

func (t Target) directions() []device.Direction {
	switch t {
	case TargetPlayback:
		return []device.Direction{device.DirectionOutput}
	case TargetCapture:
		return []device.Direction{device.DirectionInput}
	case TargetBoth:
		return []device.Direction{device.DirectionOutput, device.DirectionInput}
	default:
		return nil
	}
}

// RouteResetter is the route reset path Close invokes when asked to reset.
// It is called without the PCM lock held.
type RouteResetter interface {
	InCallMode() bool
	ResetDirection(dir device.Direction)
}

// Status is a snapshot of the PCM state.
type Status struct {
	PlaybackOpen bool   `json:"playback_open"`
	CaptureOpen  bool   `json:"capture_open"`
	Rate         uint32 `json:"rate,omitempty"`
	OpenCount    int    `json:"open_count"`
}

// Manager guards the voice handles and every PCM open/close with one mutex,
// held for the whole open or close sequence.
type Manager struct {
	mu        sync.Mutex
	transport pcm.Transport
	device    string
	channels  uint32
	playback  pcm.Handle
	capture   pcm.Handle
	streams   map[pcm.Handle]struct{}
	count     int
	resetter  RouteResetter
	logger    *slog.Logger
}

// New creates a manager for the voice path at devicePath.
func New(transport pcm.Transport, devicePath string, logger *slog.Logger) *Manager {
	if devicePath == "" {
		devicePath = DefaultDevice
	}
	return &Manager{
		transport: transport,
		device:    devicePath,
		channels:  1,
		streams:   make(map[pcm.Handle]struct{}),
		logger:    logger,
	}
}

// SetResetter installs the route reset path.
func (m *Manager) SetResetter(r RouteResetter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetter = r
}

// Open opens playback then capture on the voice path. A handle that is
// already open is left alone. Both directions are attempted even if the
// first fails; the first error is returned.
func (m *Manager) Open(wideband bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	params := pcm.Params{
		Rate:     RateNarrowband,
		Channels: m.channels,
		Format:   pcm.FormatS16LE,
		Access:   pcm.AccessRWInterleaved,
	}
	if wideband {
		params.Rate = RateWideband
	}

	var firstErr error
	if m.playback == nil {
		h, err := m.openLocked(device.DirectionOutput, params)
		if err != nil {
			firstErr = err
		} else {
			m.playback = h
		}
	}
	if m.capture == nil {
		h, err := m.openLocked(device.DirectionInput, params)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			m.capture = h
		}
	}

	return firstErr
}

func (m *Manager) openLocked(dir device.Direction, params pcm.Params) (pcm.Handle, error) {
	h, err := m.transport.Open(dir, m.device, params)
	if err != nil {
		m.logger.Warn("Failed to open voice PCM", "direction", dir, "device", m.device, "error", err)
		return nil, asResourceError("open voice "+dir.String(), err)
	}
	m.count++
	m.logger.Info("Voice PCM opened", "direction", dir, "device", m.device, "params", h.Params(), "open_count", m.count)
	return h, nil
}

// Close closes the targeted voice handles. A handle that is already closed
// is skipped. When reset is set, at least one targeted handle was open and
// the route layer is in call mode, the route reset path runs for each
// targeted direction after the PCM lock is released.
func (m *Manager) Close(target Target, reset bool) error {
	dirs := target.directions()
	if dirs == nil {
		return halerr.Parameter("unknown close target %d", target)
	}

	m.mu.Lock()
	var (
		firstErr error
		closed   int
	)
	for _, dir := range dirs {
		h := m.handleLocked(dir)
		if *h == nil {
			continue
		}
		closed++
		if err := (*h).Close(); err != nil {
			m.logger.Warn("Failed to close voice PCM", "direction", dir, "error", err)
			if firstErr == nil {
				firstErr = asResourceError("close voice "+dir.String(), err)
			}
		}
		*h = nil
		m.count--
		m.logger.Info("Voice PCM closed", "direction", dir, "open_count", m.count)
	}
	resetter := m.resetter
	m.mu.Unlock()

	if reset && closed > 0 && resetter != nil && resetter.InCallMode() {
		for _, dir := range dirs {
			resetter.ResetDirection(dir)
		}
	}

	return firstErr
}

func (m *Manager) handleLocked(dir device.Direction) *pcm.Handle {
	if dir == device.DirectionInput {
		return &m.capture
	}
	return &m.playback
}

// OpenStream opens a general playback or capture PCM under the PCM lock.
func (m *Manager) OpenStream(dir device.Direction, path string, params pcm.Params) (pcm.Handle, error) {
	if path == "" {
		return nil, halerr.Parameter("pcm path is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	h, err := m.transport.Open(dir, path, params)
	if err != nil {
		return nil, asResourceError("open "+path, err)
	}
	m.streams[h] = struct{}{}
	m.count++
	m.logger.Debug("Stream PCM opened", "direction", dir, "path", path, "open_count", m.count)
	return h, nil
}

// CloseStream closes a handle returned by OpenStream.
func (m *Manager) CloseStream(h pcm.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.streams[h]; !ok {
		return halerr.Parameter("unknown pcm handle")
	}
	delete(m.streams, h)
	m.count--

	if err := h.Close(); err != nil {
		return asResourceError("close "+h.Path(), err)
	}
	m.logger.Debug("Stream PCM closed", "path", h.Path(), "open_count", m.count)
	return nil
}

// Status returns a snapshot.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		PlaybackOpen: m.playback != nil,
		CaptureOpen:  m.capture != nil,
		OpenCount:    m.count,
	}
	if m.playback != nil {
		st.Rate = m.playback.Params().Rate
	} else if m.capture != nil {
		st.Rate = m.capture.Params().Rate
	}
	return st
}

// asResourceError keeps typed transport errors and classifies the rest as
// resource failures.
func asResourceError(msg string, err error) error {
	if _, ok := err.(*halerr.Error); ok {
		return err
	}
	return halerr.Resource(msg, err)
}
