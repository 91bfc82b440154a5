// Package hal is the routing core's context object. A Manager owns the
// active device set, the session state machine and the voice PCM manager,
// and serialises every host entry point behind one lock.
package hal

import (
	"log/slog"
	"sync"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/metrics"
	"github.com/smazurov/audiohal/internal/pcm"
	"github.com/smazurov/audiohal/internal/route"
	"github.com/smazurov/audiohal/internal/session"
	"github.com/smazurov/audiohal/internal/ucm"
	"github.com/smazurov/audiohal/internal/voicepcm"
	"github.com/smazurov/audiohal/internal/volume"
)

// Config holds the tunables of a Manager.
type Config struct {
	// VoiceDevice is the voice call PCM path, "hw:0,1" when empty.
	VoiceDevice string
	// Playback hints passed to the host for the primary playback device.
	SuspendTimeoutMsec int
	TschedBufferSize   int
	// CaptureRate is passed to the host for the primary capture device.
	CaptureRate int
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		VoiceDevice:        voicepcm.DefaultDevice,
		SuspendTimeoutMsec: 5000,
		TschedBufferSize:   16384,
		CaptureRate:        48000,
	}
}

// routeMode is the verb family of the last applied route.
type routeMode int

const (
	modeNormal routeMode = iota
	modeCall
)

// Manager is the routing core.
type Manager struct {
	mu sync.Mutex

	cfg     Config
	active  device.ActiveSet
	machine *session.Machine
	voice   *voicepcm.Manager
	ucm     ucm.Activator
	host    Host
	volume  *volume.Store
	bus     *events.Bus
	logger  *slog.Logger

	mode        routeMode
	flags       route.Flags
	lastVerb    route.Verb
	lastDevices []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithHost installs the host device callbacks.
func WithHost(h Host) Option {
	return func(m *Manager) { m.host = h }
}

// WithVolume installs the volume and gain store.
func WithVolume(s *volume.Store) Option {
	return func(m *Manager) { m.volume = s }
}

// WithEvents publishes state changes on bus.
func WithEvents(bus *events.Bus) Option {
	return func(m *Manager) { m.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a Manager that activates routes through activator and opens
// PCMs through transport.
func New(cfg Config, activator ucm.Activator, transport pcm.Transport, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		ucm:    activator,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.volume == nil {
		m.volume = volume.NewStore(nil, m.logger)
	}

	m.voice = voicepcm.New(transport, cfg.VoiceDevice, m.logger.With("component", "voicepcm"))
	m.voice.SetResetter(routeResetter{m})
	m.machine = session.NewMachine(voicePath{m}, m.logger.With("component", "session"))

	m.observeLocked()
	return m
}

// State is a snapshot of the routing core.
type State struct {
	Session     session.Session
	Subsession  session.Subsession
	CallSession bool
	Recording   bool
	CallMode    bool
	Flags       route.Flags
	Outputs     []string
	Inputs      []string
	Verb        route.Verb
	Devices     []string
	VoicePCM    voicepcm.Status
}

// State returns a snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	ss := m.machine.State()
	return State{
		Session:     ss.Session,
		Subsession:  ss.Subsession,
		CallSession: ss.CallSession,
		Recording:   ss.Recording,
		CallMode:    m.mode == modeCall,
		Flags:       m.flags,
		Outputs:     m.active.Snapshot(device.DirectionOutput),
		Inputs:      m.active.Snapshot(device.DirectionInput),
		Verb:        m.lastVerb,
		Devices:     append([]string(nil), m.lastDevices...),
		VoicePCM:    m.voice.Status(),
	}
}

// Volume returns the volume and gain store.
func (m *Manager) Volume() *volume.Store {
	return m.volume
}

// GetGain returns the gain factor of a gain type.
func (m *Manager) GetGain(name string) (float64, error) {
	return m.volume.Gain(name)
}

// GetVolumeTable returns the level curve of a volume type.
func (m *Manager) GetVolumeTable(name string) ([]float64, error) {
	return m.volume.VolumeTable(name)
}

// inCallModeLocked reports call mode: a call session is active or the last
// route used the call verb.
func (m *Manager) inCallModeLocked() bool {
	return m.machine.InCall() || m.mode == modeCall
}

// observeLocked pushes the current state into metrics.
func (m *Manager) observeLocked() {
	metrics.SetActiveDevices(device.DirectionOutput.String(), len(m.active.Snapshot(device.DirectionOutput)))
	metrics.SetActiveDevices(device.DirectionInput.String(), len(m.active.Snapshot(device.DirectionInput)))
	metrics.SetCallActive(m.machine.InCall())
	st := m.voice.Status()
	metrics.SetVoicePCM(st.PlaybackOpen, st.CaptureOpen)
	metrics.SetOpenHandles(st.OpenCount)
}

func (m *Manager) publishVoice(action string, err error) {
	st := m.voice.Status()
	ev := events.VoicePCMEvent{
		ID:           events.NewID(),
		Action:       action,
		PlaybackOpen: st.PlaybackOpen,
		CaptureOpen:  st.CaptureOpen,
		Rate:         st.Rate,
		Timestamp:    events.Now(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	m.bus.Publish(ev)
}
