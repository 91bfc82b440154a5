package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/kelindar/event"
)

// Event type constants for kelindar/event.
const (
	TypeRouteApplied uint32 = iota + 1
	TypeSessionChanged
	TypeVoicePCM
	TypeStreamConnection
	TypeRouteOption
	TypeVolumeReloaded
	TypeLogEntry
)

// Event is implemented by every type in this package. Type satisfies
// kelindar/event; dispatch publishes the concrete value.
type Event interface {
	Type() uint32
	dispatch(d *event.Dispatcher)
}

// NewID returns a fresh event identifier.
func NewID() string {
	return uuid.NewString()
}

// Now returns the event timestamp format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// RouteAppliedEvent is published after every route request, successful or not.
type RouteAppliedEvent struct {
	ID        string   `json:"id" doc:"Event identifier"`
	Role      string   `json:"role" example:"call-voice" doc:"Requested role"`
	Kind      string   `json:"kind" example:"call" doc:"Effective request kind"`
	Verb      string   `json:"verb,omitempty" example:"VoiceCall" doc:"Activated UCM verb"`
	Devices   []string `json:"devices,omitempty" example:"[\"Speaker\",\"MainMic\"]" doc:"Ordered device list"`
	Modifiers []string `json:"modifiers,omitempty" doc:"Enabled UCM modifiers"`
	Error     string   `json:"error,omitempty" doc:"Failure reason"`
	Timestamp string   `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

func (e RouteAppliedEvent) Type() uint32 { return TypeRouteApplied }

func (e RouteAppliedEvent) dispatch(d *event.Dispatcher) { event.Publish(d, e) }

// SessionChangedEvent is published after a session command succeeds.
type SessionChangedEvent struct {
	ID          string `json:"id" doc:"Event identifier"`
	Command     string `json:"command" example:"start" doc:"Applied command"`
	Session     string `json:"session" example:"voicecall" doc:"Current session"`
	Subsession  string `json:"subsession" example:"voice" doc:"Current subsession"`
	CallSession bool   `json:"call_session" doc:"Whether a call session is active"`
	Recording   bool   `json:"recording" doc:"Whether recording is active"`
	Timestamp   string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

func (e SessionChangedEvent) Type() uint32 { return TypeSessionChanged }

func (e SessionChangedEvent) dispatch(d *event.Dispatcher) { event.Publish(d, e) }

// VoicePCMEvent is published when the voice PCM pair changes state.
type VoicePCMEvent struct {
	ID           string `json:"id" doc:"Event identifier"`
	Action       string `json:"action" example:"open" doc:"open or close"`
	PlaybackOpen bool   `json:"playback_open" doc:"Voice playback handle open"`
	CaptureOpen  bool   `json:"capture_open" doc:"Voice capture handle open"`
	Rate         uint32 `json:"rate,omitempty" example:"16000" doc:"Voice sample rate"`
	Error        string `json:"error,omitempty" doc:"Failure reason"`
	Timestamp    string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

func (e VoicePCMEvent) Type() uint32 { return TypeVoicePCM }

func (e VoicePCMEvent) dispatch(d *event.Dispatcher) { event.Publish(d, e) }

// StreamConnectionEvent records a host stream connect or disconnect.
type StreamConnectionEvent struct {
	ID        string `json:"id" doc:"Event identifier"`
	Role      string `json:"role" example:"media" doc:"Stream role"`
	Direction string `json:"direction" example:"out" doc:"Stream direction"`
	Index     uint32 `json:"index" doc:"Host stream index"`
	Connected bool   `json:"connected" doc:"Connected or disconnected"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

func (e StreamConnectionEvent) Type() uint32 { return TypeStreamConnection }

func (e StreamConnectionEvent) dispatch(d *event.Dispatcher) { event.Publish(d, e) }

// RouteOptionEvent records a host route option update.
type RouteOptionEvent struct {
	ID        string `json:"id" doc:"Event identifier"`
	Role      string `json:"role" example:"call-voice" doc:"Route role"`
	Name      string `json:"name" example:"extra-volume" doc:"Option name"`
	Value     int    `json:"value" doc:"Option value"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

func (e RouteOptionEvent) Type() uint32 { return TypeRouteOption }

func (e RouteOptionEvent) dispatch(d *event.Dispatcher) { event.Publish(d, e) }

// VolumeReloadedEvent is published after the volume table file is reloaded.
type VolumeReloadedEvent struct {
	ID        string `json:"id" doc:"Event identifier"`
	Path      string `json:"path" example:"/etc/audiohal/volume.toml" doc:"Table file"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

func (e VolumeReloadedEvent) Type() uint32 { return TypeVolumeReloaded }

func (e VolumeReloadedEvent) dispatch(d *event.Dispatcher) { event.Publish(d, e) }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"hal" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }

func (e LogEntryEvent) dispatch(d *event.Dispatcher) { event.Publish(d, e) }
