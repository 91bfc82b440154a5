package nats

import (
	"encoding/json"
	"fmt"

	"github.com/smazurov/audiohal/internal/hal"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/internal/route"
)

// Subject prefixes for NATS topics.
const (
	SubjectEventsPrefix  = "audiohal.events"
	SubjectControlPrefix = "audiohal.control"
)

// Control actions.
const (
	ActionRoute   = "route"
	ActionReset   = "reset"
	ActionSession = "session"
	ActionState   = "state"
)

// SubjectEvent returns the subject an event kind is published on.
func SubjectEvent(kind string) string {
	return fmt.Sprintf("%s.%s", SubjectEventsPrefix, kind)
}

// SubjectControl returns the request subject for a control action.
func SubjectControl(action string) string {
	return fmt.Sprintf("%s.%s", SubjectControlPrefix, action)
}

// DeviceMessage is one requested device.
type DeviceMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

// RouteMessage requests a route for a role.
type RouteMessage struct {
	Role    string          `json:"role"`
	Devices []DeviceMessage `json:"devices"`
	Flags   []string        `json:"flags,omitempty"`
}

// ResetMessage clears one direction of the active device set.
type ResetMessage struct {
	Direction string `json:"direction"`
}

// SessionMessage carries a session command.
type SessionMessage struct {
	Command    string `json:"command"`
	Session    string `json:"session"`
	Subsession string `json:"subsession,omitempty"`
}

// PlanMessage is the outcome of a route request.
type PlanMessage struct {
	Kind            string   `json:"kind"`
	Verb            string   `json:"verb,omitempty"`
	Devices         []string `json:"devices,omitempty"`
	Modifiers       []string `json:"modifiers,omitempty"`
	Reset           []string `json:"reset,omitempty"`
	DualOut         bool     `json:"dual_out,omitempty"`
	InputSuppressed bool     `json:"input_suppressed,omitempty"`
}

// StateMessage is a routing state snapshot.
type StateMessage struct {
	Session        string   `json:"session"`
	Subsession     string   `json:"subsession"`
	CallSession    bool     `json:"call_session"`
	Recording      bool     `json:"recording"`
	CallMode       bool     `json:"call_mode"`
	Flags          []string `json:"flags,omitempty"`
	Outputs        []string `json:"outputs"`
	Inputs         []string `json:"inputs"`
	Verb           string   `json:"verb,omitempty"`
	Devices        []string `json:"devices,omitempty"`
	VoicePlayback  bool     `json:"voice_playback"`
	VoiceCapture   bool     `json:"voice_capture"`
	VoiceRate      uint32   `json:"voice_rate,omitempty"`
	VoiceOpenCount int      `json:"voice_open_count"`
}

// ReplyMessage answers every control request.
type ReplyMessage struct {
	OK    bool          `json:"ok"`
	Code  string        `json:"code,omitempty"`
	Error string        `json:"error,omitempty"`
	Plan  *PlanMessage  `json:"plan,omitempty"`
	State *StateMessage `json:"state,omitempty"`
}

// Marshal serializes the message to JSON.
func (m ReplyMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Err converts a failed reply back into a routing error.
func (m ReplyMessage) Err() error {
	if m.OK {
		return nil
	}
	code := halerr.ErrorCode(m.Code)
	if code == "" {
		code = halerr.ErrInternal
	}
	return halerr.New(code, m.Error)
}

// UnmarshalReply deserializes a ReplyMessage from JSON.
func UnmarshalReply(data []byte) (ReplyMessage, error) {
	var m ReplyMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

func errorReply(err error) ReplyMessage {
	return ReplyMessage{Code: string(halerr.CodeOf(err)), Error: err.Error()}
}

func planMessage(p route.Plan) *PlanMessage {
	m := &PlanMessage{
		Kind:            p.Kind.String(),
		Verb:            string(p.Verb),
		Devices:         p.Devices,
		DualOut:         p.DualOut,
		InputSuppressed: p.InputSuppressed,
	}
	for _, mod := range p.Modifiers {
		m.Modifiers = append(m.Modifiers, string(mod))
	}
	for _, d := range p.Reset {
		m.Reset = append(m.Reset, d.String())
	}
	return m
}

func stateMessage(st hal.State) *StateMessage {
	return &StateMessage{
		Session:        st.Session.String(),
		Subsession:     st.Subsession.String(),
		CallSession:    st.CallSession,
		Recording:      st.Recording,
		CallMode:       st.CallMode,
		Flags:          st.Flags.Names(),
		Outputs:        st.Outputs,
		Inputs:         st.Inputs,
		Verb:           string(st.Verb),
		Devices:        st.Devices,
		VoicePlayback:  st.VoicePCM.PlaybackOpen,
		VoiceCapture:   st.VoicePCM.CaptureOpen,
		VoiceRate:      st.VoicePCM.Rate,
		VoiceOpenCount: st.VoicePCM.OpenCount,
	}
}
