// Package session implements the session/subsession state machine that
// decides when the voice PCM path has to be opened or closed.
package session

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
	"github.com/smazurov/audiohal/internal/halerr"
)

// Call mode states and events.
const (
	stateIdle = "idle"
	stateCall = "call"

	eventCallStart = "call_start"
	eventCallEnd   = "call_end"
)

// VoicePath is the voice PCM side effect driven by session transitions.
type VoicePath interface {
	// OpenVoice opens both voice handles. Already open handles are kept.
	OpenVoice() error
	// CloseVoice closes both voice handles, resetting routes when asked.
	CloseVoice(reset bool) error
}

// Machine tracks (session, subsession, call, recording).
//
// Machine is not safe for concurrent use; hal.Manager serialises access.
type Machine struct {
	session    Session
	subsession Subsession
	recording  bool
	call       *fsm.FSM
	voice      VoicePath
	logger     *slog.Logger
}

// NewMachine creates a machine in (media, none) with no call active.
func NewMachine(voice VoicePath, logger *slog.Logger) *Machine {
	m := &Machine{
		session:    SessionMedia,
		subsession: SubsessionNone,
		voice:      voice,
		logger:     logger,
	}

	m.call = fsm.NewFSM(
		stateIdle,
		fsm.Events{
			{Name: eventCallStart, Src: []string{stateIdle}, Dst: stateCall},
			{Name: eventCallEnd, Src: []string{stateCall}, Dst: stateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug("Call mode changed", "from", e.Src, "to", e.Dst)
			},
		},
	)

	return m
}

// InCall reports whether a call session is active.
func (m *Machine) InCall() bool {
	return m.call.Is(stateCall)
}

// State returns a snapshot.
func (m *Machine) State() State {
	return State{
		Session:     m.session,
		Subsession:  m.subsession,
		CallSession: m.InCall(),
		Recording:   m.recording,
	}
}

// Apply runs a session command.
func (m *Machine) Apply(ctx context.Context, cmd Command, s Session, sub Subsession) error {
	if !s.Valid() {
		return halerr.Parameter("session %d out of range", s)
	}
	if !sub.Valid() {
		return halerr.Parameter("subsession %d out of range", sub)
	}

	switch cmd {
	case CommandStart:
		return m.start(ctx, s, sub)
	case CommandSubsession:
		return m.changeSubsession(sub)
	case CommandEnd:
		return m.end(ctx, s)
	default:
		return halerr.InvalidState("unknown session command %d", cmd)
	}
}

func (m *Machine) start(ctx context.Context, s Session, sub Subsession) error {
	if m.InCall() {
		return halerr.InvalidState("cannot start %s: call session %s in progress", s, m.session)
	}

	m.session = s
	m.setSubsession(sub)

	if s.IsCall() {
		if err := m.call.Event(ctx, eventCallStart); err != nil {
			return halerr.Wrap(halerr.ErrInternal, "enter call mode", err)
		}
	}

	m.logger.Info("Session started", "session", s, "subsession", sub, "call", m.InCall())
	return nil
}

func (m *Machine) changeSubsession(sub Subsession) error {
	prev := m.subsession
	inCall := m.InCall()

	if inCall && !sub.allowedInCall() {
		return halerr.InvalidState("subsession %s not allowed during call session %s", sub, m.session)
	}

	var firstErr error
	if inCall && prev == SubsessionVoice && sub != SubsessionVoice {
		if err := m.voice.CloseVoice(true); err != nil {
			m.logger.Warn("Failed to close voice path", "error", err)
			firstErr = err
		}
	}

	m.setSubsession(sub)

	if inCall && prev != SubsessionVoice && sub == SubsessionVoice {
		if err := m.voice.OpenVoice(); err != nil {
			m.logger.Warn("Failed to open voice path", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	m.logger.Info("Subsession changed", "session", m.session, "from", prev, "to", sub, "recording", m.recording)
	return firstErr
}

func (m *Machine) end(ctx context.Context, s Session) error {
	var closeErr error
	if s.IsCall() {
		if err := m.voice.CloseVoice(true); err != nil {
			m.logger.Warn("Failed to close voice path", "error", err)
			closeErr = err
		}
		if m.InCall() {
			if err := m.call.Event(ctx, eventCallEnd); err != nil {
				return halerr.Wrap(halerr.ErrInternal, "leave call mode", err)
			}
		}
	}

	if m.InCall() {
		return halerr.InvalidState("cannot end %s: call session %s in progress", s, m.session)
	}

	ended := m.session
	m.session = SessionMedia
	m.setSubsession(SubsessionNone)

	m.logger.Info("Session ended", "session", ended)
	return closeErr
}

// setSubsession updates the subsession and recomputes the recording flag.
func (m *Machine) setSubsession(sub Subsession) {
	m.subsession = sub
	m.recording = sub.IsRecording()
}
