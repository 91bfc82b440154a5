package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/smazurov/audiohal/internal/halerr"
)

// fakeVoice records voice path calls and mirrors the open/close pairing of
// the real manager.
type fakeVoice struct {
	open       bool
	opens      int
	closes     int
	resets     int
	openErr    error
	closeCalls []bool
}

func (f *fakeVoice) OpenVoice() error {
	if f.openErr != nil {
		return f.openErr
	}
	if !f.open {
		f.open = true
		f.opens++
	}
	return nil
}

func (f *fakeVoice) CloseVoice(reset bool) error {
	f.closeCalls = append(f.closeCalls, reset)
	if reset {
		f.resets++
	}
	if f.open {
		f.open = false
		f.closes++
	}
	return nil
}

func newTestMachine() (*Machine, *fakeVoice) {
	voice := &fakeVoice{}
	return NewMachine(voice, slog.New(slog.DiscardHandler)), voice
}

func TestInitialState(t *testing.T) {
	m, _ := newTestMachine()
	want := State{Session: SessionMedia, Subsession: SubsessionNone}
	if got := m.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}

func TestStartCallSession(t *testing.T) {
	tests := []struct {
		session  Session
		wantCall bool
	}{
		{SessionVoiceCall, true},
		{SessionVideoCall, true},
		{SessionVoIP, true},
		{SessionMedia, false},
		{SessionFMRadio, false},
		{SessionCamcorder, false},
	}

	for _, tt := range tests {
		t.Run(tt.session.String(), func(t *testing.T) {
			m, _ := newTestMachine()
			if err := m.Apply(context.Background(), CommandStart, tt.session, SubsessionNone); err != nil {
				t.Fatalf("Start(%s) error = %v", tt.session, err)
			}
			if got := m.InCall(); got != tt.wantCall {
				t.Errorf("InCall() = %v, want %v", got, tt.wantCall)
			}
		})
	}
}

func TestStartDuringCallFailsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	m, voice := newTestMachine()

	if err := m.Apply(ctx, CommandStart, SessionVoiceCall, SubsessionRingtone); err != nil {
		t.Fatalf("Start(voicecall) error = %v", err)
	}
	before := m.State()

	err := m.Apply(ctx, CommandStart, SessionCamcorder, SubsessionStereoRecord)
	if !halerr.HasCode(err, halerr.ErrInvalidState) {
		t.Fatalf("Start during call error = %v, want INVALID_STATE", err)
	}
	if after := m.State(); after != before {
		t.Errorf("state changed: got %+v, want %+v", after, before)
	}
	if voice.opens != 0 || len(voice.closeCalls) != 0 {
		t.Errorf("voice path touched: opens=%d closes=%d", voice.opens, len(voice.closeCalls))
	}
}

func TestSubsessionGuardDuringCall(t *testing.T) {
	ctx := context.Background()

	disallowed := []Subsession{
		SubsessionNone, SubsessionInit, SubsessionVRNormal,
		SubsessionVRDrive, SubsessionStereoRecord, SubsessionMonoRecord,
	}

	for _, sub := range disallowed {
		t.Run(sub.String(), func(t *testing.T) {
			m, _ := newTestMachine()
			if err := m.Apply(ctx, CommandStart, SessionVoIP, SubsessionMedia); err != nil {
				t.Fatal(err)
			}
			before := m.State()

			err := m.Apply(ctx, CommandSubsession, SessionVoIP, sub)
			if !halerr.HasCode(err, halerr.ErrInvalidState) {
				t.Errorf("Subsession(%s) error = %v, want INVALID_STATE", sub, err)
			}
			if after := m.State(); after != before {
				t.Errorf("state changed: got %+v, want %+v", after, before)
			}
		})
	}
}

func TestSubsessionVoiceOpensAndClosesVoicePath(t *testing.T) {
	ctx := context.Background()
	m, voice := newTestMachine()

	steps := []struct {
		sub        Subsession
		wantOpen   bool
		wantOpens  int
		wantCloses int
	}{
		{SubsessionRingtone, false, 0, 0},
		{SubsessionVoice, true, 1, 0},
		{SubsessionVoice, true, 1, 0}, // repeat is idempotent
		{SubsessionMedia, false, 1, 1},
		{SubsessionVoice, true, 2, 1},
	}

	if err := m.Apply(ctx, CommandStart, SessionVoiceCall, SubsessionNone); err != nil {
		t.Fatal(err)
	}

	for i, step := range steps {
		if err := m.Apply(ctx, CommandSubsession, SessionVoiceCall, step.sub); err != nil {
			t.Fatalf("step %d: Subsession(%s) error = %v", i, step.sub, err)
		}
		if voice.open != step.wantOpen || voice.opens != step.wantOpens || voice.closes != step.wantCloses {
			t.Errorf("step %d (%s): open=%v opens=%d closes=%d, want open=%v opens=%d closes=%d",
				i, step.sub, voice.open, voice.opens, voice.closes,
				step.wantOpen, step.wantOpens, step.wantCloses)
		}
	}

	for i, reset := range voice.closeCalls {
		if !reset {
			t.Errorf("close call %d without reset", i)
		}
	}
}

func TestSubsessionOutsideCallDoesNotTouchVoicePath(t *testing.T) {
	ctx := context.Background()
	m, voice := newTestMachine()

	for _, sub := range []Subsession{SubsessionVoice, SubsessionMedia, SubsessionInit} {
		if err := m.Apply(ctx, CommandSubsession, SessionMedia, sub); err != nil {
			t.Fatalf("Subsession(%s) error = %v", sub, err)
		}
	}
	if voice.opens != 0 || len(voice.closeCalls) != 0 {
		t.Errorf("voice path touched outside call: opens=%d closes=%d", voice.opens, len(voice.closeCalls))
	}
}

func TestRecordingFlag(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMachine()

	steps := []struct {
		sub  Subsession
		want bool
	}{
		{SubsessionStereoRecord, true},
		{SubsessionMonoRecord, true},
		{SubsessionMedia, false},
		{SubsessionMonoRecord, true},
		{SubsessionInit, false},
		{SubsessionStereoRecord, true},
		{SubsessionVoice, false},
	}

	for i, step := range steps {
		if err := m.Apply(ctx, CommandSubsession, SessionMedia, step.sub); err != nil {
			t.Fatal(err)
		}
		if got := m.State().Recording; got != step.want {
			t.Errorf("step %d (%s): Recording = %v, want %v", i, step.sub, got, step.want)
		}
	}

	if err := m.Apply(ctx, CommandSubsession, SessionMedia, SubsessionStereoRecord); err != nil {
		t.Fatal(err)
	}
	if err := m.Apply(ctx, CommandEnd, SessionMedia, SubsessionNone); err != nil {
		t.Fatal(err)
	}
	if m.State().Recording {
		t.Error("Recording still set after ending the media session")
	}
}

func TestEndCallClosesBeforeClearing(t *testing.T) {
	ctx := context.Background()
	m, voice := newTestMachine()

	if err := m.Apply(ctx, CommandStart, SessionVoiceCall, SubsessionVoice); err != nil {
		t.Fatal(err)
	}
	if err := m.Apply(ctx, CommandSubsession, SessionVoiceCall, SubsessionMedia); err != nil {
		t.Fatal(err)
	}
	if err := m.Apply(ctx, CommandSubsession, SessionVoiceCall, SubsessionVoice); err != nil {
		t.Fatal(err)
	}

	// The reset path asks the machine whether it is still in call mode while
	// the voice path closes.
	var inCallDuringClose bool
	probe := &probeVoice{fakeVoice: voice, onClose: func() { inCallDuringClose = m.InCall() }}
	m.voice = probe

	if err := m.Apply(ctx, CommandEnd, SessionVoiceCall, SubsessionNone); err != nil {
		t.Fatalf("End(voicecall) error = %v", err)
	}
	if !inCallDuringClose {
		t.Error("voice path closed after call mode was cleared")
	}

	want := State{Session: SessionMedia, Subsession: SubsessionNone}
	if got := m.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
	if voice.open {
		t.Error("voice path still open after End")
	}
}

type probeVoice struct {
	*fakeVoice
	onClose func()
}

func (p *probeVoice) CloseVoice(reset bool) error {
	p.onClose()
	return p.fakeVoice.CloseVoice(reset)
}

func TestEndNonCallDuringCallFails(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMachine()

	if err := m.Apply(ctx, CommandStart, SessionVideoCall, SubsessionMedia); err != nil {
		t.Fatal(err)
	}
	before := m.State()

	err := m.Apply(ctx, CommandEnd, SessionAlarm, SubsessionNone)
	if !halerr.HasCode(err, halerr.ErrInvalidState) {
		t.Fatalf("End(alarm) error = %v, want INVALID_STATE", err)
	}
	if after := m.State(); after != before {
		t.Errorf("state changed: got %+v, want %+v", after, before)
	}
}

func TestVoiceOpenErrorIsReportedAfterTransition(t *testing.T) {
	ctx := context.Background()
	m, voice := newTestMachine()
	voice.openErr = halerr.Resource("open hw:0,1", errors.New("device busy"))

	if err := m.Apply(ctx, CommandStart, SessionVoiceCall, SubsessionRingtone); err != nil {
		t.Fatal(err)
	}
	err := m.Apply(ctx, CommandSubsession, SessionVoiceCall, SubsessionVoice)
	if !halerr.HasCode(err, halerr.ErrResource) {
		t.Errorf("Subsession(voice) error = %v, want RESOURCE", err)
	}
	if got := m.State().Subsession; got != SubsessionVoice {
		t.Errorf("Subsession = %s, want voice", got)
	}
}

func TestApplyRejectsInvalidArguments(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMachine()

	if err := m.Apply(ctx, CommandStart, Session(99), SubsessionNone); !halerr.HasCode(err, halerr.ErrParameter) {
		t.Errorf("invalid session error = %v, want PARAMETER", err)
	}
	if err := m.Apply(ctx, CommandStart, SessionMedia, Subsession(-1)); !halerr.HasCode(err, halerr.ErrParameter) {
		t.Errorf("invalid subsession error = %v, want PARAMETER", err)
	}
	if err := m.Apply(ctx, Command(7), SessionMedia, SubsessionNone); !halerr.HasCode(err, halerr.ErrInvalidState) {
		t.Errorf("unknown command error = %v, want INVALID_STATE", err)
	}
}

func TestParseNames(t *testing.T) {
	for s := SessionMedia; s < sessionMax; s++ {
		got, err := ParseSession(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSession(%q) = (%v, %v), want %v", s.String(), got, err, s)
		}
	}
	for sub := SubsessionNone; sub < subsessionMax; sub++ {
		got, err := ParseSubsession(sub.String())
		if err != nil || got != sub {
			t.Errorf("ParseSubsession(%q) = (%v, %v), want %v", sub.String(), got, err, sub)
		}
	}
	if _, err := ParseCommand("pause"); !halerr.HasCode(err, halerr.ErrInvalidState) {
		t.Errorf("ParseCommand(pause) error = %v, want INVALID_STATE", err)
	}
}

// TestRandomCommandSequences checks the derived flags after every step of
// seeded random command sequences.
func TestRandomCommandSequences(t *testing.T) {
	ctx := context.Background()

	for seed := uint64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7919))
		m, voice := newTestMachine()
		wantCall := false

		for step := 0; step < 200; step++ {
			cmd := Command(rng.IntN(3))
			s := Session(rng.IntN(int(sessionMax)))
			sub := Subsession(rng.IntN(int(subsessionMax)))
			before := m.State()

			err := m.Apply(ctx, cmd, s, sub)

			switch cmd {
			case CommandStart:
				if wantCall {
					if !halerr.HasCode(err, halerr.ErrInvalidState) {
						t.Fatalf("seed %d step %d: Start during call error = %v", seed, step, err)
					}
					if m.State() != before {
						t.Fatalf("seed %d step %d: rejected Start mutated state", seed, step)
					}
				} else {
					wantCall = s.IsCall()
				}
			case CommandEnd:
				if s.IsCall() {
					wantCall = false
				} else if wantCall && !halerr.HasCode(err, halerr.ErrInvalidState) {
					t.Fatalf("seed %d step %d: End(%s) during call error = %v", seed, step, s, err)
				}
			case CommandSubsession:
				if wantCall && !sub.allowedInCall() && m.State() != before {
					t.Fatalf("seed %d step %d: rejected Subsession mutated state", seed, step)
				}
			}

			st := m.State()
			if st.CallSession != wantCall {
				t.Fatalf("seed %d step %d (%s %s %s): CallSession = %v, want %v",
					seed, step, cmd, s, sub, st.CallSession, wantCall)
			}
			if st.Recording && !st.Subsession.IsRecording() {
				t.Fatalf("seed %d step %d: Recording set in subsession %s", seed, step, st.Subsession)
			}
			if !st.CallSession && voice.open && cmd == CommandEnd && s.IsCall() {
				t.Fatalf("seed %d step %d: voice path left open after ending call", seed, step)
			}
		}
	}
}
