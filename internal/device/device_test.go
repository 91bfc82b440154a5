package device

import (
	"slices"
	"testing"

	"github.com/smazurov/audiohal/internal/halerr"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		token string
		dir   Direction
		want  Flag
	}{
		{"speaker", "builtin-speaker", DirectionOutput, OutputFlag(OutSpeaker)},
		{"receiver", "builtin-receiver", DirectionOutput, OutputFlag(OutReceiver)},
		{"jack as output", "audio-jack", DirectionOutput, OutputFlag(OutJack)},
		{"jack as input", "audio-jack", DirectionInput, InputFlag(InJackMic)},
		{"bt as output", "bt", DirectionOutput, OutputFlag(OutBTSCO)},
		{"bt as input", "bt", DirectionInput, InputFlag(InBTMic)},
		{"aux", "aux", DirectionOutput, OutputFlag(OutAux)},
		{"hdmi", "hdmi", DirectionOutput, OutputFlag(OutHDMI)},
		{"mic", "builtin-mic", DirectionInput, InputFlag(InMainMic)},
		{"mic requested as output", "builtin-mic", DirectionOutput, None},
		{"speaker requested as input", "builtin-speaker", DirectionInput, None},
		{"case sensitive", "Builtin-Speaker", DirectionOutput, None},
		{"unknown", "forwarding", DirectionOutput, None},
		{"canonical name", "Headset", DirectionOutput, OutputFlag(OutJack)},
		{"internal-only name", "Mirroring", DirectionOutput, None},
		{"empty token", "", DirectionOutput, None},
		{"no direction", "bt", 0, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.token, tt.dir); got != tt.want {
				t.Errorf("Resolve(%q, %s) = %s, want %s", tt.token, tt.dir, got, tt.want)
			}
		})
	}
}

func TestNameOf(t *testing.T) {
	tests := []struct {
		flag   Flag
		want   string
		wantOK bool
	}{
		{OutputFlag(OutSpeaker), "Speaker", true},
		{OutputFlag(OutReceiver), "Handset", true},
		{OutputFlag(OutBTSCO), "BT-Headset", true},
		{InputFlag(InMainMic), "MainMic", true},
		{InputFlag(InJackMic), "HeadsetMic", true},
		{InputFlag(InBTMic), "BT-Mic", true},
		{None, "", false},
		{OutputFlag(OutSpeaker | OutJack), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.flag.String(), func(t *testing.T) {
			got, ok := NameOf(tt.flag)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NameOf(%s) = (%q, %v), want (%q, %v)", tt.flag, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	for _, dir := range []Direction{DirectionOutput, DirectionInput} {
		for _, token := range Tokens(dir) {
			first := Resolve(token, dir)
			if first.IsNone() {
				t.Fatalf("Resolve(%q, %s) = none", token, dir)
			}

			name, ok := NameOf(first)
			if !ok {
				t.Fatalf("NameOf(%s) failed", first)
			}
			if again := Resolve(name, dir); again != first {
				t.Errorf("Resolve(NameOf(Resolve(%q))) = %s, want %s", token, again, first)
			}

			back, ok := Token(first)
			if !ok || back != token {
				t.Errorf("Token(%s) = (%q, %v), want %q", first, back, ok, token)
			}
		}
	}
}

func TestFlagTagging(t *testing.T) {
	out := OutputFlag(OutSpeaker)
	if _, ok := out.Input(); ok {
		t.Error("output flag must not read as input")
	}
	if got, ok := out.Output(); !ok || got != OutSpeaker {
		t.Errorf("Output() = (%v, %v), want (%v, true)", got, ok, OutSpeaker)
	}
	if out.Direction() != DirectionOutput {
		t.Errorf("Direction() = %s, want out", out.Direction())
	}

	if OutputFlag(0) != None || InputFlag(0) != None {
		t.Error("empty masks must collapse to None")
	}
	if None.String() != "none" {
		t.Errorf("None.String() = %q, want %q", None.String(), "none")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"out", DirectionOutput},
		{"OUTPUT", DirectionOutput},
		{"in", DirectionInput},
		{"input", DirectionInput},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseDirection(%q) = (%s, %v), want %s", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseDirection("both"); !halerr.HasCode(err, halerr.ErrParameter) {
		t.Errorf("ParseDirection(both) error = %v, want PARAMETER", err)
	}
}

func TestActiveSetAccumulates(t *testing.T) {
	var s ActiveSet

	s.Note(OutputFlag(OutJack))
	s.Note(OutputFlag(OutSpeaker))
	s.Note(InputFlag(InBTMic))
	s.Note(InputFlag(InMainMic))
	s.Note(None)

	wantOut := []string{"Speaker", "Headset"}
	if got := s.Snapshot(DirectionOutput); !slices.Equal(got, wantOut) {
		t.Errorf("Snapshot(out) = %v, want %v", got, wantOut)
	}
	wantIn := []string{"MainMic", "BT-Mic"}
	if got := s.Snapshot(DirectionInput); !slices.Equal(got, wantIn) {
		t.Errorf("Snapshot(in) = %v, want %v", got, wantIn)
	}
}

func TestActiveSetClearIsDirectional(t *testing.T) {
	var s ActiveSet
	s.NoteOutput(OutSpeaker | OutHDMI)
	s.NoteInput(InMainMic)

	s.Clear(DirectionOutput)

	if s.Any(DirectionOutput) {
		t.Errorf("output still active after Clear: %v", s.Snapshot(DirectionOutput))
	}
	if s.Input() != InMainMic {
		t.Errorf("Input() = %v, want %v", s.Input(), InMainMic)
	}
}

func TestSnapshotCanonicalOrder(t *testing.T) {
	var s ActiveSet
	s.NoteOutput(OutHDMI | OutAux | OutBTSCO | OutJack | OutReceiver | OutSpeaker)

	want := []string{"Speaker", "Handset", "Headset", "BT-Headset", "Line", "HDMI"}
	if got := s.Snapshot(DirectionOutput); !slices.Equal(got, want) {
		t.Errorf("Snapshot(out) = %v, want %v", got, want)
	}
}
