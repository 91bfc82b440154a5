package volume

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smazurov/audiohal/internal/config"
	"github.com/smazurov/audiohal/internal/halerr"
)

const sampleTable = `
[volumes]
media = [0.0, 60.0, 80.0, 100.0]
call = [40.0, 100.0]

[gains]
dialer = 0.5
tts = 0.25
default = 0.1
`

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLevelToLinear(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{0, 0},
		{100, 1},
		{80, 0.1},
		{60, 0.01},
		{120, 10},
	}

	for _, tt := range tests {
		if got := LevelToLinear(tt.level); !almostEqual(got, tt.want) {
			t.Errorf("LevelToLinear(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	table, err := Parse([]byte(sampleTable))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	media := table.Volumes[TypeMedia]
	want := []float64{0, 0.01, 0.1, 1}
	if len(media) != len(want) {
		t.Fatalf("media levels = %v, want %v", media, want)
	}
	for i := range want {
		if !almostEqual(media[i], want[i]) {
			t.Errorf("media[%d] = %v, want %v", i, media[i], want[i])
		}
	}

	if got := table.Volumes[TypeAlarm]; len(got) != 1 || got[0] != Unity {
		t.Errorf("missing type levels = %v, want [1]", got)
	}
	if got := table.Gains[GainDialer]; got != 0.5 {
		t.Errorf("dialer gain = %v, want 0.5", got)
	}
	if got := table.Gains[GainDefault]; got != Unity {
		t.Errorf("default gain = %v, want 1 (not overridable)", got)
	}
	if got := table.Gains[GainMIDI]; got != Unity {
		t.Errorf("missing gain = %v, want 1", got)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", "[volumes"},
		{"unknown type", "[volumes]\nbogus = [1.0]\n"},
		{"unknown gain", "[gains]\nbogus = 1.0\n"},
		{"negative gain", "[gains]\ndialer = -1.0\n"},
		{"too many levels", "[volumes]\nmedia = [1.0,2.0,3.0,4.0,5.0,6.0,7.0,8.0,9.0,10.0,11.0,12.0,13.0,14.0,15.0,16.0,17.0]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !halerr.HasCode(err, halerr.ErrParameter) {
				t.Errorf("Parse() error = %v, want PARAMETER", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !halerr.HasCode(err, halerr.ErrResource) {
		t.Errorf("Load() error = %v, want RESOURCE", err)
	}
}

func TestStore(t *testing.T) {
	table, err := Parse([]byte(sampleTable))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s := NewStore(table, slog.New(slog.DiscardHandler))

	if g, err := s.Gain("tts"); err != nil || g != 0.25 {
		t.Errorf("Gain(tts) = %v, %v, want 0.25", g, err)
	}
	if _, err := s.Gain("loud"); !halerr.HasCode(err, halerr.ErrParameter) {
		t.Errorf("Gain(loud) error = %v, want PARAMETER", err)
	}

	curve, err := s.VolumeTable("call")
	if err != nil {
		t.Fatalf("VolumeTable(call) error = %v", err)
	}
	curve[0] = 42
	if again, _ := s.VolumeTable("call"); again[0] == 42 {
		t.Error("VolumeTable returned the stored slice")
	}

	if n, _ := s.LevelMax("media"); n != 4 {
		t.Errorf("LevelMax(media) = %d, want 4", n)
	}

	v, err := s.Value("media", 2, "dialer")
	if err != nil || !almostEqual(v, 0.05) {
		t.Errorf("Value(media, 2, dialer) = %v, %v, want 0.05", v, err)
	}
	if v, _ := s.Value("media", 9, "default"); v != Unity {
		t.Errorf("Value past curve = %v, want 1", v)
	}
}

func TestStoreLevels(t *testing.T) {
	table, err := Parse([]byte(sampleTable))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s := NewStore(table, slog.New(slog.DiscardHandler))

	if l, _ := s.Level("media"); l != 7 {
		t.Errorf("initial media level = %d, want 7", l)
	}
	if err := s.SetLevel("media", 3); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if l, _ := s.Level("media"); l != 3 {
		t.Errorf("media level = %d, want 3", l)
	}
	if err := s.SetLevel("media", 4); !halerr.HasCode(err, halerr.ErrParameter) {
		t.Errorf("SetLevel(4) error = %v, want PARAMETER", err)
	}
	if err := s.SetLevel("bogus", 0); !halerr.HasCode(err, halerr.ErrParameter) {
		t.Errorf("SetLevel(bogus) error = %v, want PARAMETER", err)
	}
}

func TestNewStoreDefault(t *testing.T) {
	s := NewStore(nil, slog.New(slog.DiscardHandler))
	for _, typ := range Types {
		curve, err := s.VolumeTable(string(typ))
		if err != nil || len(curve) != 1 || curve[0] != Unity {
			t.Errorf("VolumeTable(%s) = %v, %v, want [1]", typ, curve, err)
		}
	}
}

func TestStoreWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.toml")
	if err := os.WriteFile(path, []byte(sampleTable), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := NewStore(table, slog.New(slog.DiscardHandler))
	reloaded := make(chan *Table, 1)
	w, err := s.Watch(path, func(t *Table) { reloaded <- t }, config.WithDebounce[*Table](50*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[gains]\ndialer = 0.75\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for volume table reload")
	}
	if g, _ := s.Gain("dialer"); g != 0.75 {
		t.Errorf("Gain(dialer) after reload = %v, want 0.75", g)
	}
}
