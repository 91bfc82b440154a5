// Package volume loads volume level curves and gain factors and serves them
// to the routing core.
package volume

import (
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/audiohal/internal/halerr"
)

// Type is a volume type.
type Type string

// Volume types.
const (
	TypeSystem       Type = "system"
	TypeNotification Type = "notification"
	TypeAlarm        Type = "alarm"
	TypeRingtone     Type = "ringtone"
	TypeMedia        Type = "media"
	TypeCall         Type = "call"
	TypeVoIP         Type = "voip"
	TypeVoice        Type = "voice"
	TypeFixed        Type = "fixed"
)

// Types lists every volume type in table order.
var Types = []Type{
	TypeSystem, TypeNotification, TypeAlarm, TypeRingtone, TypeMedia,
	TypeCall, TypeVoIP, TypeVoice, TypeFixed,
}

// Gain is a gain type.
type Gain string

// Gain types.
const (
	GainDefault    Gain = "default"
	GainDialer     Gain = "dialer"
	GainTouch      Gain = "touch"
	GainAF         Gain = "af"
	GainShutter1   Gain = "shutter1"
	GainShutter2   Gain = "shutter2"
	GainCamcording Gain = "camcording"
	GainMIDI       Gain = "midi"
	GainBooting    Gain = "booting"
	GainVideo      Gain = "video"
	GainTTS        Gain = "tts"
)

// Gains lists every gain type in table order.
var Gains = []Gain{
	GainDefault, GainDialer, GainTouch, GainAF, GainShutter1, GainShutter2,
	GainCamcording, GainMIDI, GainBooting, GainVideo, GainTTS,
}

// MaxLevels is the longest accepted level curve.
const MaxLevels = 16

// Unity is full scale for both volume values and gains.
const Unity = 1.0

// ParseType validates a volume type name.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", halerr.Parameter("unknown volume type %q", s)
}

// ParseGain validates a gain type name.
func ParseGain(s string) (Gain, error) {
	for _, g := range Gains {
		if string(g) == s {
			return g, nil
		}
	}
	return "", halerr.Parameter("unknown gain type %q", s)
}

// LevelToLinear converts a table level (dB offset from 100) to a linear
// factor. Level 0 is silence.
func LevelToLinear(level float64) float64 {
	if level == 0 {
		return 0
	}
	return math.Pow(10, (level-100)/20)
}

// Table is a loaded volume and gain table. Tables are immutable once built.
type Table struct {
	Volumes map[Type][]float64 `json:"volumes"`
	Gains   map[Gain]float64   `json:"gains"`
}

type tableFile struct {
	Volumes map[string][]float64 `toml:"volumes"`
	Gains   map[string]float64   `toml:"gains"`
}

// DefaultTable is used when no table file is configured: every type has a
// single unity level and every gain is unity.
func DefaultTable() *Table {
	t, _ := build(tableFile{})
	return t
}

// Parse decodes a TOML table.
//
//	[volumes]
//	media = [0, 44, 52, 60, 68, 76, 84, 92, 100]
//
//	[gains]
//	dialer = 0.6
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, halerr.Wrap(halerr.ErrParameter, "parse volume table", err)
	}
	return build(f)
}

// Load reads and parses a table file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, halerr.Resource("read volume table", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func build(f tableFile) (*Table, error) {
	t := &Table{
		Volumes: make(map[Type][]float64, len(Types)),
		Gains:   make(map[Gain]float64, len(Gains)),
	}

	for name := range f.Volumes {
		if _, err := ParseType(name); err != nil {
			return nil, err
		}
	}
	for name := range f.Gains {
		if _, err := ParseGain(name); err != nil {
			return nil, err
		}
	}

	for _, typ := range Types {
		levels, ok := f.Volumes[string(typ)]
		if !ok || len(levels) == 0 {
			t.Volumes[typ] = []float64{Unity}
			continue
		}
		if len(levels) > MaxLevels {
			return nil, halerr.Parameter("volume type %s has %d levels, max %d", typ, len(levels), MaxLevels)
		}
		curve := make([]float64, len(levels))
		for i, v := range levels {
			curve[i] = LevelToLinear(v)
		}
		t.Volumes[typ] = curve
	}

	for _, g := range Gains {
		v, ok := f.Gains[string(g)]
		if !ok || g == GainDefault {
			v = Unity
		}
		if v < 0 {
			return nil, halerr.Parameter("gain %s is negative", g)
		}
		t.Gains[g] = v
	}

	return t, nil
}
