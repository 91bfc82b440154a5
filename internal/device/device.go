// Package device holds the device registry and the active device set.
//
// A device flag is tagged with its direction: output kinds and input kinds
// are distinct bitmask types, so a mask can never mix the two.
package device

import (
	"math/bits"
	"strings"

	"github.com/smazurov/audiohal/internal/halerr"
)

// Direction of a device.
type Direction uint8

// Directions.
const (
	DirectionOutput Direction = iota + 1
	DirectionInput
)

// String returns "out" or "in".
func (d Direction) String() string {
	switch d {
	case DirectionOutput:
		return "out"
	case DirectionInput:
		return "in"
	default:
		return "unknown"
	}
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == DirectionOutput {
		return DirectionInput
	}
	return DirectionOutput
}

// ParseDirection accepts "out", "output", "in" and "input".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "out", "output":
		return DirectionOutput, nil
	case "in", "input":
		return DirectionInput, nil
	default:
		return 0, halerr.Parameter("unknown direction %q", s)
	}
}

// Output is a bitmask of output device kinds.
type Output uint32

// Output device kinds.
const (
	OutSpeaker Output = 1 << iota
	OutReceiver
	OutJack
	OutBTSCO
	OutAux
	OutHDMI
	OutBTA2DP
	OutUSB
	OutDock
	OutMirroring
)

// Input is a bitmask of input device kinds.
type Input uint32

// Input device kinds.
const (
	InMainMic Input = 1 << iota
	InSubMic
	InJackMic
	InBTMic
)

// Flag is a direction-tagged device value: either Output(kinds) or Input(kinds).
// The zero value is None.
type Flag struct {
	dir  Direction
	bits uint32
}

// None is the sentinel returned for unknown device tokens.
var None = Flag{}

// OutputFlag tags an output mask.
func OutputFlag(o Output) Flag {
	if o == 0 {
		return None
	}
	return Flag{dir: DirectionOutput, bits: uint32(o)}
}

// InputFlag tags an input mask.
func InputFlag(i Input) Flag {
	if i == 0 {
		return None
	}
	return Flag{dir: DirectionInput, bits: uint32(i)}
}

// IsNone reports whether f is the sentinel.
func (f Flag) IsNone() bool { return f.bits == 0 }

// Direction returns the direction tag. None has no direction.
func (f Flag) Direction() Direction { return f.dir }

// Output returns the output mask when f is an output flag.
func (f Flag) Output() (Output, bool) {
	if f.dir != DirectionOutput || f.bits == 0 {
		return 0, false
	}
	return Output(f.bits), true
}

// Input returns the input mask when f is an input flag.
func (f Flag) Input() (Input, bool) {
	if f.dir != DirectionInput || f.bits == 0 {
		return 0, false
	}
	return Input(f.bits), true
}

// single reports whether f names exactly one device kind.
func (f Flag) single() bool {
	return bits.OnesCount32(f.bits) == 1
}

// String returns the canonical names joined with "|", or "none".
func (f Flag) String() string {
	if o, ok := f.Output(); ok {
		return strings.Join(o.Names(), "|")
	}
	if i, ok := f.Input(); ok {
		return strings.Join(i.Names(), "|")
	}
	return "none"
}

// Kinds splits the mask into single-kind values in canonical order.
func (o Output) Kinds() []Output {
	var kinds []Output
	for _, e := range outputTable {
		if o&e.kind != 0 {
			kinds = append(kinds, e.kind)
		}
	}
	return kinds
}

// Names returns the canonical names of the mask in canonical order.
func (o Output) Names() []string {
	var names []string
	for _, e := range outputTable {
		if o&e.kind != 0 {
			names = append(names, e.name)
		}
	}
	return names
}

// Kinds splits the mask into single-kind values in canonical order.
func (i Input) Kinds() []Input {
	var kinds []Input
	for _, e := range inputTable {
		if i&e.kind != 0 {
			kinds = append(kinds, e.kind)
		}
	}
	return kinds
}

// Names returns the canonical names of the mask in canonical order.
func (i Input) Names() []string {
	var names []string
	for _, e := range inputTable {
		if i&e.kind != 0 {
			names = append(names, e.name)
		}
	}
	return names
}

// Info describes one device in a route request as submitted by a client.
type Info struct {
	Type      string
	Direction Direction
}
