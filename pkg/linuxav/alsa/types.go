//go:build linux

package alsa

import (
	"fmt"
	"strconv"
	"strings"
)

// Stream is a PCM direction as the kernel numbers it.
type Stream int32

// Stream directions.
const (
	StreamPlayback Stream = 0
	StreamCapture  Stream = 1
)

func (s Stream) String() string {
	if s == StreamCapture {
		return "capture"
	}
	return "playback"
}

func (s Stream) suffix() string {
	if s == StreamCapture {
		return "c"
	}
	return "p"
}

// Format is an snd_pcm_format_t value.
type Format uint32

// Sample formats. Only the ones probed by ListDevices or used by the voice
// PCM path are named.
const (
	FormatS8        Format = 0
	FormatU8        Format = 1
	FormatS16LE     Format = 2
	FormatS16BE     Format = 3
	FormatS24LE     Format = 6
	FormatS24BE     Format = 7
	FormatS32LE     Format = 10
	FormatS32BE     Format = 11
	FormatFloatLE   Format = 14
	FormatFloatBE   Format = 15
	FormatFloat64LE Format = 16
	FormatFloat64BE Format = 17
	FormatMuLaw     Format = 20
	FormatALaw      Format = 21
)

var formatNames = map[Format]string{
	FormatS8:        "S8",
	FormatU8:        "U8",
	FormatS16LE:     "S16_LE",
	FormatS16BE:     "S16_BE",
	FormatS24LE:     "S24_LE",
	FormatS24BE:     "S24_BE",
	FormatS32LE:     "S32_LE",
	FormatS32BE:     "S32_BE",
	FormatFloatLE:   "FLOAT_LE",
	FormatFloatBE:   "FLOAT_BE",
	FormatFloat64LE: "FLOAT64_LE",
	FormatFloat64BE: "FLOAT64_BE",
	FormatMuLaw:     "MU_LAW",
	FormatALaw:      "A_LAW",
}

// String returns the alsa-lib name, e.g. "S16_LE".
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "FORMAT(" + strconv.FormatUint(uint64(f), 10) + ")"
}

// Rates and formats checked against a device's refined hw_params. Voice
// paths only care about 8k and 16k, the rest are listed for the devices CLI.
var (
	probeRates   = []uint32{8000, 16000, 32000, 44100, 48000, 96000, 192000}
	probeFormats = []Format{FormatU8, FormatS16LE, FormatS24LE, FormatS32LE, FormatFloatLE}
)

// Caps are the ranges a PCM reports before any parameter is fixed.
// Buffer and period sizes are in frames.
type Caps struct {
	Rates         []int
	Formats       []string
	MinChannels   int
	MaxChannels   int
	MinBufferSize int
	MaxBufferSize int
	MinPeriodSize int
	MaxPeriodSize int
}

// Device is one direction of a PCM device on a card.
type Device struct {
	Card       int
	CardID     string
	CardName   string
	Number     int
	Name       string
	Stream     Stream
	Subdevices int

	// Caps is zero when the device was busy during enumeration.
	Caps Caps
}

// HW returns the hardware name, e.g. "hw:0,1".
func (d Device) HW() string {
	return HWName(d.Card, d.Number)
}

// HWName formats a hardware name from card and device numbers.
func HWName(card, device int) string {
	return fmt.Sprintf("hw:%d,%d", card, device)
}

// ParseDevice parses an ALSA hardware name of the form "hw:CARD,DEVICE".
func ParseDevice(name string) (card, device int, err error) {
	rest, ok := strings.CutPrefix(name, "hw:")
	if !ok {
		return 0, 0, fmt.Errorf("alsa device %q: want hw:CARD,DEVICE", name)
	}
	cardStr, devStr, ok := strings.Cut(rest, ",")
	if !ok {
		return 0, 0, fmt.Errorf("alsa device %q: missing device number", name)
	}
	if card, err = strconv.Atoi(cardStr); err != nil || card < 0 {
		return 0, 0, fmt.Errorf("alsa device %q: bad card number", name)
	}
	if device, err = strconv.Atoi(devStr); err != nil || device < 0 {
		return 0, 0, fmt.Errorf("alsa device %q: bad device number", name)
	}
	return card, device, nil
}

// ControlPath returns the control node of a card.
func ControlPath(card int) string {
	return fmt.Sprintf("/dev/snd/controlC%d", card)
}

// PCMPath returns the PCM node of a card/device for a stream direction.
func PCMPath(card, device int, stream Stream) string {
	return fmt.Sprintf("/dev/snd/pcmC%dD%d%s", card, device, stream.suffix())
}
