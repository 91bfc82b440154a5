// Package bufferattr derives sound server buffer attributes from a stream's
// direction, latency class and sample spec.
package bufferattr

import (
	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/halerr"
)

// Default marks an attribute the sound server should choose itself.
const Default int32 = -1

// Sample spec limits.
const (
	MaxRate     uint32 = 48000 * 4
	MaxChannels uint32 = 32
)

// Latency is a latency class.
type Latency int

// Latency classes.
const (
	LatencyLow Latency = iota + 1
	LatencyMid
	LatencyHigh
	LatencyVoIP
)

var latencyNames = map[Latency]string{
	LatencyLow:  "low",
	LatencyMid:  "mid",
	LatencyHigh: "high",
	LatencyVoIP: "voip",
}

func (l Latency) String() string {
	if name, ok := latencyNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLatency parses a latency class name.
func ParseLatency(s string) (Latency, error) {
	for l, name := range latencyNames {
		if name == s {
			return l, nil
		}
	}
	return 0, halerr.Parameter("unknown latency %q", s)
}

// Period describes the hardware period layout behind a latency class.
type Period struct {
	TimeMsec uint32 `json:"period_time_msec"`
	Samples  uint32 `json:"samples_per_period"`
	Count    uint32 `json:"periods_per_buffer"`
}

// Attr holds sound server buffer attributes in bytes. Default means unset.
type Attr struct {
	MaxLength int32  `json:"maxlength"`
	TLength   int32  `json:"tlength"`
	PreBuf    int32  `json:"prebuf"`
	MinReq    int32  `json:"minreq"`
	FragSize  int32  `json:"fragsize"`
	Period    Period `json:"period"`
}

func periodTime(l Latency) uint32 {
	switch l {
	case LatencyLow:
		return 25
	case LatencyMid:
		return 50
	case LatencyHigh:
		return 75
	default:
		return 20
	}
}

func periodCount(dir device.Direction, l Latency) uint32 {
	switch l {
	case LatencyLow:
		return 4
	case LatencyMid:
		return 6
	case LatencyHigh:
		if dir == device.DirectionInput {
			return 12
		}
		return 8
	default:
		return 2
	}
}

// Compute returns the buffer attributes for a stream.
func Compute(dir device.Direction, l Latency, spec SampleSpec) (Attr, error) {
	if dir != device.DirectionOutput && dir != device.DirectionInput {
		return Attr{}, halerr.Parameter("unknown direction %d", dir)
	}
	if _, ok := latencyNames[l]; !ok {
		return Attr{}, halerr.Parameter("unknown latency %d", l)
	}
	if err := spec.Validate(); err != nil {
		return Attr{}, err
	}

	size := int64(spec.Format.Size())
	channels := int64(spec.Channels)
	rate := int64(spec.Rate)

	p := Period{TimeMsec: periodTime(l), Count: periodCount(dir, l)}
	p.Samples = spec.Rate * p.TimeMsec / 1000
	perPeriod := int32(int64(p.Samples) * size)

	a := Attr{
		MaxLength: Default,
		MinReq:    Default,
		TLength:   Default,
		Period:    p,
	}

	if dir == device.DirectionInput {
		a.PreBuf = 0
		switch l {
		case LatencyMid:
			a.FragSize = spec.usecToBytes(100000)
		default:
			a.FragSize = perPeriod
		}
		return a, nil
	}

	switch l {
	case LatencyLow:
		a.PreBuf = int32((rate / 100) * size * channels)
		a.TLength = int32((rate / 10) * size * channels)
		a.FragSize = 0
	case LatencyMid:
		a.PreBuf = Default
		a.TLength = spec.usecToBytes(350000)
		a.FragSize = Default
	case LatencyHigh:
		a.PreBuf = 0
		a.TLength = spec.usecToBytes(500000)
		a.FragSize = Default
	case LatencyVoIP:
		a.PreBuf = Default
		a.MinReq = spec.usecToBytes(20000)
		a.TLength = spec.usecToBytes(100000)
		a.FragSize = 0
	}
	return a, nil
}
