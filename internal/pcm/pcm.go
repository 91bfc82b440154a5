// Package pcm is the contract between the routing core and the PCM
// transport, plus the ALSA implementation of it.
package pcm

import (
	"fmt"

	"github.com/smazurov/audiohal/internal/device"
)

// Access is the PCM access mode.
type Access int

// Access modes.
const (
	AccessRWInterleaved Access = iota
	AccessMMapInterleaved
)

// String returns the access mode name.
func (a Access) String() string {
	switch a {
	case AccessRWInterleaved:
		return "rw_interleaved"
	case AccessMMapInterleaved:
		return "mmap_interleaved"
	default:
		return "unknown"
	}
}

// Format is the PCM sample format.
type Format int

// Sample formats.
const (
	FormatS16LE Format = iota
	FormatS24LE
	FormatS32LE
	FormatU8
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatS16LE:
		return "S16_LE"
	case FormatS24LE:
		return "S24_LE"
	case FormatS32LE:
		return "S32_LE"
	case FormatU8:
		return "U8"
	default:
		return "unknown"
	}
}

// Params are the requested hardware parameters. The transport owns the
// values it finally negotiates; Handle.Params reports them.
type Params struct {
	Rate       uint32
	Channels   uint32
	Format     Format
	Access     Access
	PeriodSize uint32 // frames, 0 lets the transport choose
	Periods    uint32 // 0 lets the transport choose
}

// String formats the parameters for logs.
func (p Params) String() string {
	return fmt.Sprintf("%s %dHz %dch %s", p.Format, p.Rate, p.Channels, p.Access)
}

// Handle is an open PCM.
type Handle interface {
	Direction() device.Direction
	Path() string
	Params() Params
	Close() error
}

// Transport opens PCMs.
//
// Open returns a RESOURCE error when the device cannot be opened and an
// IOCTL error when hardware parameters are rejected. A returned handle is
// always open.
type Transport interface {
	Open(dir device.Direction, path string, p Params) (Handle, error)
}
