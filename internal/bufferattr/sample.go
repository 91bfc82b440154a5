package bufferattr

import "github.com/smazurov/audiohal/internal/halerr"

// Format is a sample format.
type Format int

// Sample formats.
const (
	FormatU8 Format = iota + 1
	FormatALaw
	FormatULaw
	FormatS16LE
	FormatS16BE
	FormatFloat32LE
	FormatFloat32BE
	FormatS32LE
	FormatS32BE
	FormatS24LE
	FormatS24BE
	FormatS24in32LE
	FormatS24in32BE
)

var formats = []struct {
	format Format
	name   string
	size   int
}{
	{FormatU8, "u8", 1},
	{FormatALaw, "alaw", 1},
	{FormatULaw, "ulaw", 1},
	{FormatS16LE, "s16le", 2},
	{FormatS16BE, "s16be", 2},
	{FormatFloat32LE, "float32le", 4},
	{FormatFloat32BE, "float32be", 4},
	{FormatS32LE, "s32le", 4},
	{FormatS32BE, "s32be", 4},
	{FormatS24LE, "s24le", 3},
	{FormatS24BE, "s24be", 3},
	{FormatS24in32LE, "s24-32le", 4},
	{FormatS24in32BE, "s24-32be", 4},
}

// Size returns bytes per sample, or 0 for an unknown format.
func (f Format) Size() int {
	for _, e := range formats {
		if e.format == f {
			return e.size
		}
	}
	return 0
}

func (f Format) String() string {
	for _, e := range formats {
		if e.format == f {
			return e.name
		}
	}
	return "unknown"
}

// ParseFormat parses a format name such as "s16le".
func ParseFormat(s string) (Format, error) {
	for _, e := range formats {
		if e.name == s {
			return e.format, nil
		}
	}
	return 0, halerr.Parameter("unknown sample format %q", s)
}

// FormatNames lists every format name.
func FormatNames() []string {
	names := make([]string, len(formats))
	for i, e := range formats {
		names[i] = e.name
	}
	return names
}

// SampleSpec is a stream's sample layout.
type SampleSpec struct {
	Format   Format
	Rate     uint32
	Channels uint32
}

// Validate reports a PARAMETER error for an unusable spec.
func (s SampleSpec) Validate() error {
	switch {
	case s.Rate == 0 || s.Rate > MaxRate:
		return halerr.Parameter("sample rate %d out of range (1..%d)", s.Rate, MaxRate)
	case s.Channels == 0 || s.Channels > MaxChannels:
		return halerr.Parameter("channel count %d out of range (1..%d)", s.Channels, MaxChannels)
	case s.Format.Size() == 0:
		return halerr.Parameter("unknown sample format %d", s.Format)
	}
	return nil
}

// usecToBytes converts a duration in microseconds to a whole number of
// frames, in bytes.
func (s SampleSpec) usecToBytes(usec int64) int32 {
	frames := usec * int64(s.Rate) / 1000000
	return int32(frames * int64(s.Format.Size()) * int64(s.Channels))
}
