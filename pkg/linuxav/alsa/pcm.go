//go:build linux

package alsa

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// HWParams are the hardware parameters requested for a PCM. Zero period
// values leave the choice to the driver.
type HWParams struct {
	Access     uint32
	Format     Format
	Channels   uint32
	Rate       uint32
	PeriodSize uint32 // frames
	Periods    uint32
}

// PCM is an open PCM device node.
type PCM struct {
	fd     int
	path   string
	stream Stream
}

// OpenPCM opens the PCM node for card/device in the given stream direction.
func OpenPCM(card, device int, stream Stream) (*PCM, error) {
	path := PCMPath(card, device, stream)

	// Open non-blocking so a busy device fails fast, then switch to blocking I/O.
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set blocking %s: %w", path, err)
	}

	return &PCM{fd: fd, path: path, stream: stream}, nil
}

// Path returns the device node path.
func (p *PCM) Path() string { return p.path }

// Stream returns the direction the node was opened for.
func (p *PCM) Stream() Stream { return p.stream }

// SetHWParams installs the hardware parameters and returns the values the
// driver settled on.
func (p *PCM) SetHWParams(hw HWParams) (HWParams, error) {
	params := sndPCMHwParams{}
	params.init()

	params.setMask(sndrvPCMHwParamAccess, hw.Access)
	params.setMask(sndrvPCMHwParamFormat, uint32(hw.Format))
	params.setMask(sndrvPCMHwParamSubformat, sndrvPCMSubformatStd)
	params.setInterval(sndrvPCMHwParamChannels, hw.Channels)
	params.setInterval(sndrvPCMHwParamRate, hw.Rate)
	if hw.PeriodSize > 0 {
		params.setInterval(sndrvPCMHwParamPeriodSize, hw.PeriodSize)
	}
	if hw.Periods > 0 {
		params.setInterval(sndrvPCMHwParamPeriods, hw.Periods)
	}

	if err := ioctl(p.fd, "hw_params", sndrvPCMIoctlHwParams, unsafe.Pointer(&params)); err != nil {
		return HWParams{}, fmt.Errorf("hw_params %s: %w", p.path, err)
	}

	got := hw
	got.Channels, _ = params.getInterval(sndrvPCMHwParamChannels)
	got.Rate, _ = params.getInterval(sndrvPCMHwParamRate)
	got.PeriodSize, _ = params.getInterval(sndrvPCMHwParamPeriodSize)
	got.Periods, _ = params.getInterval(sndrvPCMHwParamPeriods)
	return got, nil
}

// Prepare readies the PCM for I/O after hw params are set.
func (p *PCM) Prepare() error {
	if err := ioctl(p.fd, "prepare", sndrvPCMIoctlPrepare, nil); err != nil {
		return fmt.Errorf("prepare %s: %w", p.path, err)
	}
	return nil
}

// Close stops the stream, frees the hardware setup and closes the node.
func (p *PCM) Close() error {
	if p.fd < 0 {
		return nil
	}
	_ = ioctl(p.fd, "drop", sndrvPCMIoctlDrop, nil)
	_ = ioctl(p.fd, "hw_free", sndrvPCMIoctlHwFree, nil)
	err := unix.Close(p.fd)
	p.fd = -1
	if err != nil {
		return fmt.Errorf("close %s: %w", p.path, err)
	}
	return nil
}
