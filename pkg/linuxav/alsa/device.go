//go:build linux

package alsa

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// maxCards bounds the card scan; the kernel's SNDRV_CARDS default is 8 and
// the hard limit 32.
const maxCards = 32

// ListDevices enumerates every PCM device direction on every card. Card
// numbers can have gaps, so every slot is tried. It fails only when no
// control node exists at all.
func ListDevices() ([]Device, error) {
	var (
		devices []Device
		cards   int
	)
	for card := 0; card < maxCards; card++ {
		ctl, err := openControl(card)
		if err != nil {
			continue
		}
		cards++
		found, err := ctl.devices()
		ctl.close()
		if err != nil {
			continue
		}
		devices = append(devices, found...)
	}
	if cards == 0 {
		var st unix.Stat_t
		if err := unix.Stat("/dev/snd", &st); errors.Is(err, unix.ENOENT) {
			return nil, ErrNoSoundDevices
		}
	}
	return devices, nil
}

// ErrNoSoundDevices is returned when the host has no /dev/snd at all.
var ErrNoSoundDevices = errors.New("alsa: /dev/snd does not exist")

// control is an open /dev/snd/controlC<N> node.
type control struct {
	fd   int
	card int
	info sndCtlCardInfo
}

func openControl(card int) (*control, error) {
	fd, err := unix.Open(ControlPath(card), unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	c := &control{fd: fd, card: card}
	if err := ioctl(fd, "card_info", sndrvCtlIoctlCardInfo, unsafe.Pointer(&c.info)); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return c, nil
}

func (c *control) close() {
	unix.Close(c.fd)
}

// devices walks the card's PCM devices with PCM_NEXT_DEVICE until the
// kernel returns -1.
func (c *control) devices() ([]Device, error) {
	var out []Device
	next := int32(-1)
	for {
		if err := ioctl(c.fd, "pcm_next_device", sndrvCtlIoctlPCMNextDevice, unsafe.Pointer(&next)); err != nil {
			return out, err
		}
		if next < 0 {
			return out, nil
		}
		for _, stream := range []Stream{StreamPlayback, StreamCapture} {
			if d, ok := c.describe(int(next), stream); ok {
				out = append(out, d)
			}
		}
	}
}

// describe returns false when the device has no substreams in this
// direction.
func (c *control) describe(number int, stream Stream) (Device, bool) {
	info := sndPCMInfo{device: uint32(number), stream: int32(stream)}
	if err := ioctl(c.fd, "pcm_info", sndrvCtlIoctlPCMInfo, unsafe.Pointer(&info)); err != nil {
		return Device{}, false
	}

	d := Device{
		Card:       c.card,
		CardID:     unix.ByteSliceToString(c.info.id[:]),
		CardName:   unix.ByteSliceToString(c.info.longname[:]),
		Number:     number,
		Name:       unix.ByteSliceToString(info.name[:]),
		Stream:     stream,
		Subdevices: int(info.subdevicesCount),
	}
	if caps, err := probe(c.card, number, stream); err == nil {
		d.Caps = caps
	}
	return d, true
}

// probe refines an unconstrained hw_params set on the PCM node. It fails
// with EBUSY when the device is open elsewhere.
func probe(card, number int, stream Stream) (Caps, error) {
	fd, err := unix.Open(PCMPath(card, number, stream), unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return Caps{}, err
	}
	defer unix.Close(fd)

	var hw sndPCMHwParams
	hw.init()
	hw.setMask(sndrvPCMHwParamAccess, AccessRWInterleaved)
	if err := ioctl(fd, "hw_refine", sndrvPCMIoctlHwRefine, unsafe.Pointer(&hw)); err != nil {
		return Caps{}, err
	}
	return hw.caps(), nil
}

func (p *sndPCMHwParams) caps() Caps {
	var c Caps
	lo, hi := p.getInterval(sndrvPCMHwParamRate)
	for _, r := range probeRates {
		if r >= lo && r <= hi {
			c.Rates = append(c.Rates, int(r))
		}
	}
	for _, f := range probeFormats {
		if p.checkMask(sndrvPCMHwParamFormat, uint32(f)) {
			c.Formats = append(c.Formats, f.String())
		}
	}

	span := func(param uint32) (int, int) {
		lo, hi := p.getInterval(param)
		return int(lo), int(hi)
	}
	c.MinChannels, c.MaxChannels = span(sndrvPCMHwParamChannels)
	c.MinBufferSize, c.MaxBufferSize = span(sndrvPCMHwParamBufferSize)
	c.MinPeriodSize, c.MaxPeriodSize = span(sndrvPCMHwParamPeriodSize)
	return c
}
