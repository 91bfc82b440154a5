//go:build linux

package pcm

import (
	"log/slog"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/pkg/linuxav/alsa"
)

// ALSA opens PCMs directly on the kernel ALSA interface.
type ALSA struct {
	logger *slog.Logger
}

// NewALSA creates an ALSA transport.
func NewALSA(logger *slog.Logger) *ALSA {
	return &ALSA{logger: logger}
}

// Open opens path ("hw:CARD,DEVICE") and applies p.
func (a *ALSA) Open(dir device.Direction, path string, p Params) (Handle, error) {
	card, dev, err := alsa.ParseDevice(path)
	if err != nil {
		return nil, halerr.Wrap(halerr.ErrParameter, "parse pcm device", err)
	}

	stream := alsa.StreamPlayback
	if dir == device.DirectionInput {
		stream = alsa.StreamCapture
	}

	pcm, err := alsa.OpenPCM(card, dev, stream)
	if err != nil {
		if alsa.IsBusy(err) {
			return nil, halerr.Resource(path+" is busy", err)
		}
		return nil, halerr.Resource("open "+path, err)
	}

	got, err := pcm.SetHWParams(alsa.HWParams{
		Access:     alsaAccess(p.Access),
		Format:     alsaFormat(p.Format),
		Channels:   p.Channels,
		Rate:       p.Rate,
		PeriodSize: p.PeriodSize,
		Periods:    p.Periods,
	})
	if err != nil {
		_ = pcm.Close()
		return nil, halerr.Ioctl("set hw params on "+path, err)
	}

	if err := pcm.Prepare(); err != nil {
		_ = pcm.Close()
		return nil, halerr.Ioctl("prepare "+path, err)
	}

	negotiated := p
	negotiated.Rate = got.Rate
	negotiated.Channels = got.Channels
	negotiated.PeriodSize = got.PeriodSize
	negotiated.Periods = got.Periods

	a.logger.Debug("PCM opened", "path", path, "node", pcm.Path(), "direction", dir, "params", negotiated)

	return &alsaHandle{pcm: pcm, dir: dir, path: path, params: negotiated}, nil
}

type alsaHandle struct {
	pcm    *alsa.PCM
	dir    device.Direction
	path   string
	params Params
}

func (h *alsaHandle) Direction() device.Direction { return h.dir }
func (h *alsaHandle) Path() string                { return h.path }
func (h *alsaHandle) Params() Params              { return h.params }

func (h *alsaHandle) Close() error {
	if err := h.pcm.Close(); err != nil {
		return halerr.Resource("close "+h.path, err)
	}
	return nil
}

func alsaAccess(a Access) uint32 {
	if a == AccessMMapInterleaved {
		return alsa.AccessMMapInterleaved
	}
	return alsa.AccessRWInterleaved
}

func alsaFormat(f Format) alsa.Format {
	switch f {
	case FormatS24LE:
		return alsa.FormatS24LE
	case FormatS32LE:
		return alsa.FormatS32LE
	case FormatU8:
		return alsa.FormatU8
	default:
		return alsa.FormatS16LE
	}
}
