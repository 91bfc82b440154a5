//go:build linux

package audio

import (
	"errors"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/pkg/linuxav/alsa"
)

type linuxDetector struct{}

func newPlatformDetector() Detector {
	return linuxDetector{}
}

// ListDevices enumerates ALSA PCM devices through the kernel control
// interface.
func (linuxDetector) ListDevices() ([]Device, error) {
	raw, err := alsa.ListDevices()
	if errors.Is(err, alsa.ErrNoSoundDevices) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(raw))
	for _, d := range raw {
		dir := device.DirectionOutput
		if d.Stream == alsa.StreamCapture {
			dir = device.DirectionInput
		}
		devices = append(devices, Device{
			CardNumber:       d.Card,
			CardID:           d.CardID,
			CardName:         d.CardName,
			DeviceNumber:     d.Number,
			DeviceName:       d.Name,
			Direction:        dir,
			ALSADevice:       d.HW(),
			SupportedRates:   d.Caps.Rates,
			MinChannels:      d.Caps.MinChannels,
			MaxChannels:      d.Caps.MaxChannels,
			SupportedFormats: d.Caps.Formats,
			MinBufferSize:    d.Caps.MinBufferSize,
			MaxBufferSize:    d.Caps.MaxBufferSize,
			MinPeriodSize:    d.Caps.MinPeriodSize,
			MaxPeriodSize:    d.Caps.MaxPeriodSize,
		})
	}
	return devices, nil
}
