// Package audio enumerates the PCM devices of the sound cards on the host.
package audio

import (
	"slices"

	"github.com/smazurov/audiohal/internal/device"
)

// Device is one stream direction of an ALSA PCM device.
type Device struct {
	CardNumber       int
	CardID           string
	CardName         string
	DeviceNumber     int
	DeviceName       string
	Direction        device.Direction
	ALSADevice       string
	SupportedRates   []int
	MinChannels      int
	MaxChannels      int
	SupportedFormats []string
	MinBufferSize    int
	MaxBufferSize    int
	MinPeriodSize    int
	MaxPeriodSize    int
}

// Detector lists audio devices.
type Detector interface {
	ListDevices() ([]Device, error)
}

// NewDetector returns the detector for this platform.
func NewDetector() Detector {
	return newPlatformDetector()
}

// ByDirection keeps the devices of one direction. A zero direction keeps all.
func ByDirection(devices []Device, dir device.Direction) []Device {
	if dir == 0 {
		return devices
	}
	var out []Device
	for _, d := range devices {
		if d.Direction == dir {
			out = append(out, d)
		}
	}
	return out
}

// Find returns the device with the given ALSA name and direction.
func Find(devices []Device, alsaDevice string, dir device.Direction) (Device, bool) {
	for _, d := range devices {
		if d.ALSADevice == alsaDevice && d.Direction == dir {
			return d, true
		}
	}
	return Device{}, false
}

// SupportsRate reports whether the device advertised rate. Devices whose
// capabilities could not be queried are assumed to support it.
func (d Device) SupportsRate(rate int) bool {
	return len(d.SupportedRates) == 0 || slices.Contains(d.SupportedRates, rate)
}
