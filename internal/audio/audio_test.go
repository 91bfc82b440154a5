package audio

import (
	"testing"

	"github.com/smazurov/audiohal/internal/device"
)

var sample = []Device{
	{ALSADevice: "hw:0,0", Direction: device.DirectionOutput, SupportedRates: []int{44100, 48000}},
	{ALSADevice: "hw:0,0", Direction: device.DirectionInput, SupportedRates: []int{8000, 16000, 48000}},
	{ALSADevice: "hw:0,1", Direction: device.DirectionOutput},
}

func TestByDirection(t *testing.T) {
	tests := []struct {
		dir  device.Direction
		want int
	}{
		{0, 3},
		{device.DirectionOutput, 2},
		{device.DirectionInput, 1},
	}
	for _, tt := range tests {
		if got := len(ByDirection(sample, tt.dir)); got != tt.want {
			t.Errorf("ByDirection(%s) = %d devices, want %d", tt.dir, got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	d, ok := Find(sample, "hw:0,0", device.DirectionInput)
	if !ok || d.Direction != device.DirectionInput {
		t.Fatalf("Find() = %+v, %v", d, ok)
	}
	if !d.SupportsRate(16000) || d.SupportsRate(44100) {
		t.Error("SupportsRate mismatch for capture device")
	}
	if _, ok := Find(sample, "hw:1,0", device.DirectionOutput); ok {
		t.Error("found a device that does not exist")
	}

	unknown, _ := Find(sample, "hw:0,1", device.DirectionOutput)
	if !unknown.SupportsRate(8000) {
		t.Error("device without capabilities should accept any rate")
	}
}
