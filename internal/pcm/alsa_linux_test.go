//go:build linux

package pcm

import (
	"log/slog"
	"testing"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/halerr"
)

func TestALSAOpenErrors(t *testing.T) {
	transport := NewALSA(slog.New(slog.DiscardHandler))
	params := Params{Rate: 8000, Channels: 1}

	tests := []struct {
		name string
		path string
		want halerr.ErrorCode
	}{
		{"malformed path", "default", halerr.ErrParameter},
		{"missing card", "hw:250,0", halerr.ErrResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := transport.Open(device.DirectionOutput, tt.path, params)
			if h != nil {
				_ = h.Close()
				t.Fatalf("Open(%q) returned a handle", tt.path)
			}
			if got := halerr.CodeOf(err); got != tt.want {
				t.Errorf("Open(%q) error = %v, want %s", tt.path, err, tt.want)
			}
		})
	}
}

func TestALSAMapping(t *testing.T) {
	if got := alsaAccess(AccessMMapInterleaved); got != 0 {
		t.Errorf("alsaAccess(mmap) = %d, want 0", got)
	}
	if got := alsaAccess(AccessRWInterleaved); got != 3 {
		t.Errorf("alsaAccess(rw) = %d, want 3", got)
	}
	if got := alsaFormat(FormatS16LE); got != 2 {
		t.Errorf("alsaFormat(S16_LE) = %d, want 2", got)
	}
	if got := alsaFormat(FormatS32LE); got != 10 {
		t.Errorf("alsaFormat(S32_LE) = %d, want 10", got)
	}
}
