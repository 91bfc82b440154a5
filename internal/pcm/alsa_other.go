//go:build !linux

package pcm

import (
	"errors"
	"log/slog"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/halerr"
)

// ALSA is unavailable off Linux; every Open fails.
type ALSA struct{}

// NewALSA creates the stub transport.
func NewALSA(_ *slog.Logger) *ALSA {
	return &ALSA{}
}

// Open always returns a RESOURCE error.
func (a *ALSA) Open(_ device.Direction, path string, _ Params) (Handle, error) {
	return nil, halerr.Resource("open "+path, errors.New("ALSA not supported on this platform"))
}
