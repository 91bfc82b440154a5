//go:build !linux

package audio

import (
	"errors"
	"fmt"
	"runtime"
)

// Without ALSA there is nothing to enumerate; callers can match
// errors.ErrUnsupported.
type unsupportedDetector struct{}

func newPlatformDetector() Detector { return unsupportedDetector{} }

func (unsupportedDetector) ListDevices() ([]Device, error) {
	return nil, fmt.Errorf("audio devices on %s: %w", runtime.GOOS, errors.ErrUnsupported)
}
