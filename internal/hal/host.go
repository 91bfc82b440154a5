package hal

import (
	"context"
	"log/slog"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/route"
)

// Descriptor identifies the primary device of one direction after a route
// was applied.
type Descriptor struct {
	Role      string
	Direction device.Direction
	Device    string
	Verb      route.Verb
}

// Params are string hints passed to the host along with a Descriptor.
type Params map[string]string

// Host parameter keys.
const (
	ParamSuspendTimeout = "suspend_timeout_msec"
	ParamTschedBuffer   = "tsched_buffer_size"
	ParamMmap           = "mmap"
	ParamRate           = "rate"
)

// Host receives device callbacks after routes are applied. The host loads
// the device first, then opens it.
type Host interface {
	LoadDevice(ctx context.Context, d Descriptor, p Params) error
	OpenDevice(ctx context.Context, d Descriptor, p Params) error
}

// LogHost is a Host that only logs. It is used when no sound server is
// attached.
type LogHost struct {
	Logger *slog.Logger
}

// LoadDevice logs the load request.
func (h LogHost) LoadDevice(_ context.Context, d Descriptor, p Params) error {
	h.logger().Info("Host load device", "role", d.Role, "direction", d.Direction, "device", d.Device, "verb", d.Verb, "params", p)
	return nil
}

// OpenDevice logs the open request.
func (h LogHost) OpenDevice(_ context.Context, d Descriptor, p Params) error {
	h.logger().Info("Host open device", "role", d.Role, "direction", d.Direction, "device", d.Device, "params", p)
	return nil
}

func (h LogHost) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
