// Package ucm applies resolved routes through the ALSA Use Case Manager.
package ucm

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Activator programs the mixer for a verb and an ordered device list.
// The first device is the primary one.
type Activator interface {
	Activate(ctx context.Context, verb string, devices, modifiers []string) error
}

// Call is one recorded activation.
type Call struct {
	Verb      string
	Devices   []string
	Modifiers []string
}

// Recorder remembers activations instead of touching hardware. It backs
// dry runs and tests.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	err    error
	logger *slog.Logger
}

// NewRecorder creates a recorder. A nil logger disables logging.
func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Activate records the call and returns the configured error, if any.
func (r *Recorder) Activate(_ context.Context, verb string, devices, modifiers []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{
		Verb:      verb,
		Devices:   slices.Clone(devices),
		Modifiers: slices.Clone(modifiers),
	})
	if r.logger != nil {
		r.logger.Info("UCM activate (dry run)", "verb", verb, "devices", devices, "modifiers", modifiers)
	}
	return r.err
}

// FailWith makes subsequent activations return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Calls returns a copy of the recorded activations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Last returns the most recent activation.
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}
