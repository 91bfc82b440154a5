package ucm

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/smazurov/audiohal/internal/halerr"
)

// DefaultBinary is the alsaucm tool name looked up in PATH.
const DefaultBinary = "alsaucm"

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Exec activates routes by running alsaucm once per activation.
type Exec struct {
	binary  string
	card    string
	timeout time.Duration
	run     Runner
	logger  *slog.Logger
}

// ExecOption configures Exec.
type ExecOption func(*Exec)

// WithRunner replaces the command runner.
func WithRunner(r Runner) ExecOption {
	return func(e *Exec) { e.run = r }
}

// WithTimeout bounds each alsaucm run.
func WithTimeout(d time.Duration) ExecOption {
	return func(e *Exec) { e.timeout = d }
}

// NewExec creates an alsaucm activator for card.
func NewExec(binary, card string, logger *slog.Logger, opts ...ExecOption) *Exec {
	if binary == "" {
		binary = DefaultBinary
	}
	e := &Exec{
		binary:  binary,
		card:    card,
		timeout: 5 * time.Second,
		run:     runCommand,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Args builds the alsaucm command line that selects verb and enables every
// device and modifier in order.
func Args(card, verb string, devices, modifiers []string) []string {
	args := []string{"-c", card, "set", "_verb", verb}
	for _, d := range devices {
		args = append(args, "set", "_enadev", d)
	}
	for _, m := range modifiers {
		args = append(args, "set", "_enamod", m)
	}
	return args
}

// Activate runs alsaucm. An empty device list is rejected before anything runs.
func (e *Exec) Activate(ctx context.Context, verb string, devices, modifiers []string) error {
	if verb == "" {
		return halerr.Parameter("ucm verb is empty")
	}
	if len(devices) == 0 {
		return halerr.Parameter("ucm device list is empty")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := Args(e.card, verb, devices, modifiers)
	e.logger.Debug("Running alsaucm", "binary", e.binary, "args", strings.Join(args, " "))

	out, err := e.run(ctx, e.binary, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		e.logger.Error("UCM activation failed", "verb", verb, "devices", devices, "error", err, "output", msg)
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return halerr.Resource("ucm activate "+verb, err)
	}

	e.logger.Info("UCM route activated", "verb", verb, "devices", devices, "modifiers", modifiers)
	return nil
}
