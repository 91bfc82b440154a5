package hal

import (
	"context"
	"errors"
	"strconv"

	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/internal/metrics"
	"github.com/smazurov/audiohal/internal/route"
	"github.com/smazurov/audiohal/internal/voicepcm"
)

// Route applies a route request for a client role.
//
// The active set is merged before UCM is called and is not rolled back
// when activation fails.
func (m *Manager) Route(ctx context.Context, role string, devices []device.Info, flags route.Flags) (route.Plan, error) {
	plan, err := m.route(ctx, role, devices, flags)
	metrics.ObserveRoute(plan.Kind.String(), err)

	ev := events.RouteAppliedEvent{
		ID:        events.NewID(),
		Role:      role,
		Kind:      plan.Kind.String(),
		Verb:      string(plan.Verb),
		Devices:   plan.Devices,
		Modifiers: modifierNames(plan.Modifiers),
		Timestamp: events.Now(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	m.bus.Publish(ev)

	return plan, err
}

func (m *Manager) route(ctx context.Context, role string, devices []device.Info, flags route.Flags) (route.Plan, error) {
	kind, err := route.ParseRole(role)
	if err != nil {
		return route.Plan{Kind: kind}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observeLocked()

	ss := m.machine.State()
	plan, err := route.Resolve(
		route.Request{Kind: kind, Devices: devices, Flags: flags},
		route.State{Session: ss.Session, Recording: ss.Recording, Active: m.active},
	)
	if err != nil {
		plan.Kind = route.EffectiveKind(kind, ss.Session)
		m.logger.Warn("Route rejected", "role", role, "kind", plan.Kind, "session", ss.Session, "error", err)
		return plan, err
	}

	if plan.Kind == route.KindReset {
		for _, dir := range plan.Reset {
			m.resetLocked(dir)
		}
		m.logger.Info("Route reset", "role", role, "directions", plan.Reset)
		return plan, nil
	}

	m.flags = flags
	if plan.DualOut {
		m.logger.Info("Dual output requested, mirroring not enabled", "role", role, "devices", plan.Devices)
	}
	if plan.InputSuppressed {
		m.logger.Info("Radio session without recording, inputs not routed", "role", role)
	}

	m.active.NoteOutput(plan.Output)
	m.active.NoteInput(plan.Input)

	if err := m.ucm.Activate(ctx, string(plan.Verb), plan.Devices, modifierNames(plan.Modifiers)); err != nil {
		m.logger.Error("UCM activation failed", "role", role, "verb", plan.Verb, "devices", plan.Devices, "error", err)
		var he *halerr.Error
		if !errors.As(err, &he) {
			err = halerr.Resource("activate UCM verb "+string(plan.Verb), err)
		}
		return plan, err
	}
	m.lastVerb = plan.Verb
	m.lastDevices = append([]string(nil), plan.Devices...)

	m.logger.Info("Route applied",
		"role", role,
		"kind", plan.Kind,
		"verb", plan.Verb,
		"devices", plan.Devices,
		"flags", flags)

	if plan.Kind == route.KindCall {
		m.mode = modeCall
		if m.active.Any(device.DirectionOutput) && m.active.Any(device.DirectionInput) {
			if err := m.voice.Open(flags.Has(route.FlagNetworkWideband)); err != nil {
				m.publishVoice("open", err)
				return plan, err
			}
			m.publishVoice("open", nil)
		}
	} else {
		m.mode = modeNormal
	}

	if err := m.notifyHost(ctx, role, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// notifyHost loads and opens the primary device of each routed direction.
func (m *Manager) notifyHost(ctx context.Context, role string, plan route.Plan) error {
	if m.host == nil {
		return nil
	}

	if names := plan.Output.Names(); len(names) > 0 {
		d := Descriptor{Role: role, Direction: device.DirectionOutput, Device: names[0], Verb: plan.Verb}
		p := Params{
			ParamSuspendTimeout: strconv.Itoa(m.cfg.SuspendTimeoutMsec),
			ParamTschedBuffer:   strconv.Itoa(m.cfg.TschedBufferSize),
		}
		if err := m.openHostDevice(ctx, d, p); err != nil {
			return err
		}
	}

	if names := plan.Input.Names(); len(names) > 0 {
		d := Descriptor{Role: role, Direction: device.DirectionInput, Device: names[0], Verb: plan.Verb}
		p := Params{
			ParamMmap: "1",
			ParamRate: strconv.Itoa(m.cfg.CaptureRate),
		}
		if err := m.openHostDevice(ctx, d, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) openHostDevice(ctx context.Context, d Descriptor, p Params) error {
	if err := m.host.LoadDevice(ctx, d, p); err != nil {
		m.logger.Error("Host failed to load device", "device", d.Device, "direction", d.Direction, "error", err)
		return halerr.Resource("load host device "+d.Device, err)
	}
	if err := m.host.OpenDevice(ctx, d, p); err != nil {
		m.logger.Error("Host failed to open device", "device", d.Device, "direction", d.Direction, "error", err)
		return halerr.Resource("open host device "+d.Device, err)
	}
	return nil
}

// Reset clears one direction of the active set. In call mode the voice
// handle of that direction is closed too.
func (m *Manager) Reset(_ context.Context, dir device.Direction) error {
	if dir != device.DirectionOutput && dir != device.DirectionInput {
		return halerr.Parameter("reset direction %q is not in or out", dir)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observeLocked()

	m.resetLocked(dir)
	return nil
}

// resetLocked is the route reset path. The voice close never asks for
// another reset, so the recursion stops here.
func (m *Manager) resetLocked(dir device.Direction) {
	m.active.Clear(dir)
	if m.inCallModeLocked() {
		err := m.voice.Close(voicepcm.TargetFor(dir), false)
		if err != nil {
			m.logger.Warn("Failed to close voice PCM on reset", "direction", dir, "error", err)
		}
		m.publishVoice("close", err)
	}
	m.logger.Debug("Route direction reset", "direction", dir)
}

func modifierNames(mods []route.Modifier) []string {
	out := make([]string, 0, len(mods))
	for _, mod := range mods {
		out = append(out, string(mod))
	}
	return out
}
