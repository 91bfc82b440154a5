// Package route decides which UCM verb and device list a route request needs.
//
// Resolve is a pure function of the request and a snapshot of the core
// state; hal.Manager applies the resulting Plan.
package route

import (
	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/internal/session"
)

// MaxDevices is the largest device list a single request may carry.
const MaxDevices = 5

// Request is a route request after role parsing.
type Request struct {
	Kind    Kind
	Devices []device.Info
	Flags   Flags
}

// State is the part of the core state the resolver reads.
type State struct {
	Session   session.Session
	Recording bool
	Active    device.ActiveSet
}

// Plan is the outcome of resolving a request.
type Plan struct {
	Kind      Kind
	Verb      Verb
	Devices   []string
	Modifiers []Modifier

	// Output and Input are the devices to merge into the active set.
	Output device.Output
	Input  device.Input

	// Reset lists the directions to clear for a reset request.
	Reset []device.Direction

	// DualOut is set when the dual-output tier selected the devices.
	DualOut bool
	// InputSuppressed is set when requested inputs were dropped for radio.
	InputSuppressed bool
}

// Per-kind mapping tables from requested device to engaged device.
var (
	callOutputs = map[device.Output]device.Output{
		device.OutSpeaker:  device.OutSpeaker,
		device.OutReceiver: device.OutReceiver,
		device.OutJack:     device.OutJack,
		device.OutBTSCO:    device.OutBTSCO,
	}
	callInputs = map[device.Input]device.Input{
		device.InMainMic: device.InMainMic,
		device.InJackMic: device.InJackMic,
	}
	voipInputs = map[device.Input]device.Input{
		device.InMainMic: device.InMainMic,
		device.InJackMic: device.InJackMic,
		device.InBTMic:   device.InBTMic,
	}
	// SCO belongs to call paths, so HiFi playback falls back to the speaker.
	playbackOutputs = map[device.Output]device.Output{
		device.OutSpeaker:  device.OutSpeaker,
		device.OutReceiver: device.OutReceiver,
		device.OutJack:     device.OutJack,
		device.OutBTSCO:    device.OutSpeaker,
	}
	playbackInputs = map[device.Input]device.Input{
		device.InMainMic: device.InMainMic,
		device.InSubMic:  device.InSubMic,
		device.InJackMic: device.InJackMic,
		device.InBTMic:   device.InBTMic,
	}
)

// EffectiveKind promotes playback requests made during a voice call or VoIP
// session to the call or VoIP kind.
func EffectiveKind(k Kind, s session.Session) Kind {
	if k != KindPlayback {
		return k
	}
	switch s {
	case session.SessionVoiceCall:
		return KindCall
	case session.SessionVoIP:
		return KindVoIP
	default:
		return k
	}
}

// Resolve computes the plan for req against st.
func Resolve(req Request, st State) (Plan, error) {
	if len(req.Devices) == 0 {
		return Plan{}, halerr.Parameter("route request has no devices")
	}
	if len(req.Devices) > MaxDevices {
		return Plan{}, halerr.Parameter("route request has %d devices, max %d", len(req.Devices), MaxDevices)
	}

	outs, ins := split(req.Devices)
	kind := EffectiveKind(req.Kind, st.Session)

	if kind == KindReset {
		return resolveReset(req.Devices)
	}

	plan := Plan{Kind: kind}
	var mappedOut []device.Output
	var mappedIn []device.Input

	switch kind {
	case KindCall:
		plan.Verb = VerbVoiceCall
		mappedOut = mapKinds(outs, callOutputs)
		mappedIn = mapKinds(ins, callInputs)

	case KindVoIP:
		plan.Verb = VerbHiFi
		mappedOut = mapKinds(outs, callOutputs)
		mappedIn = mapKinds(ins, voipInputs)

	case KindPlayback:
		plan.Verb = VerbHiFi
		switch {
		case len(outs) == 0:
			// capture only
		case req.Flags.Has(FlagMutePolicy):
			mappedOut = []device.Output{device.OutJack}
		case req.Flags.Has(FlagDualOut):
			mappedOut = []device.Output{device.OutSpeaker, device.OutJack}
			plan.DualOut = true
		default:
			mappedOut = mapKinds(outs, playbackOutputs)
		}

		if st.Session == session.SessionFMRadio && !st.Recording {
			plan.InputSuppressed = len(ins) > 0
		} else {
			mappedIn = mapKinds(ins, playbackInputs)
		}

	default:
		return Plan{}, halerr.Parameter("unsupported route kind %d", kind)
	}

	if len(mappedOut) == 0 && len(mappedIn) == 0 {
		return Plan{}, halerr.Parameter("no routable device for %s request", kind)
	}

	for _, o := range mappedOut {
		plan.Output |= o
	}
	for _, i := range mappedIn {
		plan.Input |= i
	}

	// A direction without new devices keeps its current hardware path, so its
	// active devices are listed too.
	if len(mappedOut) > 0 {
		plan.Devices = append(plan.Devices, names(mappedOut, device.OutputFlag)...)
	} else {
		plan.Devices = append(plan.Devices, st.Active.Snapshot(device.DirectionOutput)...)
	}
	if len(mappedIn) > 0 {
		plan.Devices = append(plan.Devices, names(mappedIn, device.InputFlag)...)
	} else {
		plan.Devices = append(plan.Devices, st.Active.Snapshot(device.DirectionInput)...)
	}

	return plan, nil
}

func resolveReset(devices []device.Info) (Plan, error) {
	plan := Plan{Kind: KindReset}
	seen := map[device.Direction]bool{}
	for _, d := range devices {
		if d.Direction != device.DirectionOutput && d.Direction != device.DirectionInput {
			return Plan{}, halerr.Parameter("reset device %q has no direction", d.Type)
		}
		if !seen[d.Direction] {
			seen[d.Direction] = true
			plan.Reset = append(plan.Reset, d.Direction)
		}
	}
	return plan, nil
}

// split resolves the request tokens and drops unknown ones.
func split(devices []device.Info) ([]device.Output, []device.Input) {
	var outs []device.Output
	var ins []device.Input
	for _, d := range devices {
		f := device.Resolve(d.Type, d.Direction)
		if o, ok := f.Output(); ok {
			outs = append(outs, o)
		} else if i, ok := f.Input(); ok {
			ins = append(ins, i)
		}
	}
	return outs, ins
}

// mapKinds maps requested kinds through table, keeping request order and
// dropping duplicates and unmapped kinds.
func mapKinds[K comparable](requested []K, table map[K]K) []K {
	var out []K
	for _, k := range requested {
		mapped, ok := table[k]
		if !ok {
			continue
		}
		dup := false
		for _, have := range out {
			if have == mapped {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, mapped)
		}
	}
	return out
}

func names[K device.Output | device.Input](kinds []K, tag func(K) device.Flag) []string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if name, ok := device.NameOf(tag(k)); ok {
			out = append(out, name)
		}
	}
	return out
}
