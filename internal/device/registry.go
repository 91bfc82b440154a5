package device

// Canonical tables. Order is significant: it is the order Snapshot reports
// devices in, and UCM treats the first entry as primary.
var outputTable = []struct {
	kind  Output
	name  string
	token string
}{
	{OutSpeaker, "Speaker", "builtin-speaker"},
	{OutReceiver, "Handset", "builtin-receiver"},
	{OutJack, "Headset", "audio-jack"},
	{OutBTSCO, "BT-Headset", "bt"},
	{OutAux, "Line", "aux"},
	{OutHDMI, "HDMI", "hdmi"},
	{OutBTA2DP, "BT-A2DP", "bt-a2dp"},
	{OutUSB, "USB", "usb-audio"},
	{OutDock, "Dock", "dock"},
	{OutMirroring, "Mirroring", ""}, // internal only, never requested by clients
}

var inputTable = []struct {
	kind  Input
	name  string
	token string
}{
	{InMainMic, "MainMic", "builtin-mic"},
	{InSubMic, "SubMic", "builtin-sub-mic"},
	{InJackMic, "HeadsetMic", "audio-jack"},
	{InBTMic, "BT-Mic", "bt"},
}

// Resolve maps a client device token to a flag for the given direction.
// Matching is case-sensitive. "audio-jack" and "bt" exist in both directions
// and are disambiguated by dir. Canonical names are accepted as well, so a
// name produced by NameOf resolves back to the same flag. Internal-only
// devices without a client token are never resolved.
//
// Unknown tokens return None; callers filter it out rather than failing.
func Resolve(name string, dir Direction) Flag {
	switch dir {
	case DirectionOutput:
		for _, e := range outputTable {
			if e.token != "" && e.token == name {
				return OutputFlag(e.kind)
			}
		}
		for _, e := range outputTable {
			if e.token != "" && e.name == name {
				return OutputFlag(e.kind)
			}
		}
	case DirectionInput:
		for _, e := range inputTable {
			if e.token != "" && e.token == name {
				return InputFlag(e.kind)
			}
		}
		for _, e := range inputTable {
			if e.token != "" && e.name == name {
				return InputFlag(e.kind)
			}
		}
	}
	return None
}

// NameOf returns the canonical UCM device name for a single-kind flag.
// It fails for None and for flags that carry more than one kind.
func NameOf(f Flag) (string, bool) {
	if f.IsNone() || !f.single() {
		return "", false
	}
	if o, ok := f.Output(); ok {
		for _, e := range outputTable {
			if e.kind == o {
				return e.name, true
			}
		}
	}
	if i, ok := f.Input(); ok {
		for _, e := range inputTable {
			if e.kind == i {
				return e.name, true
			}
		}
	}
	return "", false
}

// Token returns the client token of a single-kind flag, if it has one.
func Token(f Flag) (string, bool) {
	if f.IsNone() || !f.single() {
		return "", false
	}
	if o, ok := f.Output(); ok {
		for _, e := range outputTable {
			if e.kind == o && e.token != "" {
				return e.token, true
			}
		}
	}
	if i, ok := f.Input(); ok {
		for _, e := range inputTable {
			if e.kind == i {
				return e.token, true
			}
		}
	}
	return "", false
}

// Tokens lists the client tokens known for a direction, in canonical order.
func Tokens(dir Direction) []string {
	var tokens []string
	switch dir {
	case DirectionOutput:
		for _, e := range outputTable {
			if e.token != "" {
				tokens = append(tokens, e.token)
			}
		}
	case DirectionInput:
		for _, e := range inputTable {
			tokens = append(tokens, e.token)
		}
	}
	return tokens
}
