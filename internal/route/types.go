package route

import (
	"strings"

	"github.com/smazurov/audiohal/internal/halerr"
)

// Verb is a UCM top-level configuration profile.
type Verb string

// UCM verbs.
const (
	VerbInactive  Verb = "Inactive"
	VerbHiFi      Verb = "HiFi"
	VerbVoiceCall Verb = "VoiceCall"
	VerbLoopback  Verb = "Loopback"
)

// Modifier is a UCM overlay on a verb. The resolver currently emits none.
type Modifier string

// UCM modifiers.
const (
	ModifierVoiceSearch  Modifier = "VoiceSearch"
	ModifierCamcording   Modifier = "Camcording"
	ModifierRingtone     Modifier = "Ringtone"
	ModifierDualRingtone Modifier = "DualRingtone"
	ModifierMedia        Modifier = "Media"
	ModifierDualMedia    Modifier = "DualMedia"
)

// Flags are routing hints independent of the device set.
type Flags uint32

// Route flags.
const (
	FlagDualOut Flags = 1 << iota
	FlagMutePolicy
	FlagNoiseReduction
	FlagExtraVolume
	FlagNetworkWideband
	FlagBTWideband
	FlagBTNoiseReduction
	FlagVoiceCommand
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagDualOut, "dual-out"},
	{FlagMutePolicy, "mute-policy"},
	{FlagNoiseReduction, "noise-reduction"},
	{FlagExtraVolume, "extra-volume"},
	{FlagNetworkWideband, "network-wideband"},
	{FlagBTWideband, "bt-wideband"},
	{FlagBTNoiseReduction, "bt-noise-reduction"},
	{FlagVoiceCommand, "voice-command"},
}

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String joins the set flag names with ",".
func (f Flags) String() string {
	return strings.Join(f.Names(), ",")
}

// Names returns the names of the set flags.
func (f Flags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// ParseFlags converts flag names into a bit set.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, name := range names {
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, halerr.Parameter("unknown route flag %q", name)
		}
	}
	return f, nil
}

// Kind is the closed set of route request kinds.
type Kind int

// Route request kinds.
const (
	KindPlayback Kind = iota
	KindCall
	KindVoIP
	KindReset

	// KindUnknown labels requests whose role did not parse.
	KindUnknown Kind = -1
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayback:
		return "playback"
	case KindCall:
		return "call"
	case KindVoIP:
		return "voip"
	case KindReset:
		return "reset"
	default:
		return "unknown"
	}
}

// roles maps client role strings to request kinds. Roles not listed here
// are rejected.
var roles = map[string]Kind{
	"call-voice":        KindCall,
	"voip":              KindVoIP,
	"reset":             KindReset,
	"media":             KindPlayback,
	"system":            KindPlayback,
	"alarm":             KindPlayback,
	"notification":      KindPlayback,
	"emergency":         KindPlayback,
	"ringtone-call":     KindPlayback,
	"ringtone-voip":     KindPlayback,
	"voice-information": KindPlayback,
	"voice-recognition": KindPlayback,
	"radio":             KindPlayback,
	"loopback":          KindPlayback,
}

// ParseRole maps a client role to a request kind.
func ParseRole(role string) (Kind, error) {
	k, ok := roles[role]
	if !ok {
		return KindUnknown, halerr.Parameter("unknown route role %q", role)
	}
	return k, nil
}
