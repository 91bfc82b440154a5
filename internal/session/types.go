package session

import "github.com/smazurov/audiohal/internal/halerr"

// Session is the top-level audio session.
type Session int

// Sessions.
const (
	SessionMedia Session = iota
	SessionVoiceCall
	SessionVideoCall
	SessionVoIP
	SessionFMRadio
	SessionCamcorder
	SessionNotification
	SessionAlarm
	SessionEmergency
	SessionVoiceRecognition
	sessionMax
)

var sessionNames = [sessionMax]string{
	"media",
	"voicecall",
	"videocall",
	"voip",
	"fmradio",
	"camcorder",
	"notification",
	"alarm",
	"emergency",
	"voice_recognition",
}

// String returns the wire name of the session.
func (s Session) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return sessionNames[s]
}

// Valid reports whether s is a known session.
func (s Session) Valid() bool {
	return s >= SessionMedia && s < sessionMax
}

// IsCall reports whether s puts the machine into call mode.
func (s Session) IsCall() bool {
	return s == SessionVoiceCall || s == SessionVideoCall || s == SessionVoIP
}

// ParseSession maps a wire name to a Session.
func ParseSession(name string) (Session, error) {
	for i, n := range sessionNames {
		if n == name {
			return Session(i), nil
		}
	}
	return 0, halerr.Parameter("unknown session %q", name)
}

// Subsession refines a session.
type Subsession int

// Subsessions.
const (
	SubsessionNone Subsession = iota
	SubsessionVoice
	SubsessionRingtone
	SubsessionMedia
	SubsessionInit
	SubsessionVRNormal
	SubsessionVRDrive
	SubsessionStereoRecord
	SubsessionMonoRecord
	subsessionMax
)

var subsessionNames = [subsessionMax]string{
	"none",
	"voice",
	"ringtone",
	"media",
	"init",
	"vr_normal",
	"vr_drive",
	"stereo_rec",
	"mono_rec",
}

// String returns the wire name of the subsession.
func (s Subsession) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return subsessionNames[s]
}

// Valid reports whether s is a known subsession.
func (s Subsession) Valid() bool {
	return s >= SubsessionNone && s < subsessionMax
}

// IsRecording reports whether s is one of the recording subsessions.
func (s Subsession) IsRecording() bool {
	return s == SubsessionStereoRecord || s == SubsessionMonoRecord
}

// allowedInCall reports whether s may be entered while a call is active.
func (s Subsession) allowedInCall() bool {
	return s == SubsessionVoice || s == SubsessionMedia || s == SubsessionRingtone
}

// ParseSubsession maps a wire name to a Subsession.
func ParseSubsession(name string) (Subsession, error) {
	for i, n := range subsessionNames {
		if n == name {
			return Subsession(i), nil
		}
	}
	return 0, halerr.Parameter("unknown subsession %q", name)
}

// Command is a session command.
type Command int

// Commands.
const (
	CommandStart Command = iota
	CommandSubsession
	CommandEnd
)

// String returns the wire name of the command.
func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandSubsession:
		return "subsession"
	case CommandEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseCommand maps a wire name to a Command. Unknown commands are an
// invalid state, not a parameter error.
func ParseCommand(name string) (Command, error) {
	switch name {
	case "start":
		return CommandStart, nil
	case "subsession":
		return CommandSubsession, nil
	case "end":
		return CommandEnd, nil
	default:
		return 0, halerr.InvalidState("unknown session command %q", name)
	}
}

// State is a snapshot of the machine.
type State struct {
	Session     Session
	Subsession  Subsession
	CallSession bool
	Recording   bool
}
