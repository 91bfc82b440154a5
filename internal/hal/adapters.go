package hal

import (
	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/route"
	"github.com/smazurov/audiohal/internal/voicepcm"
)

// voicePath lets the session machine drive the voice PCM. The machine only
// runs inside Manager entry points, so m.mu is already held.
type voicePath struct{ m *Manager }

func (v voicePath) OpenVoice() error {
	err := v.m.voice.Open(v.m.flags.Has(route.FlagNetworkWideband))
	v.m.publishVoice("open", err)
	return err
}

func (v voicePath) CloseVoice(reset bool) error {
	err := v.m.voice.Close(voicepcm.TargetBoth, reset)
	v.m.publishVoice("close", err)
	return err
}

// routeResetter is the reset path the voice PCM manager calls after a
// close with reset. It runs inside a Manager entry point with m.mu held and
// the PCM lock released.
type routeResetter struct{ m *Manager }

func (r routeResetter) InCallMode() bool {
	return r.m.inCallModeLocked()
}

func (r routeResetter) ResetDirection(dir device.Direction) {
	r.m.resetLocked(dir)
}
