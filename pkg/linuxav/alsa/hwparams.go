//go:build linux

package alsa

// snd_pcm_hw_param_t indices from <sound/asound.h>. Masks come first,
// intervals are numbered from sndrvPCMHwParamFirstInterval.
const (
	sndrvPCMHwParamAccess    = 0
	sndrvPCMHwParamFormat    = 1
	sndrvPCMHwParamSubformat = 2
	sndrvPCMHwParamFirstMask = sndrvPCMHwParamAccess
	sndrvPCMHwParamLastMask  = sndrvPCMHwParamSubformat

	sndrvPCMHwParamSampleBits    = 8
	sndrvPCMHwParamFrameBits     = 9
	sndrvPCMHwParamChannels      = 10
	sndrvPCMHwParamRate          = 11
	sndrvPCMHwParamPeriodTime    = 12
	sndrvPCMHwParamPeriodSize    = 13
	sndrvPCMHwParamPeriodBytes   = 14
	sndrvPCMHwParamPeriods       = 15
	sndrvPCMHwParamBufferTime    = 16
	sndrvPCMHwParamBufferSize    = 17
	sndrvPCMHwParamBufferBytes   = 18
	sndrvPCMHwParamTickTime      = 19
	sndrvPCMHwParamFirstInterval = sndrvPCMHwParamSampleBits
	sndrvPCMHwParamLastInterval  = sndrvPCMHwParamTickTime

	sndrvMaskMax         = 256
	sndrvPCMSubformatStd = 0

	intervalInteger = 1 << 2
)

// Access modes.
const (
	AccessMMapInterleaved = 0
	AccessRWInterleaved   = 3
)

// struct snd_ctl_card_info, 376 bytes.
type sndCtlCardInfo struct {
	card       int32
	_          [4]byte
	id         [16]byte
	driver     [16]byte
	name       [32]byte
	longname   [80]byte
	reserved   [16]byte
	mixername  [80]byte
	components [128]byte
}

// struct snd_pcm_info, 288 bytes. The 16 byte gap before reserved is
// snd_pcm_sync_id.
type sndPCMInfo struct {
	device          uint32
	subdevice       uint32
	stream          int32
	card            int32
	id              [64]byte
	name            [80]byte
	subname         [32]byte
	devClass        int32
	devSubclass     int32
	subdevicesCount uint32
	subdevicesAvail uint32
	sync            [16]byte
	reserved        [64]byte
}

type sndMask struct {
	bits [(sndrvMaskMax + 31) / 32]uint32
}

func (m *sndMask) only(bit uint32) {
	clear(m.bits[:])
	m.bits[bit>>5] = 1 << (bit & 31)
}

func (m *sndMask) has(bit uint32) bool {
	return m.bits[bit>>5]&(1<<(bit&31)) != 0
}

type sndInterval struct {
	minVal uint32
	maxVal uint32
	flags  uint32 // openmin, openmax, integer, empty bits
}

// init opens every mask and interval, the state hw_refine expects before
// any constraint is applied. Only the first 64 mask bits are defined.
func (p *sndPCMHwParams) init() {
	*p = sndPCMHwParams{}
	for i := range p.masks {
		p.masks[i].bits[0] = ^uint32(0)
		p.masks[i].bits[1] = ^uint32(0)
	}
	for i := range p.intervals {
		p.intervals[i].maxVal = ^uint32(0)
	}
	p.rmask = ^uint32(0)
	p.info = ^uint32(0)
}

func (p *sndPCMHwParams) setMask(param, val uint32) {
	p.masks[param-sndrvPCMHwParamFirstMask].only(val)
}

func (p *sndPCMHwParams) checkMask(param, val uint32) bool {
	return p.masks[param-sndrvPCMHwParamFirstMask].has(val)
}

// setInterval pins an interval parameter to a single integer value.
func (p *sndPCMHwParams) setInterval(param, val uint32) {
	p.intervals[param-sndrvPCMHwParamFirstInterval] = sndInterval{minVal: val, maxVal: val, flags: intervalInteger}
}

func (p *sndPCMHwParams) getInterval(param uint32) (minVal, maxVal uint32) {
	iv := p.intervals[param-sndrvPCMHwParamFirstInterval]
	return iv.minVal, iv.maxVal
}
