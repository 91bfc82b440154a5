//go:build linux && (amd64 || arm64)

package alsa

import "unsafe"

// Layout checks; a mismatch against the kernel ABI fails the build.
var (
	_ [376]byte = [unsafe.Sizeof(sndCtlCardInfo{})]byte{}
	_ [288]byte = [unsafe.Sizeof(sndPCMInfo{})]byte{}
	_ [32]byte  = [unsafe.Sizeof(sndMask{})]byte{}
	_ [12]byte  = [unsafe.Sizeof(sndInterval{})]byte{}
	_ [608]byte = [unsafe.Sizeof(sndPCMHwParams{})]byte{}
)

// Request numbers encode the argument size, so hw_params requests differ
// from the 32-bit ones.
const (
	sndrvCtlIoctlCardInfo      = 0x81785501 // _IOR('U', 0x01, snd_ctl_card_info)
	sndrvCtlIoctlPCMNextDevice = 0x80045530 // _IOR('U', 0x30, int)
	sndrvCtlIoctlPCMInfo       = 0xc1205531 // _IOWR('U', 0x31, snd_pcm_info)

	sndrvPCMIoctlInfo     = 0x81204101 // _IOR('A', 0x01, snd_pcm_info)
	sndrvPCMIoctlHwRefine = 0xc2604110 // _IOWR('A', 0x10, snd_pcm_hw_params)
	sndrvPCMIoctlHwParams = 0xc2604111 // _IOWR('A', 0x11, snd_pcm_hw_params)
	sndrvPCMIoctlHwFree   = 0x00004112 // _IO('A', 0x12)
	sndrvPCMIoctlPrepare  = 0x00004140 // _IO('A', 0x40)
	sndrvPCMIoctlDrop     = 0x00004143 // _IO('A', 0x43)
)

// struct snd_pcm_hw_params with a 64-bit snd_pcm_uframes_t fifo_size.
type sndPCMHwParams struct {
	flags     uint32
	masks     [sndrvPCMHwParamLastMask - sndrvPCMHwParamFirstMask + 1]sndMask
	mres      [5]sndMask
	intervals [sndrvPCMHwParamLastInterval - sndrvPCMHwParamFirstInterval + 1]sndInterval
	ires      [9]sndInterval
	rmask     uint32
	cmask     uint32
	info      uint32
	msbits    uint32
	rateNum   uint32
	rateDen   uint32
	fifoSize  uint64
	reserved  [64]byte
}
