//go:build linux && arm

package alsa

import "unsafe"

var (
	_ [376]byte = [unsafe.Sizeof(sndCtlCardInfo{})]byte{}
	_ [288]byte = [unsafe.Sizeof(sndPCMInfo{})]byte{}
	_ [604]byte = [unsafe.Sizeof(sndPCMHwParams{})]byte{}
)

// IOCTL constants for 32-bit ARM. hw_params is 4 bytes shorter than on
// 64-bit because snd_pcm_uframes_t is 32 bits wide.
const (
	sndrvCtlIoctlCardInfo      = 0x81785501
	sndrvCtlIoctlPCMNextDevice = 0x80045530
	sndrvCtlIoctlPCMInfo       = 0xc1205531

	sndrvPCMIoctlInfo     = 0x81204101
	sndrvPCMIoctlHwRefine = 0xc25c4110
	sndrvPCMIoctlHwParams = 0xc25c4111
	sndrvPCMIoctlHwFree   = 0x00004112
	sndrvPCMIoctlPrepare  = 0x00004140
	sndrvPCMIoctlDrop     = 0x00004143
)

// sndPCMHwParams has size 604 bytes.
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
	fifoSize  uint32 // snd_pcm_uframes_t
	reserved  [64]byte
}
