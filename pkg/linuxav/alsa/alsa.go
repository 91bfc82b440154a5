//go:build linux

// Package alsa talks to the kernel sound interface through /dev/snd ioctls,
// without alsa-lib or cgo. It covers what a routing daemon needs: listing
// PCM devices with their capability ranges, and opening a PCM with fixed
// hardware parameters so the codec path behind it powers up.
//
// Listing devices:
//
//	devices, err := alsa.ListDevices()
//	for _, dev := range devices {
//	    fmt.Printf("%s %s: %s (%s)\n", dev.Stream, dev.HW(), dev.Name, dev.CardName)
//	    fmt.Printf("  Rates: %v\n", dev.Caps.Rates)
//	}
//
// Opening the voice PCM of card 0:
//
//	card, dev, _ := alsa.ParseDevice("hw:0,1")
//	pcm, err := alsa.OpenPCM(card, dev, alsa.StreamPlayback)
//	got, err := pcm.SetHWParams(alsa.HWParams{
//	    Access: alsa.AccessRWInterleaved, Format: alsa.FormatS16LE,
//	    Channels: 1, Rate: 8000,
//	})
//	err = pcm.Prepare()
//	defer pcm.Close()
//
// Struct layouts and request numbers are per architecture; amd64, arm64
// and 32-bit arm are supported.
package alsa
