package models

// AudioDevicesInput filters the device list.
type AudioDevicesInput struct {
	Direction string `query:"direction" doc:"Only playback (out) or capture (in) devices"`
	Rate      int    `query:"rate" minimum:"0" doc:"Only devices advertising this sample rate"`
}

// PCMCaps is the hardware parameter space of a PCM device. Zero ranges
// mean the device could not be opened for probing.
type PCMCaps struct {
	Rates    []int    `json:"rates" example:"[8000,16000,48000]" doc:"Sample rates in Hz"`
	Formats  []string `json:"formats" example:"[\"S16_LE\"]" doc:"Sample formats"`
	Channels [2]int   `json:"channels" example:"[1,2]" doc:"Channel count range"`
	Buffer   [2]int   `json:"buffer_frames" example:"[64,65536]" doc:"Buffer size range in frames"`
	Period   [2]int   `json:"period_frames" example:"[32,32768]" doc:"Period size range in frames"`
}

// AudioDevice is one stream direction of an ALSA PCM device.
type AudioDevice struct {
	ALSADevice string  `json:"alsa_device" example:"hw:0,0" doc:"ALSA device string"`
	Direction  string  `json:"direction" example:"out" doc:"out for playback, in for capture"`
	Card       int     `json:"card" example:"0" doc:"Sound card index"`
	CardID     string  `json:"card_id" example:"PCH" doc:"Card identifier"`
	CardName   string  `json:"card_name" example:"HDA Intel PCH" doc:"Card name"`
	Device     int     `json:"device" example:"0" doc:"PCM device index on the card"`
	Name       string  `json:"name" example:"ALC892 Analog" doc:"PCM device name"`
	Caps       PCMCaps `json:"caps"`
}

type AudioDevicesData struct {
	Devices []AudioDevice `json:"devices"`
	Count   int           `json:"count" example:"2"`
}

type AudioDevicesResponse struct {
	Body AudioDevicesData
}
