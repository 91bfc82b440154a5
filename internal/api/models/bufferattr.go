package models

// BufferAttrInput describes the stream to size.
type BufferAttrInput struct {
	Direction string `query:"direction" enum:"in,out" default:"out" doc:"Stream direction"`
	Latency   string `query:"latency" enum:"low,mid,high,voip" default:"mid" doc:"Latency class"`
	Format    string `query:"format" default:"s16le" doc:"Sample format"`
	Rate      uint32 `query:"rate" default:"48000" doc:"Sample rate in Hz"`
	Channels  uint32 `query:"channels" default:"2" doc:"Channel count"`
}

// BufferAttrData is a host stream buffer configuration. -1 means host default.
type BufferAttrData struct {
	MaxLength      int32  `json:"maxlength"`
	TLength        int32  `json:"tlength"`
	PreBuf         int32  `json:"prebuf"`
	MinReq         int32  `json:"minreq"`
	FragSize       int32  `json:"fragsize"`
	PeriodTimeMsec uint32 `json:"period_time_msec"`
	PeriodSamples  uint32 `json:"period_samples"`
	PeriodCount    uint32 `json:"period_count"`
}

type BufferAttrResponse struct {
	Body BufferAttrData
}
