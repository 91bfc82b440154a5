package models

// DeviceRef is one device of a route request.
type DeviceRef struct {
	Type      string `json:"type" example:"builtin-speaker" doc:"Client device token"`
	Direction string `json:"direction" enum:"in,out" example:"out" doc:"Device direction"`
}

// RouteRequestData is a route request.
type RouteRequestData struct {
	Role    string      `json:"role" example:"media" doc:"Client role, e.g. media, call-voice, voip, reset"`
	Devices []DeviceRef `json:"devices" maxItems:"5" doc:"Requested devices"`
	Flags   []string    `json:"flags,omitempty" example:"[\"network-wideband\"]" doc:"Route flags"`
}

type RouteRequest struct {
	Body RouteRequestData
}

// RoutePlanData is the applied route.
type RoutePlanData struct {
	Kind            string   `json:"kind" example:"playback" doc:"Effective request kind"`
	Verb            string   `json:"verb,omitempty" example:"HiFi" doc:"UCM verb"`
	Devices         []string `json:"devices,omitempty" example:"[\"Speaker\"]" doc:"Ordered UCM device list"`
	Modifiers       []string `json:"modifiers,omitempty" doc:"UCM modifiers"`
	Reset           []string `json:"reset,omitempty" example:"[\"out\"]" doc:"Directions cleared by a reset request"`
	DualOut         bool     `json:"dual_out" doc:"Dual output tier selected the devices"`
	InputSuppressed bool     `json:"input_suppressed" doc:"Inputs were dropped for a radio session"`
}

type RouteResponse struct {
	Body RoutePlanData
}

// ResetRequestData clears one direction of the active set.
type ResetRequestData struct {
	Direction string `json:"direction" enum:"in,out" example:"out" doc:"Direction to reset"`
}

type ResetRequest struct {
	Body ResetRequestData
}

// VoicePCMData describes the voice call PCM handles.
type VoicePCMData struct {
	PlaybackOpen bool   `json:"playback_open" doc:"Voice playback handle open"`
	CaptureOpen  bool   `json:"capture_open" doc:"Voice capture handle open"`
	Rate         uint32 `json:"rate,omitempty" example:"8000" doc:"Negotiated voice rate"`
	OpenCount    int    `json:"open_count" doc:"PCM handles open, voice and client streams"`
}

// StateData is a snapshot of the routing core.
type StateData struct {
	Session     string       `json:"session" example:"media" doc:"Current session"`
	Subsession  string       `json:"subsession" example:"none" doc:"Current subsession"`
	CallSession bool         `json:"call_session" doc:"A call session is active"`
	Recording   bool         `json:"recording" doc:"Subsession is a recording subsession"`
	CallMode    bool         `json:"call_mode" doc:"The last route used the call verb"`
	Flags       []string     `json:"flags,omitempty" doc:"Flags of the last route request"`
	Outputs     []string     `json:"outputs" example:"[\"Speaker\"]" doc:"Active output devices"`
	Inputs      []string     `json:"inputs" example:"[\"MainMic\"]" doc:"Active input devices"`
	Verb        string       `json:"verb,omitempty" example:"HiFi" doc:"Last activated UCM verb"`
	Devices     []string     `json:"devices,omitempty" doc:"Last activated UCM device list"`
	VoicePCM    VoicePCMData `json:"voice_pcm"`
}

type StateResponse struct {
	Body StateData
}

// StreamConnectionData reports a host stream connecting or disconnecting.
type StreamConnectionData struct {
	Role      string `json:"role" example:"media" doc:"Stream role"`
	Direction string `json:"direction" enum:"in,out" example:"out" doc:"Stream direction"`
	Index     uint32 `json:"index" doc:"Host stream index"`
	Connected bool   `json:"connected" doc:"True on connect, false on disconnect"`
}

type StreamConnectionRequest struct {
	Body StreamConnectionData
}

// RouteOptionData sets a named route option.
type RouteOptionData struct {
	Role  string `json:"role" example:"media" doc:"Client role"`
	Name  string `json:"name" example:"extra-volume" doc:"Option name"`
	Value int    `json:"value" doc:"Option value"`
}

type RouteOptionRequest struct {
	Body RouteOptionData
}

// AckData acknowledges a request without a result body.
type AckData struct {
	Success bool `json:"success" example:"true" doc:"Request accepted"`
}

type AckResponse struct {
	Body AckData
}
