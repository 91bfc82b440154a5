package models

// SessionRequestData is a session command.
type SessionRequestData struct {
	Command    string `json:"command" example:"start" doc:"Session command"`
	Session    string `json:"session" example:"voicecall" doc:"Session name"`
	Subsession string `json:"subsession,omitempty" example:"voice" doc:"Subsession name, none when empty"`
}

type SessionRequest struct {
	Body SessionRequestData
}

// SessionData is the session state after a command.
type SessionData struct {
	Session     string `json:"session" example:"voicecall"`
	Subsession  string `json:"subsession" example:"voice"`
	CallSession bool   `json:"call_session"`
	Recording   bool   `json:"recording"`
}

type SessionResponse struct {
	Body SessionData
}
