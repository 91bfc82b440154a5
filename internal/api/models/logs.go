package models

// LogsInput filters the log history.
type LogsInput struct {
	Level  string `query:"level" enum:"debug,info,warn,error" default:"debug" doc:"Minimum level"`
	Module string `query:"module" doc:"Only this module"`
	Limit  int    `query:"limit" minimum:"0" default:"200" doc:"Newest entries to return, 0 for all"`
}

// LogLine is one buffered log entry.
type LogLine struct {
	Timestamp  string         `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// LogsData is a slice of the log history.
type LogsData struct {
	Entries []LogLine `json:"entries"`
	Count   int       `json:"count"`
}

type LogsResponse struct {
	Body LogsData
}

// LogLevelRequest changes a log level at runtime.
type LogLevelRequest struct {
	Body struct {
		Module string `json:"module,omitempty" example:"hal" doc:"Module, global when empty"`
		Level  string `json:"level" enum:"debug,info,warn,error" example:"debug"`
	}
}

// LogLevelsData lists module levels.
type LogLevelsData struct {
	Levels map[string]string `json:"levels"`
}

type LogLevelsResponse struct {
	Body LogLevelsData
}
