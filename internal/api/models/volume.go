package models

// VolumeTypeInput selects a volume type.
type VolumeTypeInput struct {
	Type string `path:"type" example:"media" doc:"Volume type"`
}

// VolumeTableData is the level curve of a volume type.
type VolumeTableData struct {
	Type     string    `json:"type" example:"media"`
	LevelMax int       `json:"level_max" example:"16" doc:"Number of levels"`
	Values   []float64 `json:"values" doc:"Linear gain per level"`
}

type VolumeTableResponse struct {
	Body VolumeTableData
}

// VolumeLevelData is the current level of a volume type.
type VolumeLevelData struct {
	Type  string  `json:"type" example:"media"`
	Level uint32  `json:"level" example:"7"`
	Value float64 `json:"value" doc:"Linear gain at this level"`
}

type VolumeLevelResponse struct {
	Body VolumeLevelData
}

// SetVolumeLevelRequest sets the level of a volume type.
type SetVolumeLevelRequest struct {
	Type string `path:"type" example:"media" doc:"Volume type"`
	Body struct {
		Level uint32 `json:"level" example:"9" doc:"New level"`
	}
}

// GainInput selects a gain type.
type GainInput struct {
	Type string `path:"type" example:"dialer" doc:"Gain type"`
}

// GainData is the factor of a gain type.
type GainData struct {
	Type   string  `json:"type" example:"dialer"`
	Factor float64 `json:"factor" example:"1.0"`
}

type GainResponse struct {
	Body GainData
}
