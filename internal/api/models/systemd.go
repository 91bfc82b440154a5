package models

type UnitStatus struct {
	Unit   string `json:"unit" example:"pipewire.service" doc:"Unit name"`
	Status string `json:"status" example:"active" doc:"ActiveState of the unit"`
}

type UnitStatusResponse struct {
	Body UnitStatus
}

type UnitActionInput struct {
	Action string `path:"action" enum:"start,stop,restart" doc:"Job to run on the unit"`
}

// UnitAction is the outcome of a finished unit job.
type UnitAction struct {
	Unit    string `json:"unit" example:"pipewire.service" doc:"Unit name"`
	Action  string `json:"action" example:"restart" doc:"Job that ran"`
	Success bool   `json:"success" doc:"Whether the job finished"`
}

type UnitActionResponse struct {
	Body UnitAction
}
