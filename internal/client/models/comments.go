package models

// RunComments is the free-text lab notebook attached to a run.
type RunComments struct {
	Comments string `json:"comments"`
}
