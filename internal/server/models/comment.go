package models

import "time"

// RunComment is the notebook text attached to one run of a project.
type RunComment struct {
	Project   string
	Run       string
	Body      string
	UpdatedBy string
	UpdatedAt time.Time
}
