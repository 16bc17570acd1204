package domain

import (
	"errors"
	"time"
)

// ErrNoCompany is returned by company-scoped operations when the caller has
// not registered a company yet.
var ErrNoCompany = errors.New("no company registered for user")

// Submission is what a diagnosis submit returns to the caller.
type Submission struct {
	Diagnosis      Diagnosis
	Persisted      bool
	TotalQuestions int
}

// RiskList is a risk listing plus where it came from. Source is the table
// name for stored risks or a mock_* marker when samples were substituted.
type RiskList struct {
	Risks   []Risk
	Source  string
	Message string
}

type RoadmapList struct {
	Items   []RoadmapItem
	Message string
}

type DocumentList struct {
	Documents []Document
	Message   string
}

type ChatReply struct {
	Response  string
	Timestamp time.Time
}
