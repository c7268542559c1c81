package domain

import (
	"encoding/json"
	"time"
)

// OutputSet is one immutable generation run for a project. Documents are
// stored as the JSON they were generated as; regenerating creates the next
// version rather than replacing this one.
type OutputSet struct {
	ID            string
	ProjectID     string
	Version       int
	ContractValue Cents
	Source        string
	Input         json.RawMessage
	Matches       json.RawMessage
	Budget        json.RawMessage
	Billing       json.RawMessage
	SOV           json.RawMessage
	Submittals    json.RawMessage
	Drafts        json.RawMessage
	Warnings      json.RawMessage
	CreatedAt     time.Time
}
