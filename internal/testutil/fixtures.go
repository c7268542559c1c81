package testutil

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithClient(client string) ProjectOption {
	return func(p *domain.Project) {
		p.Client = client
	}
}

func WithContractValue(v domain.Cents) ProjectOption {
	return func(p *domain.Project) {
		p.ContractValue = v
	}
}

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

// NewTestProject builds a project with a fresh P9xx short ID, well above
// anything a test allocates from the sequence.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:            uuid.New().String(),
		ShortID:       domain.FormatShortID(900 + int(testShortIDCounter.Add(1))),
		Name:          name,
		Client:        "Test GC",
		Location:      "Portland, OR",
		ContractValue: 10_000_000,
		StartDate:     time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Output set options
type OutputSetOption func(*domain.OutputSet)

func WithVersion(v int) OutputSetOption {
	return func(o *domain.OutputSet) {
		o.Version = v
	}
}

func WithSource(source string) OutputSetOption {
	return func(o *domain.OutputSet) {
		o.Source = source
	}
}

// NewTestOutputSet builds version 1 of an output set with small valid
// documents.
func NewTestOutputSet(projectID string, opts ...OutputSetOption) *domain.OutputSet {
	o := &domain.OutputSet{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		Version:       1,
		ContractValue: 10_000_000,
		Source:        "cli",
		Input:         json.RawMessage(`{"name":"Test"}`),
		Matches:       json.RawMessage(`[]`),
		Budget:        json.RawMessage(`{"lines":[]}`),
		Billing:       json.RawMessage(`{"events":[]}`),
		SOV:           json.RawMessage(`{"rows":[]}`),
		Submittals:    json.RawMessage(`{"entries":[]}`),
		Drafts:        json.RawMessage(`[]`),
		Warnings:      json.RawMessage(`[]`),
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
