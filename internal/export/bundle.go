// Package export renders generated project documents for people and other
// systems: CSV sheets, JSON, a markdown report and draft emails.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/glazingpm/internal/budget"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
	"github.com/alexanderramin/glazingpm/internal/sov"
	"github.com/alexanderramin/glazingpm/internal/submittal"
)

// Bundle is one generation run's documents.
type Bundle struct {
	ShortID     string
	Version     int
	GeneratedAt time.Time
	Contract    contract.Contract
	Scopes      scope.Result
	Budget      budget.Document
	Billing     scheduler.Schedule
	SOV         sov.Document
	Submittals  submittal.Log
	Summary     *intelligence.ScopeSummary
	Drafts      []Draft
	Warnings    []domain.Warning
}

// ProjectNumber is the short ID, or "DRAFT" for unregistered runs.
func (b *Bundle) ProjectNumber() string {
	return domain.CoalesceStr(b.ShortID, "DRAFT")
}

// ScopeSummary returns the stored summary or derives one from the documents.
func (b *Bundle) ScopeSummary() *intelligence.ScopeSummary {
	if b.Summary != nil {
		return b.Summary
	}
	return intelligence.DeterministicSummary(intelligence.BuildProjectTrace(b.SOV, b.Billing))
}

// FromOutputSet decodes a stored output set. The stored input carries the
// bands it was generated with, so it resolves to the same contract.
func FromOutputSet(p *domain.Project, o *domain.OutputSet) (*Bundle, error) {
	var in contract.ProjectInput
	if err := json.Unmarshal(o.Input, &in); err != nil {
		return nil, fmt.Errorf("decoding output set input: %w", err)
	}
	c, err := in.Resolve(contract.DefaultBands())
	if err != nil {
		return nil, fmt.Errorf("resolving stored input: %w", err)
	}

	b := &Bundle{
		ShortID:     p.ShortID,
		Version:     o.Version,
		GeneratedAt: o.CreatedAt,
		Contract:    c,
	}
	for _, part := range []struct {
		name string
		raw  json.RawMessage
		dst  any
	}{
		{"matches", o.Matches, &b.Scopes.Matches},
		{"budget", o.Budget, &b.Budget},
		{"billing", o.Billing, &b.Billing},
		{"sov", o.SOV, &b.SOV},
		{"submittals", o.Submittals, &b.Submittals},
		{"drafts", o.Drafts, &b.Drafts},
		{"warnings", o.Warnings, &b.Warnings},
	} {
		if len(part.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(part.raw, part.dst); err != nil {
			return nil, fmt.Errorf("decoding output set %s: %w", part.name, err)
		}
	}
	return b, nil
}
