package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/glazingpm/internal/budget"
	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
	"github.com/alexanderramin/glazingpm/internal/sov"
	"github.com/alexanderramin/glazingpm/internal/submittal"
)

// Pipeline turns a project input into the full document bundle. Every
// document is built from one contract split, so they agree on each scope's
// value. The clock only stamps GeneratedAt; no document body depends on it.
type Pipeline struct {
	catalog   *catalog.Catalog
	bands     contract.Bands
	durations scheduler.Durations
	summaries intelligence.SummaryService
	now       func() time.Time
}

// NewPipeline creates a Pipeline. A nil summaries service uses the
// deterministic summary.
func NewPipeline(cat *catalog.Catalog, bands contract.Bands, durations scheduler.Durations, summaries intelligence.SummaryService) *Pipeline {
	if summaries == nil {
		summaries = intelligence.NewSummaryService(nil)
	}
	return &Pipeline{
		catalog:   cat,
		bands:     bands,
		durations: durations,
		summaries: summaries,
		now:       time.Now,
	}
}

// Catalog returns the reference tables the pipeline matches against.
func (p *Pipeline) Catalog() *catalog.Catalog { return p.catalog }

// Run validates the input and generates every document. The returned
// input is the resolved form, with defaults and bands filled in, suitable
// for storage. Invalid input fails with a *domain.ValidationError and no
// documents.
func (p *Pipeline) Run(ctx context.Context, in contract.ProjectInput, shortID string) (*export.Bundle, contract.ProjectInput, error) {
	c, err := in.Resolve(p.bands)
	if err != nil {
		return nil, contract.ProjectInput{}, err
	}

	result := scope.MatchScopes(p.catalog, c.Signals)
	split, err := scheduler.SplitContract(p.catalog, c, result.Matches)
	if err != nil {
		return nil, contract.ProjectInput{}, err
	}
	b, err := budget.Build(p.catalog, c, split)
	if err != nil {
		return nil, contract.ProjectInput{}, fmt.Errorf("building budget: %w", err)
	}
	sched, err := scheduler.BuildSchedule(c, split, p.durations)
	if err != nil {
		return nil, contract.ProjectInput{}, fmt.Errorf("building billing schedule: %w", err)
	}
	doc, err := sov.Build(c, split, b)
	if err != nil {
		return nil, contract.ProjectInput{}, fmt.Errorf("building schedule of values: %w", err)
	}

	summary, err := p.summaries.Summarize(ctx, intelligence.BuildProjectTrace(doc, sched))
	if err != nil {
		return nil, contract.ProjectInput{}, err
	}

	bundle := &export.Bundle{
		ShortID:     shortID,
		GeneratedAt: p.now().UTC().Truncate(time.Second),
		Contract:    c,
		Scopes:      result,
		Budget:      b,
		Billing:     sched,
		SOV:         doc,
		Submittals:  submittal.Build(p.catalog, result.Matches, sched, nil),
		Summary:     summary,
		Warnings:    dedupeWarnings(result.Warnings, b.Warnings),
	}
	if bundle.Drafts, err = export.RenderDrafts(bundle); err != nil {
		return nil, contract.ProjectInput{}, err
	}
	return bundle, inputFromContract(c), nil
}

func inputFromContract(c contract.Contract) contract.ProjectInput {
	value, start, bands := c.Value, c.StartDate, c.Bands
	return contract.ProjectInput{
		Name:          c.Name,
		Client:        c.Client,
		Location:      c.Location,
		ContractValue: &value,
		StartDate:     &start,
		Bands:         &bands,
		Signals:       c.Signals,
	}
}

// dedupeWarnings concatenates the lists, keeping the first of any repeat.
func dedupeWarnings(lists ...[]domain.Warning) []domain.Warning {
	seen := make(map[domain.Warning]bool)
	var out []domain.Warning
	for _, list := range lists {
		for _, w := range list {
			if seen[w] {
				continue
			}
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func warningCodes(warnings []domain.Warning) []string {
	codes := make([]string, len(warnings))
	for i, w := range warnings {
		codes[i] = string(w.Code)
	}
	return codes
}
