package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
	"github.com/alexanderramin/glazingpm/internal/sov"
)

// DraftKind identifies an email draft template.
type DraftKind string

const (
	DraftKickoff       DraftKind = "internal_kickoff"
	DraftSOVSubmission DraftKind = "client_sov_submission"
	DraftVendorRFQ     DraftKind = "vendor_quote_request"
)

// Draft is a rendered email for a person to review and send.
type Draft struct {
	Kind     DraftKind `json:"kind"`
	FileName string    `json:"file_name"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
}

type draftData struct {
	Number   string
	Subject  string
	Contract contract.Contract
	Summary  *intelligence.ScopeSummary
	SOV      sov.Document
	Billing  scheduler.Schedule
	RFQs     []scope.RFQPackage
	Warnings []domain.Warning

	RFQ      scope.RFQPackage
	Match    *scope.Match
	Timeline *scheduler.ScopeTimeline
}

// RenderDrafts renders the kickoff and SOV submission emails plus one quote
// request per RFQ package.
func RenderDrafts(b *Bundle) ([]Draft, error) {
	base := draftData{
		Number:   b.ProjectNumber(),
		Contract: b.Contract,
		Summary:  b.ScopeSummary(),
		SOV:      b.SOV,
		Billing:  b.Billing,
		RFQs:     b.Scopes.RFQPackages(),
		Warnings: b.Warnings,
	}

	var drafts []Draft
	add := func(kind DraftKind, tmpl, suffix, subject string, data draftData) error {
		data.Subject = subject
		body, err := render(tmpl, data)
		if err != nil {
			return err
		}
		drafts = append(drafts, Draft{
			Kind:     kind,
			FileName: fmt.Sprintf("%s_%s.txt", data.Number, suffix),
			Subject:  subject,
			Body:     body,
		})
		return nil
	}

	if err := add(DraftKickoff, "kickoff.txt.tmpl", string(DraftKickoff),
		"New Project Kickoff - "+b.Contract.Name, base); err != nil {
		return nil, err
	}
	if err := add(DraftSOVSubmission, "sov_submission.txt.tmpl", string(DraftSOVSubmission),
		"Schedule of Values Submission - "+b.Contract.Name, base); err != nil {
		return nil, err
	}

	for _, rfq := range base.RFQs {
		data := base
		data.RFQ = rfq
		data.Match = findMatch(b.Scopes.Matches, rfq.Scope)
		data.Timeline = findTimeline(b.Billing.Timelines, rfq.Scope)
		suffix := fmt.Sprintf("%s_%s_%s", DraftVendorRFQ, strings.ToLower(string(rfq.Scope)), strings.ToLower(string(rfq.Material)))
		subject := fmt.Sprintf("Quote Request - %s - %s", b.Contract.Name, rfq.Material.Label())
		if err := add(DraftVendorRFQ, "vendor_rfq.txt.tmpl", suffix, subject, data); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

func findMatch(matches []scope.Match, category domain.ScopeCategory) *scope.Match {
	for i := range matches {
		if matches[i].Category == category {
			return &matches[i]
		}
	}
	return nil
}

func findTimeline(timelines []scheduler.ScopeTimeline, category domain.ScopeCategory) *scheduler.ScopeTimeline {
	for i := range timelines {
		if timelines[i].Scope == category {
			return &timelines[i]
		}
	}
	return nil
}
