package export

import (
	"io"

	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
	"github.com/alexanderramin/glazingpm/internal/sov"
	"github.com/alexanderramin/glazingpm/internal/submittal"
)

type reportData struct {
	Number     string
	Version    int
	Contract   contract.Contract
	Summary    *intelligence.ScopeSummary
	Scopes     []intelligence.ScopeTrace
	SOV        sov.Document
	Billing    scheduler.Schedule
	RFQs       []scope.RFQPackage
	Submittals submittal.Log
	Warnings   []domain.Warning
}

// WriteReport renders the markdown scope and RFQ report.
func WriteReport(w io.Writer, b *Bundle) error {
	trace := intelligence.BuildProjectTrace(b.SOV, b.Billing)
	out, err := render("report.md.tmpl", reportData{
		Number:     b.ProjectNumber(),
		Version:    b.Version,
		Contract:   b.Contract,
		Summary:    b.ScopeSummary(),
		Scopes:     trace.Scopes,
		SOV:        b.SOV,
		Billing:    b.Billing,
		RFQs:       b.Scopes.RFQPackages(),
		Submittals: b.Submittals,
		Warnings:   b.Warnings,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
