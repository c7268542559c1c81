package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind names a downloadable rendering of a bundle.
type Kind string

const (
	KindSOVCSV     Kind = "sov.csv"
	KindBudgetCSV  Kind = "budget.csv"
	KindBillingCSV Kind = "billing.csv"
	KindReport     Kind = "report.md"
	KindJSON       Kind = "bundle.json"
	KindDrafts     Kind = "drafts.txt"
	KindSubmittals Kind = "submittals.csv"
)

// ErrUnknownKind is returned for a download kind Write does not render.
var ErrUnknownKind = errors.New("unknown download kind")

// Kinds lists every download kind.
func Kinds() []Kind {
	return []Kind{KindSOVCSV, KindBudgetCSV, KindBillingCSV, KindReport, KindJSON, KindDrafts, KindSubmittals}
}

// ContentType returns the HTTP content type of a kind.
func (k Kind) ContentType() string {
	switch {
	case strings.HasSuffix(string(k), ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(string(k), ".md"):
		return "text/markdown; charset=utf-8"
	case strings.HasSuffix(string(k), ".json"):
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// FileName is the suggested attachment name, e.g. "P003_sov.csv".
func (k Kind) FileName(b *Bundle) string {
	return b.ProjectNumber() + "_" + string(k)
}

// Write renders the bundle as kind.
func Write(w io.Writer, kind Kind, b *Bundle) error {
	switch kind {
	case KindSOVCSV:
		return WriteSOVCSV(w, b.SOV)
	case KindBudgetCSV:
		return WriteBudgetCSV(w, b.Budget)
	case KindBillingCSV:
		return WriteBillingCSV(w, b.Billing)
	case KindReport:
		return WriteReport(w, b)
	case KindJSON:
		return WriteJSON(w, b)
	case KindDrafts:
		return WriteDrafts(w, b.Drafts)
	case KindSubmittals:
		return WriteSubmittalsCSV(w, b.Submittals)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// WriteJSON writes every document of the bundle as one indented object.
func WriteJSON(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Project    string `json:"project_number"`
		Version    int    `json:"version,omitempty"`
		Contract   any    `json:"contract"`
		Scopes     any    `json:"scopes"`
		Budget     any    `json:"budget"`
		Billing    any    `json:"billing"`
		SOV        any    `json:"sov"`
		Submittals any    `json:"submittals"`
		Warnings   any    `json:"warnings"`
	}{
		Project:    b.ProjectNumber(),
		Version:    b.Version,
		Contract:   contractJSON(b),
		Scopes:     b.Scopes,
		Budget:     b.Budget,
		Billing:    b.Billing,
		SOV:        b.SOV,
		Submittals: b.Submittals,
		Warnings:   nonNil(b.Warnings),
	})
}

func contractJSON(b *Bundle) any {
	c := b.Contract
	return map[string]any{
		"name":           c.Name,
		"client":         c.Client,
		"location":       c.Location,
		"contract_value": c.Value,
		"start_date":     c.StartDate,
		"bands":          c.Bands,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// WriteDrafts writes the drafts one after another.
func WriteDrafts(w io.Writer, drafts []Draft) error {
	for i, d := range drafts {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, d.Body); err != nil {
			return err
		}
	}
	return nil
}
