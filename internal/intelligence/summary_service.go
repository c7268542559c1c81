package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/llm"
)

const (
	SummarySourceLLM           = "llm"
	SummarySourceDeterministic = "deterministic"
)

// ScopeHighlight is one sentence about one scope.
type ScopeHighlight struct {
	Scope string `json:"scope"`
	Text  string `json:"text"`
}

// ScopeSummary is the kickoff report's scope paragraph.
type ScopeSummary struct {
	Summary    string           `json:"summary"`
	Highlights []ScopeHighlight `json:"highlights"`
	Confidence float64          `json:"confidence"`
	Source     string           `json:"source"`
}

// SummaryService writes the scope summary for generated documents.
type SummaryService interface {
	// Summarize never fails on model errors; it falls back to a summary built
	// directly from the trace.
	Summarize(ctx context.Context, trace ProjectTrace) (*ScopeSummary, error)
}

type summaryService struct {
	client llm.LLMClient
}

// NewSummaryService creates a SummaryService. A nil client always uses the
// deterministic summary.
func NewSummaryService(client llm.LLMClient) SummaryService {
	return &summaryService{client: client}
}

func (s *summaryService) Summarize(ctx context.Context, trace ProjectTrace) (*ScopeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.client == nil || len(trace.Scopes) == 0 || !s.client.Available(ctx) {
		return DeterministicSummary(trace), nil
	}

	traceJSON, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return DeterministicSummary(trace), nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSummarize,
		SystemPrompt: scopeSummarySystemPrompt,
		UserPrompt:   "Here is the project trace:\n\n" + string(traceJSON),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return DeterministicSummary(trace), nil
	}

	summary, err := llm.ExtractJSON[ScopeSummary](resp.Text, validateSummary)
	if err != nil {
		return DeterministicSummary(trace), nil
	}
	if valErr := ValidateHighlightScopes(summary.Highlights, trace.ScopeKeys()); valErr != nil {
		return DeterministicSummary(trace), nil
	}

	summary.Source = SummarySourceLLM
	return &summary, nil
}

func validateSummary(s ScopeSummary) error {
	if strings.TrimSpace(s.Summary) == "" {
		return fmt.Errorf("summary is empty")
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("confidence %.2f out of range", s.Confidence)
	}
	return nil
}
