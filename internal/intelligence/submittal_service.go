package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/llm"
)

// SubmittalAnalysis is the submittal requirements read from project
// specifications and drawing notes, merged across passes.
type SubmittalAnalysis struct {
	Requirements []domain.SubmittalRequirement
	Passes       int
	Truncated    bool
	Model        string
	InputTokens  int
	OutputTokens int
}

// SubmittalAnalyzer reads specifications for the submittals they call for.
type SubmittalAnalyzer interface {
	Analyze(ctx context.Context, docs []Document) (*SubmittalAnalysis, error)
}

type submittalAnalyzer struct {
	client llm.LLMClient
	passes int
}

// NewSubmittalAnalyzer creates a SubmittalAnalyzer that asks the model
// passes times and merges the answers. Fewer than one pass means one.
func NewSubmittalAnalyzer(client llm.LLMClient, passes int) SubmittalAnalyzer {
	return &submittalAnalyzer{client: client, passes: max(passes, 1)}
}

type submittalsResponse struct {
	Submittals []struct {
		SpecSection string `json:"spec_section"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Required    *bool  `json:"required"`
		Notes       string `json:"notes"`
	} `json:"submittals"`
}

func (s *submittalAnalyzer) Analyze(ctx context.Context, docs []Document) (*SubmittalAnalysis, error) {
	text, truncated := combineDocuments(docs)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoDocuments
	}

	out := &SubmittalAnalysis{Passes: s.passes, Truncated: truncated}
	seen := make(map[string]bool)
	for pass := 1; pass <= s.passes; pass++ {
		prompt := "Please list the glazing submittals these project documents require:\n\n" + text
		if s.passes > 1 {
			prompt += fmt.Sprintf("\n\nThis is pass %d of %d. Be thorough and don't miss any submittal requirements.", pass, s.passes)
		}
		resp, err := s.client.Generate(ctx, llm.GenerateRequest{
			Task:         llm.TaskSubmittals,
			SystemPrompt: extractSubmittalsSystemPrompt,
			UserPrompt:   prompt,
		})
		if err != nil {
			return nil, fmt.Errorf("llm submittal analysis pass %d failed: %w", pass, err)
		}
		parsed, err := llm.ExtractJSON[submittalsResponse](resp.Text, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract submittals on pass %d: %w", pass, err)
		}

		out.Model = resp.Model
		out.InputTokens += resp.InputTokens
		out.OutputTokens += resp.OutputTokens
		for _, item := range parsed.Submittals {
			desc := strings.TrimSpace(item.Description)
			if desc == "" {
				continue
			}
			key := catalog.NormalizeSpecSection(item.SpecSection) + "|" + catalog.NormalizePhrase(desc)
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Requirements = append(out.Requirements, domain.SubmittalRequirement{
				Category:    domain.ParseSubmittalCategory(item.Category),
				Description: desc,
				SpecSection: strings.TrimSpace(item.SpecSection),
				Optional:    item.Required != nil && !*item.Required,
				Notes:       strings.TrimSpace(item.Notes),
			})
		}
	}
	return out, nil
}
