package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/importer"
	"github.com/alexanderramin/glazingpm/internal/llm"
)

// MaxContractChars caps the combined document text sent for extraction.
const MaxContractChars = 100_000

const documentSeparator = "\n\n=== DOCUMENT SEPARATOR ===\n\n"

// ErrNoDocuments is returned when there is no text to analyze.
var ErrNoDocuments = errors.New("no contract text to analyze")

// Document is the extracted text of one contract file.
type Document struct {
	Name string
	Text string
}

// Extraction is the model's contract analysis. Issues lists what
// importer.ValidateAnalysis found; the analysis is returned either way so a
// person can complete it.
type Extraction struct {
	Analysis     importer.Analysis
	Issues       []string
	Truncated    bool
	Model        string
	InputTokens  int
	OutputTokens int
}

// Ready reports whether the analysis can be converted without edits.
func (e *Extraction) Ready() bool { return len(e.Issues) == 0 }

// ContractExtractor reads contract documents into a contract analysis.
type ContractExtractor interface {
	Extract(ctx context.Context, docs []Document) (*Extraction, error)
}

type contractExtractor struct {
	client llm.LLMClient
}

// NewContractExtractor creates a ContractExtractor backed by an LLM client.
func NewContractExtractor(client llm.LLMClient) ContractExtractor {
	return &contractExtractor{client: client}
}

func (s *contractExtractor) Extract(ctx context.Context, docs []Document) (*Extraction, error) {
	text, truncated := combineDocuments(docs)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoDocuments
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtract,
		SystemPrompt: extractContractSystemPrompt,
		UserPrompt:   "Please analyze these contract documents:\n\n" + text,
	})
	if err != nil {
		return nil, fmt.Errorf("llm contract extraction failed: %w", err)
	}

	analysis, err := llm.ExtractJSON[importer.Analysis](resp.Text, validateAnalysisShape)
	if err != nil {
		return nil, fmt.Errorf("failed to extract contract analysis: %w", err)
	}

	out := &Extraction{
		Analysis:     analysis,
		Truncated:    truncated,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}
	for _, e := range importer.ValidateAnalysis(&analysis) {
		out.Issues = append(out.Issues, e.Error())
	}
	return out, nil
}

// combineDocuments joins the documents under name headers and cuts the
// result at MaxContractChars.
func combineDocuments(docs []Document) (string, bool) {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		parts = append(parts, "DOCUMENT: "+d.Name+"\n\n"+d.Text)
	}
	text := strings.Join(parts, documentSeparator)
	if len(text) <= MaxContractChars {
		return text, false
	}
	cut := MaxContractChars
	// Don't split a UTF-8 sequence.
	for cut > 0 && !utf8Start(text[cut]) {
		cut--
	}
	return text[:cut], true
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }

// validateAnalysisShape rejects output that decoded but carries nothing.
func validateAnalysisShape(a importer.Analysis) error {
	if a.ProjectInfo.ProjectName == "" && a.FinancialDetails.ContractValue == nil && len(a.ScopeOfWork.Items) == 0 {
		return fmt.Errorf("analysis has no project name, contract value or scope items")
	}
	return nil
}
