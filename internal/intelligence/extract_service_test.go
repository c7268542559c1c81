package intelligence

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnalysisJSON = `{
  "project_info": {"project_name": "Harbor View Medical Office", "location": "Tacoma, WA", "client": "Harbor Health"},
  "financial_details": {"contract_value": 250000.00, "retention_percent": 5},
  "scope_of_work": {
    "spec_sections": ["08 41 13"],
    "items": [{"description": "Aluminum storefront", "spec_sections": ["08 41 13"], "quantities": {"sqft": 1800}}]
  },
  "schedule": {"start_date": "2025-03-03", "substantial_completion": "2025-09-30"}
}`

func TestExtract_Success(t *testing.T) {
	client := &fakeLLMClient{response: "Here is the analysis:\n```json\n" + validAnalysisJSON + "\n```"}
	svc := NewContractExtractor(client)

	out, err := svc.Extract(context.Background(), []Document{
		{Name: "contract.txt", Text: "Subcontract agreement for aluminum storefront..."},
		{Name: "division08.md", Text: "Section 08 41 13"},
	})
	require.NoError(t, err)
	assert.True(t, out.Ready())
	assert.False(t, out.Truncated)
	assert.Equal(t, "claude-test", out.Model)
	assert.Equal(t, 1200, out.InputTokens)
	assert.Equal(t, "Harbor View Medical Office", out.Analysis.ProjectInfo.ProjectName)
	require.NotNil(t, out.Analysis.FinancialDetails.ContractValue)
	assert.Equal(t, domain.Cents(25_000_000), *out.Analysis.FinancialDetails.ContractValue)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, llm.TaskExtract, req.Task)
	assert.Equal(t, extractContractSystemPrompt, req.SystemPrompt)
	assert.Contains(t, req.UserPrompt, "DOCUMENT: contract.txt")
	assert.Contains(t, req.UserPrompt, "=== DOCUMENT SEPARATOR ===")
	assert.Contains(t, req.UserPrompt, "DOCUMENT: division08.md")
}

func TestExtract_ReportsValidationIssues(t *testing.T) {
	client := &fakeLLMClient{response: `{"project_info": {"project_name": "No Dates"}, "financial_details": {"contract_value": 1000}, "schedule": {}}`}
	out, err := NewContractExtractor(client).Extract(context.Background(), []Document{{Name: "a.txt", Text: "text"}})
	require.NoError(t, err)
	assert.False(t, out.Ready())
	assert.Contains(t, out.Issues, "schedule.start_date is required")
}

func TestExtract_NoDocuments(t *testing.T) {
	client := &fakeLLMClient{}
	_, err := NewContractExtractor(client).Extract(context.Background(), []Document{{Name: "blank.txt", Text: "  \n"}})
	assert.ErrorIs(t, err, ErrNoDocuments)
	assert.Empty(t, client.requests)
}

func TestExtract_ClientErrorIsWrapped(t *testing.T) {
	client := &fakeLLMClient{err: llm.ErrTimeout}
	_, err := NewContractExtractor(client).Extract(context.Background(), []Document{{Name: "a.txt", Text: "text"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrTimeout)
}

func TestExtract_EmptyAnalysisRejected(t *testing.T) {
	client := &fakeLLMClient{response: `{"key_requirements": ["none"]}`}
	_, err := NewContractExtractor(client).Extract(context.Background(), []Document{{Name: "a.txt", Text: "text"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestExtract_NoJSON(t *testing.T) {
	client := &fakeLLMClient{response: "I could not find a contract in these documents."}
	_, err := NewContractExtractor(client).Extract(context.Background(), []Document{{Name: "a.txt", Text: "text"}})
	require.Error(t, err)
}

func TestCombineDocuments_Truncates(t *testing.T) {
	big := strings.Repeat("é", MaxContractChars)
	text, truncated := combineDocuments([]Document{{Name: "big.txt", Text: big}})
	assert.True(t, truncated)
	assert.LessOrEqual(t, len(text), MaxContractChars)
	assert.True(t, strings.HasPrefix(text, "DOCUMENT: big.txt"))
	assert.True(t, strings.HasSuffix(text, "é"))
}

func TestCombineDocuments_SkipsBlank(t *testing.T) {
	text, truncated := combineDocuments([]Document{{Name: "a", Text: "one"}, {Name: "b", Text: ""}, {Name: "c", Text: "three"}})
	assert.False(t, truncated)
	assert.Equal(t, 1, strings.Count(text, "=== DOCUMENT SEPARATOR ==="))
	assert.NotContains(t, text, "DOCUMENT: b")
}
