package intelligence

import _ "embed"

//go:embed prompts/extract_contract.md
var extractContractSystemPrompt string

//go:embed prompts/scope_summary.md
var scopeSummarySystemPrompt string

//go:embed prompts/extract_submittals.md
var extractSubmittalsSystemPrompt string
