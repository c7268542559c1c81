package intelligence

import (
	"context"

	"github.com/alexanderramin/glazingpm/internal/llm"
)

type fakeLLMClient struct {
	response    string
	err         error
	unavailable bool
	requests    []llm.GenerateRequest
}

func (f *fakeLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.response, Model: "claude-test", InputTokens: 1200, OutputTokens: 300}, nil
}

func (f *fakeLLMClient) Available(_ context.Context) bool { return !f.unavailable }
