// File: services/intelligence/openaiClient.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAISummarizer is the fallback summarization provider.
type OpenAISummarizer struct {
	client openai.Client
}

// NewOpenAISummarizer builds an OpenAI-backed summarizer.
func NewOpenAISummarizer(apiKey string) *OpenAISummarizer {
	return &OpenAISummarizer{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

// SummarizeCall sends the aggregated call data to OpenAI and returns the
// summary text with token usage.
func (o *OpenAISummarizer) SummarizeCall(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary payload: %w", err)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(string(payload)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	usage := map[string]any{
		"provider":          "openai",
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	}
	return &SummaryResult{Text: resp.Choices[0].Message.Content, Usage: usage}, nil
}
