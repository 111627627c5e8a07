// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiSummarizer is the primary summarization provider.
type GeminiSummarizer struct {
	model *genai.GenerativeModel
}

// NewGeminiSummarizer builds a Gemini-backed summarizer.
func NewGeminiSummarizer(apiKey string) (*GeminiSummarizer, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(summarySystemPrompt)},
	}
	return &GeminiSummarizer{model: model}, nil
}

// SummarizeCall sends the aggregated call data to Gemini and returns the
// summary text with token usage.
func (g *GeminiSummarizer) SummarizeCall(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary payload: %w", err)
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	usage := map[string]any{"provider": "gemini"}
	if resp.UsageMetadata != nil {
		usage["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		usage["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		usage["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	return &SummaryResult{Text: sb.String(), Usage: usage}, nil
}
