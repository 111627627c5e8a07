// File: services/intelligence/summarizer.go
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// FallbackSummarizer tries each provider in order and returns the first
// successful result.
type FallbackSummarizer struct {
	providers []Summarizer
}

// NewFallbackSummarizer composes providers into a single Summarizer.
func NewFallbackSummarizer(providers ...Summarizer) *FallbackSummarizer {
	return &FallbackSummarizer{providers: providers}
}

func (f *FallbackSummarizer) SummarizeCall(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	logger := utils.GetLogger()
	var lastErr error
	for i, provider := range f.providers {
		result, err := provider.SummarizeCall(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("summarization provider failed",
			zap.Int("provider_index", i),
			zap.Error(err))
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no summarization providers configured")
	}
	return nil, lastErr
}
