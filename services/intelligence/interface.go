// File: services/intelligence/interface.go
package ai

import (
	"context"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"
)

// SummaryRequest carries everything a call accumulated that the summary
// should reflect. Transcript and timeline order must be preserved.
type SummaryRequest struct {
	Transcript   []models.TranscriptSegment `json:"transcript"`
	Appointments []models.Appointment       `json:"appointments"`
	Preferences  map[string]any             `json:"preferences"`
}

// SummaryResult is the provider's summary text plus usage/cost metrics.
type SummaryResult struct {
	Text  string
	Usage map[string]any
}

// Summarizer turns aggregated call data into a CRM-ready summary. From the
// caller's perspective this is a single call that either returns a result or
// fails; provider fallback happens behind the interface.
type Summarizer interface {
	SummarizeCall(ctx context.Context, req SummaryRequest) (*SummaryResult, error)
}

const summarySystemPrompt = "Summarize the call in 3-5 bullet points, suitable for a CRM entry." +
	" Include booked/modified/cancelled appointments with ISO datetimes." +
	" Note any explicit user preferences." +
	" Keep the tone factual and concise."
