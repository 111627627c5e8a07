package call

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	summaryRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/summary"
	userRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/user"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"
	ai "github.com/GeethaPardheev/MedicalVoiceAI/services/intelligence"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// Finalizer runs the one-time summarize-and-persist sequence that closes a
// call session. Every finalize trigger (closing tool, transport disconnect,
// process shutdown) funnels through Finalize.
type Finalizer struct {
	Summarizer ai.Summarizer
	Summaries  summaryRepo.SummaryRepository
	Users      userRepo.UserRepository
}

// Finalize summarizes and persists the session exactly once. It is a no-op
// when the session never identified a caller or was already finalized. On
// failure the session stays finalizing, so a later trigger retries; the
// finalized status is only set after the persist succeeds.
func (f *Finalizer) Finalize(ctx context.Context, session *Session, trigger string) error {
	logger := utils.GetLogger()

	if session.UserPhone() == "" {
		logger.Debug("finalize skipped: no caller identified",
			zap.String("sessionID", session.ID),
			zap.String("trigger", trigger))
		return nil
	}

	session.finalizeMu.Lock()
	defer session.finalizeMu.Unlock()

	if session.status == StatusFinalized {
		logger.Debug("finalize skipped: already finalized",
			zap.String("sessionID", session.ID),
			zap.String("trigger", trigger))
		return nil
	}
	session.status = StatusFinalizing

	logger.Info("summarizing call",
		zap.String("sessionID", session.ID),
		zap.String("trigger", trigger))

	preferences := session.PreferencesPayload()
	transcript := session.TranscriptView()
	appointments := session.AppointmentsView()

	result, err := f.Summarizer.SummarizeCall(ctx, ai.SummaryRequest{
		Transcript:   transcript,
		Appointments: appointments,
		Preferences:  preferences,
	})
	if err != nil {
		logger.Error("call summarization failed",
			zap.String("sessionID", session.ID),
			zap.Error(err))
		return fmt.Errorf("summarize call %s: %w", session.ID, err)
	}

	_, err = f.Summaries.Save(ctx, &models.CallSummary{
		UserPhone:          session.UserPhone(),
		SummaryText:        result.Text,
		Preferences:        preferences,
		AppointmentsInCall: appointments,
		CostBreakdown:      result.Usage,
		Timeline:           session.TimelineView(),
		Transcript:         transcript,
	})
	if err != nil {
		logger.Error("call summary persist failed",
			zap.String("sessionID", session.ID),
			zap.Error(err))
		return fmt.Errorf("persist summary for call %s: %w", session.ID, err)
	}

	session.status = StatusFinalized
	logger.Info("call summary persisted",
		zap.String("sessionID", session.ID),
		zap.String("trigger", trigger))

	// Write the accumulated preferences back to the user record so later
	// calls see them. Best effort: the summary already carries the same map,
	// so a failure here must not reopen the finalized session.
	if f.Users != nil {
		if prefs := session.PreferencesView(); len(prefs) > 0 {
			if _, err := f.Users.UpdatePreferences(ctx, session.UserPhone(), prefs); err != nil {
				logger.Warn("preference write-back failed",
					zap.String("sessionID", session.ID),
					zap.Error(err))
			}
		}
	}
	return nil
}
