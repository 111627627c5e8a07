// File: database/repository/summary/crud.go
package summaryRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"
)

// Save appends one call summary record. Any backend error propagates; a
// summary write must never fail silently.
func (r *mongoSummaryRepo) Save(ctx context.Context, summary *models.CallSummary) (*models.CallSummary, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save call summary: %w", err)
	}
	return summary, nil
}

// List returns recent summaries, newest first, optionally filtered by phone.
// An absent collection yields an empty result so status dashboards keep
// functioning during partial backend provisioning.
func (r *mongoSummaryRepo) List(ctx context.Context, userPhone string, limit int64) ([]models.CallSummary, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if userPhone != "" {
		query["user_phone"] = userPhone
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list call summaries: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := []models.CallSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode call summaries: %w", err)
	}
	return summaries, nil
}
