// File: database/repository/summary/interface.go
package summaryRepo

import (
	"context"
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/database"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SummaryRepository is the append-only store for call summaries.
type SummaryRepository interface {
	Save(ctx context.Context, summary *models.CallSummary) (*models.CallSummary, error)
	List(ctx context.Context, userPhone string, limit int64) ([]models.CallSummary, error)
}

type mongoSummaryRepo struct {
	coll *mongo.Collection
}

// NewMongoSummaryRepo constructs a new MongoDB SummaryRepository.
func NewMongoSummaryRepo() SummaryRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoSummaryRepo{coll: db.Collection("call_summaries")}
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
