// FILE: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the necessary indexes on the appointments collection.
func (r *mongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on appointment ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// At most one booked appointment per start instant, system-wide. The
		// insert/update that violates this fails with a duplicate key error,
		// which is the authoritative SlotTaken signal under concurrency.
		{
			Keys: bson.D{{Key: "start_time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_booked_start").
				SetPartialFilterExpression(bson.D{{Key: "status", Value: models.AppointmentStatusBooked}}),
		},
		// Compound index for per-user overlap queries
		{
			Keys:    bson.D{{Key: "user_phone", Value: 1}, {Key: "status", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetName("user_status_start_idx"),
		},
		// Compound index for booked-for-day range scans
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}, {Key: "end_time", Value: 1}},
			Options: options.Index().SetName("status_start_end_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
