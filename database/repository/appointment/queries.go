// File: database/repository/appointment/queries.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves an appointment by its identifier.
func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

// List returns appointments matching the filter, ordered by start ascending.
// A structurally absent collection yields an empty result rather than an
// error so read-only consumers keep functioning during partial provisioning.
func (r *mongoAppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.UserPhone != "" {
		query["user_phone"] = filter.UserPhone
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	startRange := bson.M{}
	if !filter.StartFrom.IsZero() {
		startRange["$gte"] = filter.StartFrom
	}
	if !filter.StartTo.IsZero() {
		startRange["$lt"] = filter.StartTo
	}
	if len(startRange) > 0 {
		query["start_time"] = startRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

// ListBookedBetween returns booked appointments whose start falls within
// [from, to). Used by availability filtering.
func (r *mongoAppointmentRepo) ListBookedBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	return r.List(ctx, models.AppointmentFilter{
		Status:    models.AppointmentStatusBooked,
		StartFrom: from,
		StartTo:   to,
	})
}

// HasBookedAtStart reports whether any booked appointment holds the exact
// start instant. This is a best-effort pre-check; the partial unique index is
// the safety mechanism.
func (r *mongoAppointmentRepo) HasBookedAtStart(ctx context.Context, start time.Time) (bool, error) {
	return r.exists(ctx, bson.M{
		"status":     models.AppointmentStatusBooked,
		"start_time": start,
	})
}

// HasUserOverlap reports whether the user holds a booked appointment whose
// [start_time, end_time) interval overlaps [start, end). excludeID, when
// non-empty, excludes the appointment being moved so a reschedule does not
// conflict with itself.
func (r *mongoAppointmentRepo) HasUserOverlap(ctx context.Context, userPhone string, start, end time.Time, excludeID string) (bool, error) {
	query := bson.M{
		"user_phone": userPhone,
		"status":     models.AppointmentStatusBooked,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	if excludeID != "" {
		query["id"] = bson.M{"$ne": excludeID}
	}
	return r.exists(ctx, query)
}

func (r *mongoAppointmentRepo) exists(ctx context.Context, query bson.M) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("conflict query failed: %w", err)
	}
	return count > 0, nil
}
