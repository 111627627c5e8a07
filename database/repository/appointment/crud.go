// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"
)

// Create inserts a booked appointment. The overlap query and the insert run
// inside one transaction so two concurrent bookings for the same user cannot
// both pass the check; the partial unique index on start_time rejects a
// concurrent identical-start booking with a duplicate key error.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	appt.Status = models.AppointmentStatusBooked
	appt.CreatedAt = now
	appt.UpdatedAt = now

	txnFn := func(sc mongo.SessionContext) error {
		overlap, err := r.HasUserOverlap(sc, appt.UserPhone, appt.StartTime, appt.EndTime, "")
		if err != nil {
			return err
		}
		if overlap {
			return ErrUserOverlap
		}
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return appt, nil
}

// Reschedule moves an appointment to a new window, identifier unchanged. The
// appointment being moved is excluded from the overlap query so shifting a
// booking within its own window is not a self-conflict.
func (r *mongoAppointmentRepo) Reschedule(ctx context.Context, id string, start, end time.Time) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	var updated models.Appointment
	txnFn := func(sc mongo.SessionContext) error {
		existing, err := r.GetByID(sc, id)
		if err != nil {
			return err
		}
		overlap, err := r.HasUserOverlap(sc, existing.UserPhone, start, end, id)
		if err != nil {
			return err
		}
		if overlap {
			return ErrUserOverlap
		}

		update := bson.M{"$set": bson.M{
			"start_time": start,
			"end_time":   end,
			"updated_at": time.Now().UTC(),
		}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.coll.FindOneAndUpdate(sc, bson.M{"id": id}, update, opts).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("reschedule appointment %s failed: %w", id, err)
		}
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Cancel flips the appointment status to cancelled. Cancelling an already
// cancelled appointment is a no-op that returns the same record.
func (r *mongoAppointmentRepo) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     models.AppointmentStatusCancelled,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cancel appointment %s failed: %w", id, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) withTransaction(ctx context.Context, txnFn func(mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
