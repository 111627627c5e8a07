// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"log"
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/database"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AppointmentRepository owns appointment persistence, conflict detection and
// lifecycle mutation. Create and Reschedule are the authoritative arbiters of
// the two uniqueness rules (identical booked start, per-user overlap); callers
// may pre-check for friendlier errors but must not rely on those pre-checks
// for safety.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	ListBookedBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	HasBookedAtStart(ctx context.Context, start time.Time) (bool, error)
	HasUserOverlap(ctx context.Context, userPhone string, start, end time.Time, excludeID string) (bool, error)
	Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error)
	Reschedule(ctx context.Context, id string, start, end time.Time) (*models.Appointment, error)
	Cancel(ctx context.Context, id string) (*models.Appointment, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("appointments")
	repo := &mongoAppointmentRepo{coll: coll}

	// The partial unique index is what makes concurrent create calls safe, so
	// a failure here is fatal rather than logged and ignored.
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("failed to create appointment indexes: %v", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
