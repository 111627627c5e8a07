package scheduling

import (
	"context"
	"time"

	appointmentRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/appointment"
	userRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/user"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"
)

// SchedulingService composes slot generation with store conflict checks to
// run the appointment lifecycle. All phone arguments may arrive in any
// caller-supplied format; every operation normalizes before touching the
// store.
type SchedulingService interface {
	Zone() *time.Location
	Identify(ctx context.Context, phone, name string) (*models.User, error)
	FetchAvailability(ctx context.Context, date time.Time, serviceType string) ([]models.Slot, error)
	Book(ctx context.Context, userPhone string, start, end time.Time, reason, notes string) (*models.Appointment, error)
	Modify(ctx context.Context, appointmentID string, newStart, newEnd time.Time) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ListForUser(ctx context.Context, userPhone string, since time.Time) ([]models.Appointment, error)
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Slots        *SlotGenerator
}
