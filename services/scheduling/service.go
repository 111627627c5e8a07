package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appointmentRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/appointment"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// Zone returns the calendar timezone scheduling operates in. Date-only
// request strings must be interpreted in this zone, not UTC, or the requested
// and generated calendar days diverge west of Greenwich.
func (s *DefaultSchedulingService) Zone() *time.Location {
	return s.Slots.Zone()
}

// Identify finds or creates the caller's user record. When a record already
// exists its stored name wins over the name supplied on this call.
func (s *DefaultSchedulingService) Identify(ctx context.Context, phone, name string) (*models.User, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, ErrInvalidPhone
	}

	user, err := s.Users.FindByPhone(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return s.Users.Upsert(ctx, normalized, name)
}

// FetchAvailability returns the day's generated slots minus any whose start
// instant matches a booked appointment. This is a best-effort read; a slot
// shown here can still lose a subsequent booking race.
func (s *DefaultSchedulingService) FetchAvailability(ctx context.Context, date time.Time, serviceType string) ([]models.Slot, error) {
	if date.IsZero() {
		date = time.Now().In(s.Slots.Zone())
	}
	candidates := s.Slots.GenerateForDate(date, serviceType)

	day := date.In(s.Slots.Zone())
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.Slots.Zone())
	booked, err := s.Appointments.ListBookedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booked slots: %w", err)
	}

	taken := make(map[int64]bool, len(booked))
	for _, appt := range booked {
		taken[appt.StartTime.Unix()] = true
	}

	available := []models.Slot{}
	for _, slot := range candidates {
		if !taken[slot.StartTime.Unix()] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// Book creates a booked appointment for the caller. A zero end time defaults
// to start plus the default service duration. The pre-checks produce clean
// early errors; the store's constraints remain the arbiter under races.
func (s *DefaultSchedulingService) Book(ctx context.Context, userPhone string, start, end time.Time, reason, notes string) (*models.Appointment, error) {
	normalized, err := utils.NormalizePhone(userPhone)
	if err != nil {
		return nil, ErrInvalidPhone
	}
	if end.IsZero() {
		end = start.Add(s.Slots.ServiceDuration(""))
	}

	if taken, err := s.Appointments.HasBookedAtStart(ctx, start); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrSlotUnavailable
	}
	if overlap, err := s.Appointments.HasUserOverlap(ctx, normalized, start, end, ""); err != nil {
		return nil, err
	} else if overlap {
		return nil, ErrUserDoubleBooked
	}

	appt, err := s.Appointments.Create(ctx, &models.Appointment{
		UserPhone: normalized,
		StartTime: start,
		EndTime:   end,
		Meta:      models.AppointmentMeta{Reason: reason, Notes: notes},
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	utils.GetLogger().Info("appointment booked",
		zap.String("appointmentID", appt.ID),
		zap.String("userPhone", normalized),
		zap.Time("start", appt.StartTime))
	return appt, nil
}

// Modify moves an existing appointment to a new window, re-running both
// conflict checks against the new window. The appointment being moved is
// excluded from the overlap check so it never conflicts with itself.
func (s *DefaultSchedulingService) Modify(ctx context.Context, appointmentID string, newStart, newEnd time.Time) (*models.Appointment, error) {
	existing, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if newEnd.IsZero() {
		newEnd = newStart.Add(s.Slots.ServiceDuration(""))
	}

	if taken, err := s.Appointments.HasBookedAtStart(ctx, newStart); err != nil {
		return nil, err
	} else if taken && !(existing.Status == models.AppointmentStatusBooked && existing.StartTime.Equal(newStart)) {
		return nil, ErrSlotUnavailable
	}
	if overlap, err := s.Appointments.HasUserOverlap(ctx, existing.UserPhone, newStart, newEnd, appointmentID); err != nil {
		return nil, err
	} else if overlap {
		return nil, ErrUserDoubleBooked
	}

	updated, err := s.Appointments.Reschedule(ctx, appointmentID, newStart, newEnd)
	if err != nil {
		return nil, mapRepoError(err)
	}

	utils.GetLogger().Info("appointment rescheduled",
		zap.String("appointmentID", appointmentID),
		zap.Time("newStart", newStart))
	return updated, nil
}

// Cancel sets the appointment status to cancelled. Cancelling an already
// cancelled appointment is idempotent.
func (s *DefaultSchedulingService) Cancel(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.Cancel(ctx, appointmentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	utils.GetLogger().Info("appointment cancelled", zap.String("appointmentID", appointmentID))
	return appt, nil
}

// ListForUser returns the caller's appointments ordered by start ascending.
// A zero since defaults to 365 days before now.
func (s *DefaultSchedulingService) ListForUser(ctx context.Context, userPhone string, since time.Time) ([]models.Appointment, error) {
	normalized, err := utils.NormalizePhone(userPhone)
	if err != nil {
		return nil, ErrInvalidPhone
	}
	if since.IsZero() {
		since = time.Now().UTC().AddDate(0, 0, -365)
	}
	return s.Appointments.List(ctx, models.AppointmentFilter{
		UserPhone: normalized,
		StartFrom: since,
	})
}

// mapRepoError translates storage-layer conflict signals into caller-facing
// coded errors.
func mapRepoError(err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrSlotTaken):
		return ErrSlotUnavailable
	case errors.Is(err, appointmentRepo.ErrUserOverlap):
		return ErrUserDoubleBooked
	case errors.Is(err, appointmentRepo.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}
