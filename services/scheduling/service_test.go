package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	appointmentRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/appointment"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"
)

// memoryUserRepo is a map-backed UserRepository.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*models.User{}}
}

func (r *memoryUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[phone]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryUserRepo) Upsert(_ context.Context, phone, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[phone]; ok {
		copied := *u
		return &copied, nil
	}
	u := &models.User{Phone: phone, Name: name, CreatedAt: time.Now().UTC()}
	r.users[phone] = u
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) UpdatePreferences(_ context.Context, phone string, preferences map[string]any) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[phone]
	if !ok {
		return nil, fmt.Errorf("user %s not found", phone)
	}
	u.Preferences = preferences
	copied := *u
	return &copied, nil
}

// memoryAppointmentRepo enforces the same conflict rules as the store-level
// constraints, under a single mutex so concurrent creates are serialized the
// way the unique index serializes them.
type memoryAppointmentRepo struct {
	mu    sync.Mutex
	seq   int
	appts map[string]*models.Appointment
}

func newMemoryAppointmentRepo() *memoryAppointmentRepo {
	return &memoryAppointmentRepo{appts: map[string]*models.Appointment{}}
}

func (r *memoryAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *memoryAppointmentRepo) List(_ context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, appt := range r.appts {
		if filter.UserPhone != "" && appt.UserPhone != filter.UserPhone {
			continue
		}
		if filter.Status != "" && appt.Status != filter.Status {
			continue
		}
		if !filter.StartFrom.IsZero() && appt.StartTime.Before(filter.StartFrom) {
			continue
		}
		if !filter.StartTo.IsZero() && !appt.StartTime.Before(filter.StartTo) {
			continue
		}
		out = append(out, *appt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memoryAppointmentRepo) ListBookedBetween(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, appt := range r.appts {
		if appt.Status != models.AppointmentStatusBooked {
			continue
		}
		if appt.StartTime.Before(from) || !appt.StartTime.Before(to) {
			continue
		}
		out = append(out, *appt)
	}
	return out, nil
}

func (r *memoryAppointmentRepo) HasBookedAtStart(_ context.Context, start time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookedAtStartLocked(start, ""), nil
}

func (r *memoryAppointmentRepo) HasUserOverlap(_ context.Context, userPhone string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userOverlapLocked(userPhone, start, end, excludeID), nil
}

func (r *memoryAppointmentRepo) Create(_ context.Context, appt *models.Appointment) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.userOverlapLocked(appt.UserPhone, appt.StartTime, appt.EndTime, "") {
		return nil, appointmentRepo.ErrUserOverlap
	}
	if r.bookedAtStartLocked(appt.StartTime, "") {
		return nil, appointmentRepo.ErrSlotTaken
	}
	r.seq++
	stored := *appt
	stored.ID = fmt.Sprintf("appt-%d", r.seq)
	stored.Status = models.AppointmentStatusBooked
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.appts[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryAppointmentRepo) Reschedule(_ context.Context, id string, start, end time.Time) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if r.userOverlapLocked(appt.UserPhone, start, end, id) {
		return nil, appointmentRepo.ErrUserOverlap
	}
	if r.bookedAtStartLocked(start, id) {
		return nil, appointmentRepo.ErrSlotTaken
	}
	appt.StartTime = start
	appt.EndTime = end
	appt.UpdatedAt = time.Now().UTC()
	copied := *appt
	return &copied, nil
}

func (r *memoryAppointmentRepo) Cancel(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	appt.Status = models.AppointmentStatusCancelled
	appt.UpdatedAt = time.Now().UTC()
	copied := *appt
	return &copied, nil
}

func (r *memoryAppointmentRepo) bookedAtStartLocked(start time.Time, excludeID string) bool {
	for id, appt := range r.appts {
		if id == excludeID {
			continue
		}
		if appt.Status == models.AppointmentStatusBooked && appt.StartTime.Equal(start) {
			return true
		}
	}
	return false
}

func (r *memoryAppointmentRepo) userOverlapLocked(userPhone string, start, end time.Time, excludeID string) bool {
	for id, appt := range r.appts {
		if id == excludeID || appt.UserPhone != userPhone {
			continue
		}
		if appt.Status != models.AppointmentStatusBooked {
			continue
		}
		if appt.StartTime.Before(end) && appt.EndTime.After(start) {
			return true
		}
	}
	return false
}

func newTestService() (*DefaultSchedulingService, *memoryAppointmentRepo, *memoryUserRepo) {
	appts := newMemoryAppointmentRepo()
	users := newMemoryUserRepo()
	svc := &DefaultSchedulingService{
		Users:        users,
		Appointments: appts,
		Slots:        testGenerator(),
	}
	return svc, appts, users
}

// slotAt returns a time next week at the given clock time, so list windows
// anchored to "now" always include it.
func slotAt(g *SlotGenerator, hour, minute int) time.Time {
	day := time.Now().In(g.Zone()).AddDate(0, 0, 7)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, g.Zone())
}

func TestIdentifyCreatesThenReuses(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Identify(ctx, "(555) 123-4567", "Ana")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if created.Phone != "+15551234567" {
		t.Fatalf("expected normalized phone, got %q", created.Phone)
	}

	again, err := svc.Identify(ctx, "555-123-4567", "Someone Else")
	if err != nil {
		t.Fatalf("second identify: %v", err)
	}
	if again.Name != "Ana" {
		t.Fatalf("existing record should win, got name %q", again.Name)
	}
}

func TestIdentifyRejectsInvalidPhone(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Identify(context.Background(), "no digits here", "X"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestBookThenAvailabilityExcludesSlot(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	start := slotAt(svc.Slots, 10, 0)

	if _, err := svc.Book(ctx, "5551234567", start, time.Time{}, "checkup", ""); err != nil {
		t.Fatalf("book: %v", err)
	}

	slots, err := svc.FetchAvailability(ctx, start, "")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	for _, slot := range slots {
		if slot.StartTime.Equal(start) {
			t.Fatalf("booked slot still offered: %v", start)
		}
	}
}

func TestFetchAvailabilityServesRequestedDay(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	// Parse the request string the way the boundaries do: a calendar day in
	// the scheduling zone, not a UTC instant.
	date, err := time.ParseInLocation("2006-01-02", "2026-03-10", svc.Zone())
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	slots, err := svc.FetchAvailability(ctx, date, "")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("expected slots for the requested day")
	}
	for _, slot := range slots {
		got := slot.StartTime.In(svc.Zone())
		if got.Year() != 2026 || got.Month() != time.March || got.Day() != 10 {
			t.Fatalf("requested 2026-03-10, got a slot on %v", got)
		}
	}
}

func TestBookZeroEndDefaultsDuration(t *testing.T) {
	svc, _, _ := newTestService()
	start := slotAt(svc.Slots, 10, 0)

	appt, err := svc.Book(context.Background(), "5551234567", start, time.Time{}, "", "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if got := appt.EndTime.Sub(appt.StartTime); got != 30*time.Minute {
		t.Fatalf("expected default 30m duration, got %v", got)
	}
}

func TestConcurrentBookSameSlot(t *testing.T) {
	svc, _, _ := newTestService()
	start := slotAt(svc.Slots, 11, 0)

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			phone := fmt.Sprintf("555123%04d", n)
			_, err := svc.Book(context.Background(), phone, start, time.Time{}, "", "")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotUnavailable):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner, got %d", won)
	}
	if lost != callers-1 {
		t.Fatalf("expected %d losers, got %d", callers-1, lost)
	}
}

func TestBookRejectsUserOverlap(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first := slotAt(svc.Slots, 10, 0)
	if _, err := svc.Book(ctx, "5551234567", first, first.Add(60*time.Minute), "", ""); err != nil {
		t.Fatalf("book: %v", err)
	}

	// Same caller, window overlapping the 10:00-11:00 booking.
	if _, err := svc.Book(ctx, "5551234567", first.Add(30*time.Minute), time.Time{}, "", ""); !errors.Is(err, ErrUserDoubleBooked) {
		t.Fatalf("expected ErrUserDoubleBooked, got %v", err)
	}

	// A different caller can take the 10:30 slot.
	if _, err := svc.Book(ctx, "5559876543", first.Add(30*time.Minute), time.Time{}, "", ""); err != nil {
		t.Fatalf("other caller should book fine: %v", err)
	}
}

func TestModifyMovesAppointment(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, "5551234567", slotAt(svc.Slots, 10, 0), time.Time{}, "", "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	newStart := slotAt(svc.Slots, 14, 0)
	moved, err := svc.Modify(ctx, appt.ID, newStart, time.Time{})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if !moved.StartTime.Equal(newStart) {
		t.Fatalf("expected start %v, got %v", newStart, moved.StartTime)
	}
	if got := moved.EndTime.Sub(moved.StartTime); got != 30*time.Minute {
		t.Fatalf("expected default duration on zero end, got %v", got)
	}
}

func TestModifyAllowsOwnWindow(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	start := slotAt(svc.Slots, 10, 0)
	appt, err := svc.Book(ctx, "5551234567", start, time.Time{}, "", "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// Growing the same appointment in place must not conflict with itself.
	if _, err := svc.Modify(ctx, appt.ID, start, start.Add(60*time.Minute)); err != nil {
		t.Fatalf("modify over own window: %v", err)
	}
}

func TestModifyRejectsTakenSlot(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	blocker := slotAt(svc.Slots, 15, 0)
	if _, err := svc.Book(ctx, "5559876543", blocker, time.Time{}, "", ""); err != nil {
		t.Fatalf("book blocker: %v", err)
	}
	appt, err := svc.Book(ctx, "5551234567", slotAt(svc.Slots, 10, 0), time.Time{}, "", "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := svc.Modify(ctx, appt.ID, blocker, time.Time{}); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestModifyMissingAppointment(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Modify(context.Background(), "missing", slotAt(svc.Slots, 10, 0), time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, "5551234567", slotAt(svc.Slots, 10, 0), time.Time{}, "", "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	first, err := svc.Cancel(ctx, appt.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if first.Status != models.AppointmentStatusCancelled {
		t.Fatalf("expected cancelled, got %q", first.Status)
	}

	second, err := svc.Cancel(ctx, appt.ID)
	if err != nil {
		t.Fatalf("second cancel should be idempotent: %v", err)
	}
	if second.Status != models.AppointmentStatusCancelled {
		t.Fatalf("expected cancelled, got %q", second.Status)
	}
}

func TestCancelledSlotBecomesAvailable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	start := slotAt(svc.Slots, 10, 0)

	appt, err := svc.Book(ctx, "5551234567", start, time.Time{}, "", "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := svc.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The freed start instant can be rebooked, even by someone else.
	if _, err := svc.Book(ctx, "5559876543", start, time.Time{}, "", ""); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestListForUserSortedAscending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	later := slotAt(svc.Slots, 15, 0)
	earlier := slotAt(svc.Slots, 9, 0)
	if _, err := svc.Book(ctx, "5551234567", later, time.Time{}, "", ""); err != nil {
		t.Fatalf("book later: %v", err)
	}
	if _, err := svc.Book(ctx, "5551234567", earlier, time.Time{}, "", ""); err != nil {
		t.Fatalf("book earlier: %v", err)
	}

	appts, err := svc.ListForUser(ctx, "(555) 123-4567", time.Time{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(appts))
	}
	if !appts[0].StartTime.Equal(earlier) || !appts[1].StartTime.Equal(later) {
		t.Fatalf("expected ascending start order")
	}
}

func TestListForUserDefaultWindowExcludesOldAppointments(t *testing.T) {
	svc, appts, _ := newTestService()
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -400)
	if _, err := appts.Create(ctx, &models.Appointment{
		UserPhone: "+15551234567",
		StartTime: old,
		EndTime:   old.Add(30 * time.Minute),
	}); err != nil {
		t.Fatalf("seed old appointment: %v", err)
	}

	recent := slotAt(svc.Slots, 10, 0)
	if _, err := svc.Book(ctx, "5551234567", recent, time.Time{}, "", ""); err != nil {
		t.Fatalf("book recent: %v", err)
	}

	got, err := svc.ListForUser(ctx, "5551234567", time.Time{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the appointment within the last 365 days, got %d", len(got))
	}
	if !got[0].StartTime.Equal(recent) {
		t.Fatalf("wrong appointment survived the window: %v", got[0].StartTime)
	}
}

func TestListForUserRejectsInvalidPhone(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ListForUser(context.Background(), "", time.Time{}); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}
