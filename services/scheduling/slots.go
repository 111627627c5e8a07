package scheduling

import (
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"
)

// Fixed per-service appointment lengths, in minutes. Unknown service types
// fall back to the default rather than erroring.
var serviceLengths = map[string]int{
	"default":   30,
	"consult":   45,
	"follow_up": 30,
	"extended":  60,
}

// SlotGenerator produces deterministic candidate slots for a working day. It
// holds no state beyond its configuration and is safe for concurrent use.
type SlotGenerator struct {
	zone         *time.Location
	workdayStart int // hour of day
	workdayEnd   int // hour of day
	interval     time.Duration
}

// NewSlotGenerator builds a generator for the given timezone and working
// window. An unknown timezone name falls back to UTC.
func NewSlotGenerator(timezoneName string, workdayStartHour, workdayEndHour, intervalMinutes int) *SlotGenerator {
	zone, err := time.LoadLocation(timezoneName)
	if err != nil {
		zone = time.UTC
	}
	return &SlotGenerator{
		zone:         zone,
		workdayStart: workdayStartHour,
		workdayEnd:   workdayEndHour,
		interval:     time.Duration(intervalMinutes) * time.Minute,
	}
}

// Zone returns the configured timezone.
func (g *SlotGenerator) Zone() *time.Location {
	return g.zone
}

// ServiceDuration returns the appointment length for a service type, falling
// back to the default duration when the type is unknown or empty.
func (g *SlotGenerator) ServiceDuration(serviceType string) time.Duration {
	minutes, ok := serviceLengths[serviceType]
	if !ok {
		minutes = serviceLengths["default"]
	}
	return time.Duration(minutes) * time.Minute
}

// GenerateForDate emits every slot on the given calendar day whose full
// duration fits inside the working window. Slots that would spill past the
// window end are excluded, not truncated.
func (g *SlotGenerator) GenerateForDate(date time.Time, serviceType string) []models.Slot {
	day := date.In(g.zone)
	windowStart := time.Date(day.Year(), day.Month(), day.Day(), g.workdayStart, 0, 0, 0, g.zone)
	windowEnd := time.Date(day.Year(), day.Month(), day.Day(), g.workdayEnd, 0, 0, 0, g.zone)

	duration := g.ServiceDuration(serviceType)
	var slots []models.Slot
	for cursor := windowStart; !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(g.interval) {
		slots = append(slots, models.Slot{StartTime: cursor, EndTime: cursor.Add(duration)})
	}
	return slots
}

// GenerateRange concatenates GenerateForDate over consecutive calendar days
// starting at startDate.
func (g *SlotGenerator) GenerateRange(startDate time.Time, days int, serviceType string) []models.Slot {
	var slots []models.Slot
	day := startDate.In(g.zone)
	for offset := 0; offset < days; offset++ {
		slots = append(slots, g.GenerateForDate(day.AddDate(0, 0, offset), serviceType)...)
	}
	return slots
}
