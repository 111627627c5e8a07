// models/slot.go
package models

import "time"

// Slot is a candidate bookable interval. Slots are generated, never stored.
type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
