// models/appointment.go
package models

import "time"

// Appointment statuses. Cancelled is terminal.
const (
	AppointmentStatusBooked    = "booked"
	AppointmentStatusCancelled = "cancelled"
)

// AppointmentMeta holds free-form booking context.
type AppointmentMeta struct {
	Reason string `bson:"reason,omitempty" json:"reason,omitempty"`
	Notes  string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Appointment is a persisted booking against the single-provider calendar.
type Appointment struct {
	ID        string          `bson:"id" json:"id"`
	UserPhone string          `bson:"user_phone" json:"user_phone"`
	StartTime time.Time       `bson:"start_time" json:"start_time"`
	EndTime   time.Time       `bson:"end_time" json:"end_time"`
	Status    string          `bson:"status" json:"status"`
	Meta      AppointmentMeta `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}

// AppointmentFilter narrows list queries. Zero values mean "no filter".
type AppointmentFilter struct {
	UserPhone string
	Status    string
	StartFrom time.Time
	StartTo   time.Time
}
