// models/summary.go
package models

import "time"

// CallSummary is the append-only record persisted once per finished call.
type CallSummary struct {
	ID                 string              `bson:"id" json:"id"`
	UserPhone          string              `bson:"user_phone" json:"user_phone"`
	SummaryText        string              `bson:"summary_text" json:"summary_text"`
	Preferences        map[string]any      `bson:"preferences,omitempty" json:"preferences,omitempty"`
	AppointmentsInCall []Appointment       `bson:"appointments_in_call,omitempty" json:"appointments_in_call,omitempty"`
	CostBreakdown      map[string]any      `bson:"cost_breakdown,omitempty" json:"cost_breakdown,omitempty"`
	Timeline           []ToolInvocation    `bson:"timeline,omitempty" json:"timeline,omitempty"`
	Transcript         []TranscriptSegment `bson:"transcript,omitempty" json:"transcript,omitempty"`
	CreatedAt          time.Time           `bson:"created_at" json:"created_at"`
}
