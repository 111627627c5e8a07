package call

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"
)

// Session lifecycle states. Finalized is terminal.
const (
	StatusActive     = "active"
	StatusFinalizing = "finalizing"
	StatusFinalized  = "finalized"
)

// Session is the per-call aggregation state: ordered transcript segments,
// ordered tool invocations, appointments touched, and accumulated
// preferences. It is owned by one call for its duration; the mutex exists
// because finalize can be triggered from several asynchronous sources.
type Session struct {
	ID       string
	RoomName string

	// finalizeMu serializes the summarize-and-persist sequence; it is held
	// for the whole of finalize so racing triggers queue up and then see the
	// finalized status. It is distinct from mu, which guards the mutable
	// aggregation state.
	finalizeMu sync.Mutex
	status     string

	mu                 sync.Mutex
	userPhone          string
	userName           string
	preferences        map[string]any
	transcript         []models.TranscriptSegment
	toolEvents         []models.ToolInvocation
	appointmentsInCall []models.Appointment
	finalNotes         string
	actionItems        []string
	createdAt          time.Time
}

// NewSession creates an active session for one call.
func NewSession(roomName string) *Session {
	return &Session{
		ID:          uuid.New().String(),
		RoomName:    roomName,
		status:      StatusActive,
		preferences: map[string]any{},
		createdAt:   time.Now().UTC(),
	}
}

// SetUser records the identified caller. Preferences from the stored user
// record seed the session's preference map.
func (s *Session) SetUser(phone, name string, preferences map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userPhone = phone
	s.userName = name
	for k, v := range preferences {
		s.preferences[k] = v
	}
}

// UserPhone returns the resolved caller phone, empty until identified.
func (s *Session) UserPhone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userPhone
}

// MergePreferences folds newly learned preferences into the session map.
// Later values win over earlier ones for the same key.
func (s *Session) MergePreferences(preferences map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range preferences {
		s.preferences[k] = v
	}
}

// PreferencesView returns the accumulated preference map without the closing
// notes; this is what gets written back to the user record.
func (s *Session) PreferencesView() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.preferences))
	for k, v := range s.preferences {
		out[k] = v
	}
	return out
}

// AddTranscript appends one utterance in observation order.
func (s *Session) AddTranscript(speaker, text, itemID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, models.TranscriptSegment{
		Speaker:   speaker,
		Text:      text,
		ItemID:    itemID,
		Timestamp: at,
	})
}

// RecordTool appends one tool invocation in observation order.
func (s *Session) RecordTool(name string, arguments map[string]any, output any, callID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolEvents = append(s.toolEvents, models.ToolInvocation{
		Name:      name,
		Arguments: arguments,
		Output:    output,
		CallID:    callID,
		Timestamp: at,
	})
}

// AddAppointment records an appointment touched during this call.
func (s *Session) AddAppointment(appt models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointmentsInCall = append(s.appointmentsInCall, appt)
}

// SetClosing stores wrap-up notes and action items from the closing tool.
func (s *Session) SetClosing(notes string, actionItems []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalNotes = notes
	s.actionItems = actionItems
}

// TranscriptView returns the transcript in observation order.
func (s *Session) TranscriptView() []models.TranscriptSegment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TranscriptSegment, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// TimelineView returns the tool invocations in observation order.
func (s *Session) TimelineView() []models.ToolInvocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ToolInvocation, len(s.toolEvents))
	copy(out, s.toolEvents)
	return out
}

// AppointmentsView returns the appointments touched during this call.
func (s *Session) AppointmentsView() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Appointment, len(s.appointmentsInCall))
	copy(out, s.appointmentsInCall)
	return out
}

// PreferencesPayload merges accumulated preferences with closing notes and
// action items for the summary record.
func (s *Session) PreferencesPayload() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := make(map[string]any, len(s.preferences)+2)
	for k, v := range s.preferences {
		payload[k] = v
	}
	if s.finalNotes != "" {
		payload["call_notes"] = s.finalNotes
	}
	if len(s.actionItems) > 0 {
		payload["action_items"] = s.actionItems
	}
	return payload
}

// Status reports the session lifecycle state.
func (s *Session) Status() string {
	s.finalizeMu.Lock()
	defer s.finalizeMu.Unlock()
	return s.status
}
