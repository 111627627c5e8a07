package call

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GeethaPardheev/MedicalVoiceAI/services/scheduling"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// ErrUnknownTool signals an integration bug: the conversational layer asked
// for a tool this registry never exposed. Fatal for that invocation only.
var ErrUnknownTool = errors.New("unknown tool")

// toolHandler executes one named tool against the session.
type toolHandler func(ctx context.Context, session *Session, args map[string]any) (any, error)

// ToolRegistry dispatches caller-facing tools and records every invocation,
// arguments and output verbatim, on the session timeline.
type ToolRegistry struct {
	scheduler scheduling.SchedulingService
	finalizer *Finalizer
	handlers  map[string]toolHandler
}

// NewToolRegistry wires the tool surface consumed by the conversational layer.
func NewToolRegistry(scheduler scheduling.SchedulingService, finalizer *Finalizer) *ToolRegistry {
	r := &ToolRegistry{scheduler: scheduler, finalizer: finalizer}
	r.handlers = map[string]toolHandler{
		"identify_user":           r.identifyUser,
		"fetch_slots":             r.fetchSlots,
		"book_appointment":        r.bookAppointment,
		"retrieve_appointments":   r.retrieveAppointments,
		"cancel_appointment":      r.cancelAppointment,
		"modify_appointment":      r.modifyAppointment,
		"update_user_preferences": r.updatePreferences,
		"end_conversation":        r.endConversation,
	}
	return r
}

// Dispatch runs one tool and appends the invocation to the session timeline
// regardless of outcome. The arguments recorded are exactly what the
// conversational layer sent; callID travels beside them. Conflict and
// not-found errors come back as coded scheduling errors for the
// conversational layer to phrase.
func (r *ToolRegistry) Dispatch(ctx context.Context, session *Session, name string, args map[string]any, callID string) (any, error) {
	handler, ok := r.handlers[name]
	if !ok {
		utils.GetLogger().Error("unknown tool requested",
			zap.String("tool", name),
			zap.String("sessionID", session.ID))
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	output, err := handler(ctx, session, args)
	recorded := output
	if err != nil {
		recorded = map[string]any{"error": err.Error()}
	}
	session.RecordTool(name, args, recorded, callID, time.Now().UTC())

	// Finalize only after the closing invocation is on the timeline, so the
	// persisted summary always includes it.
	if name == "end_conversation" && err == nil {
		r.finalizeAsync(session)
	}
	return output, err
}

func (r *ToolRegistry) identifyUser(ctx context.Context, session *Session, args map[string]any) (any, error) {
	user, err := r.scheduler.Identify(ctx, stringArg(args, "phone_number"), stringArg(args, "name"))
	if err != nil {
		return nil, err
	}
	session.SetUser(user.Phone, user.Name, user.Preferences)
	return user, nil
}

func (r *ToolRegistry) fetchSlots(ctx context.Context, _ *Session, args map[string]any) (any, error) {
	var date time.Time
	if raw := stringArg(args, "date"); raw != "" {
		parsed, err := parseDateOrTime(raw, r.scheduler.Zone())
		if err != nil {
			return nil, err
		}
		date = parsed
	}
	return r.scheduler.FetchAvailability(ctx, date, stringArg(args, "service_type"))
}

func (r *ToolRegistry) bookAppointment(ctx context.Context, session *Session, args map[string]any) (any, error) {
	phone, err := r.resolvePhone(session, args)
	if err != nil {
		return nil, err
	}
	start, err := parseDateOrTime(stringArg(args, "slot_start"), r.scheduler.Zone())
	if err != nil {
		return nil, err
	}
	var end time.Time
	if raw := stringArg(args, "slot_end"); raw != "" {
		if end, err = parseDateOrTime(raw, r.scheduler.Zone()); err != nil {
			return nil, err
		}
	}

	appt, err := r.scheduler.Book(ctx, phone, start, end, stringArg(args, "reason"), stringArg(args, "notes"))
	if err != nil {
		return nil, err
	}
	session.AddAppointment(*appt)
	return appt, nil
}

func (r *ToolRegistry) retrieveAppointments(ctx context.Context, session *Session, args map[string]any) (any, error) {
	phone, err := r.resolvePhone(session, args)
	if err != nil {
		return nil, err
	}
	var since time.Time
	if raw := stringArg(args, "since"); raw != "" {
		if since, err = parseDateOrTime(raw, r.scheduler.Zone()); err != nil {
			return nil, err
		}
	}
	return r.scheduler.ListForUser(ctx, phone, since)
}

func (r *ToolRegistry) cancelAppointment(ctx context.Context, session *Session, args map[string]any) (any, error) {
	appt, err := r.scheduler.Cancel(ctx, stringArg(args, "appointment_id"))
	if err != nil {
		return nil, err
	}
	session.AddAppointment(*appt)
	return appt, nil
}

func (r *ToolRegistry) modifyAppointment(ctx context.Context, session *Session, args map[string]any) (any, error) {
	start, err := parseDateOrTime(stringArg(args, "new_slot_start"), r.scheduler.Zone())
	if err != nil {
		return nil, err
	}
	var end time.Time
	if raw := stringArg(args, "new_slot_end"); raw != "" {
		if end, err = parseDateOrTime(raw, r.scheduler.Zone()); err != nil {
			return nil, err
		}
	}

	appt, err := r.scheduler.Modify(ctx, stringArg(args, "appointment_id"), start, end)
	if err != nil {
		return nil, err
	}
	session.AddAppointment(*appt)
	return appt, nil
}

func (r *ToolRegistry) updatePreferences(_ context.Context, session *Session, args map[string]any) (any, error) {
	prefs, ok := args["preferences"].(map[string]any)
	if !ok || len(prefs) == 0 {
		return nil, fmt.Errorf("a non-empty preferences map is required")
	}
	session.MergePreferences(prefs)
	return map[string]any{"status": "saved", "count": len(prefs)}, nil
}

func (r *ToolRegistry) endConversation(ctx context.Context, session *Session, args map[string]any) (any, error) {
	session.SetClosing(stringArg(args, "notes"), stringSliceArg(args, "action_items"))
	return map[string]any{
		"status":   "closing",
		"ended_at": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (r *ToolRegistry) finalizeAsync(session *Session) {
	go func() {
		finalizeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.finalizer.Finalize(finalizeCtx, session, "end_conversation"); err != nil {
			utils.GetLogger().Error("end_conversation finalize failed",
				zap.String("sessionID", session.ID),
				zap.Error(err))
		}
	}()
}

// resolvePhone prefers an explicit user_phone argument and falls back to the
// session's identified caller.
func (r *ToolRegistry) resolvePhone(session *Session, args map[string]any) (string, error) {
	if phone := stringArg(args, "user_phone"); phone != "" {
		return phone, nil
	}
	if phone := session.UserPhone(); phone != "" {
		return phone, nil
	}
	return "", fmt.Errorf("caller phone number is unknown; run identify_user first")
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// parseDateOrTime accepts RFC3339 datetimes and bare ISO dates. A bare date
// is a calendar day in the scheduling zone, not a UTC instant; parsing it as
// UTC would shift the day for any zone west of Greenwich.
func parseDateOrTime(raw string, zone *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, zone); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", raw)
}
