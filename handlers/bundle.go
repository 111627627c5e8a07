package handlers

// HandlerBundle aggregates the handlers so route registration takes a single
// dependency.
type HandlerBundle struct {
	Appointments *AppointmentHandler
	Slots        *SlotsHandler
	Summaries    *SummaryHandler
	Calls        *CallHandler
}
