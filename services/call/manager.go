package call

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// Manager tracks live sessions so a process shutdown can drain their pending
// finalizes instead of silently losing call summaries.
type Manager struct {
	Finalizer *Finalizer

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager constructs a session manager.
func NewManager(finalizer *Finalizer) *Manager {
	return &Manager{
		Finalizer: finalizer,
		sessions:  make(map[string]*Session),
	}
}

// Start registers a fresh session for a room.
func (m *Manager) Start(roomName string) *Session {
	session := NewSession(roomName)
	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session
}

// Get returns a live session by id, or nil if it was never started or has
// already ended.
func (m *Manager) Get(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID]
}

// End finalizes and forgets one session; used on transport disconnect.
func (m *Manager) End(ctx context.Context, sessionID, trigger string) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := m.Finalizer.Finalize(ctx, session, trigger); err != nil {
		utils.GetLogger().Error("session finalize failed",
			zap.String("sessionID", sessionID),
			zap.Error(err))
	}
}

// Drain finalizes every live session, best effort, bounded by ctx. Called on
// process shutdown.
func (m *Manager) Drain(ctx context.Context) {
	m.mu.Lock()
	remaining := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		remaining = append(remaining, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	logger := utils.GetLogger()
	var wg sync.WaitGroup
	for _, session := range remaining {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			if err := m.Finalizer.Finalize(ctx, s, "shutdown"); err != nil {
				logger.Error("shutdown finalize failed",
					zap.String("sessionID", s.ID),
					zap.Error(err))
			}
		}(session)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("shutdown drain timed out before all sessions finalized")
	}
}
