package session

import "sync"

// Manager tracks the active source sessions. Sessions register on source
// connect and deregister on disconnect; the status API iterates them.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Pipeline
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Pipeline),
	}
}

// Add registers a session.
func (m *Manager) Add(p *Pipeline) {
	m.mu.Lock()
	m.sessions[p.ID()] = p
	m.mu.Unlock()
}

// Remove deregisters a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Get returns the session with the given ID, or nil.
func (m *Manager) Get(id string) *Pipeline {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Infos returns a snapshot of all active sessions.
func (m *Manager) Infos() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.sessions))
	for _, p := range m.sessions {
		infos = append(infos, p.Info())
	}
	return infos
}

// Any returns an arbitrary active session, or nil when none exist. Observers
// connecting before any source use this for the initial state snapshot.
func (m *Manager) Any() *Pipeline {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.sessions {
		return p
	}
	return nil
}
