package arena

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Manager tracks the live sessions and dispatches callers to them
type Manager struct {
	log    logrus.FieldLogger
	lock   sync.RWMutex
	arenas map[uuid.UUID]*Arena
}

// NewManager returns an empty session manager
func NewManager(logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Manager{
		log:    logger,
		arenas: make(map[uuid.UUID]*Arena),
	}
}

// Create starts a new session
func (m *Manager) Create(cfg Config) (*Arena, error) {
	if cfg.Logger == nil {
		cfg.Logger = m.log
	}

	a, err := NewArena(cfg)
	if err != nil {
		return nil, err
	}

	m.lock.Lock()
	m.arenas[a.ID()] = a
	m.lock.Unlock()

	m.log.WithField("arena", a.ID().String()).Info("created session")
	return a, nil
}

// Get returns a live session
func (m *Manager) Get(id uuid.UUID) (*Arena, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	a, found := m.arenas[id]
	return a, found
}

// Remove closes a session and forgets it
func (m *Manager) Remove(id uuid.UUID) {
	m.lock.Lock()
	a, found := m.arenas[id]
	delete(m.arenas, id)
	m.lock.Unlock()

	if found {
		a.Close()
		m.log.WithField("arena", id.String()).Info("removed session")
	}
}

// Count returns how many sessions are live
func (m *Manager) Count() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return len(m.arenas)
}
