package session

import (
	"context"
	"errors"
	"sync"

	"github.com/auralis-music/auralis-api/internal/models"
	"gorm.io/gorm"
)

// Store is the keyed persistence boundary for interview sessions.
// Implementations return ErrNotFound for unknown ids; the tracker adds
// per-key serialization on top, so stores only need atomic single-record
// operations.
type Store interface {
	Get(ctx context.Context, id string) (*models.ConversationSession, error)
	Put(ctx context.Context, s *models.ConversationSession) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Used in tests and
// single-instance deployments without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ConversationSession
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.ConversationSession)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.ConversationSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(s), nil
}

func (m *MemoryStore) Put(_ context.Context, s *models.ConversationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = copySession(s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// copySession snapshots a session so callers cannot mutate stored state
// behind the store's back.
func copySession(s *models.ConversationSession) *models.ConversationSession {
	cp := *s
	cp.Exchanges = make([]models.SessionExchange, len(s.Exchanges))
	copy(cp.Exchanges, s.Exchanges)
	return &cp
}

// GormStore persists sessions through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a database-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Get(ctx context.Context, id string) (*models.ConversationSession, error) {
	var s models.ConversationSession
	err := g.db.WithContext(ctx).
		Preload("Exchanges", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (g *GormStore) Put(ctx context.Context, s *models.ConversationSession) error {
	return g.db.WithContext(ctx).Save(s).Error
}

func (g *GormStore) Delete(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).
		Select("Exchanges").
		Delete(&models.ConversationSession{ID: id}).Error
}
