// Package session tracks in-progress preference interviews and
// enforces the readiness gate in front of playlist generation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/profilecode"
	"github.com/google/uuid"
)

// Tracker owns session lifecycle: creation, conversational mutation,
// gate evaluation and completion. Mutations of the same session are
// serialized through a per-id lock so two near-simultaneous turns
// cannot read the same stale profile and overwrite each other's
// merged fields. Different sessions never contend.
type Tracker struct {
	store Store
	now   func() time.Time

	locks sync.Map // session id -> *sync.Mutex
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerClock injects the time source, used in expiry tests.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker constructs a tracker over the given store.
func NewTracker(store Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Create starts an empty session with the fixed TTL.
func (t *Tracker) Create(ctx context.Context, userID uint) (*models.ConversationSession, error) {
	now := t.now()
	s := &models.ConversationSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Profile:   *models.NewProfile(),
		CreatedAt: now,
		ExpiresAt: now.Add(models.SessionTTL),
	}
	if err := t.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("session: create: %w", err)
	}
	return s, nil
}

// Get loads a live session. Missing and expired sessions both surface
// as NotFoundError; expired ones are removed from the store.
func (t *Tracker) Get(ctx context.Context, id string) (*models.ConversationSession, error) {
	s, err := t.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{SessionID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}
	if !s.Completed && t.now().After(s.ExpiresAt) {
		_ = t.store.Delete(ctx, id)
		return nil, &NotFoundError{SessionID: id, Expired: true}
	}
	return s, nil
}

// RecordTurn appends one interview turn: the listener's answer, the
// next question asked, and any profile fields extracted from the
// answer. Confidence is recomputed after the merge and the updated
// session is persisted atomically with respect to other turns on the
// same session.
func (t *Tracker) RecordTurn(ctx context.Context, id, answer, question string, updates *models.Profile) (*models.ConversationSession, error) {
	unlock := t.lock(id)
	defer unlock()

	s, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Completed {
		return nil, &NotFoundError{SessionID: id}
	}

	now := t.now()
	if answer != "" {
		s.Exchanges = append(s.Exchanges, models.SessionExchange{
			SessionID: id, Role: "user", Message: answer, CreatedAt: now,
		})
	}
	if question != "" {
		s.Exchanges = append(s.Exchanges, models.SessionExchange{
			SessionID: id, Role: "assistant", Message: question, CreatedAt: now,
		})
		s.QuestionsAsked++
	}

	s.Profile.Merge(updates)
	s.Profile.Confidence = profilecode.CalculateConfidence(&s.Profile)

	if err := t.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("session: persist turn %s: %w", id, err)
	}
	return s, nil
}

// RequireReady loads a session and enforces the generation gate:
// questionsAsked >= 5 AND confidence >= 21, both inclusive. A session
// failing the gate yields a GateError with current vs required values,
// never a degraded playlist.
func (t *Tracker) RequireReady(ctx context.Context, id string) (*models.ConversationSession, error) {
	s, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Completed {
		return nil, &NotFoundError{SessionID: id}
	}
	if !s.Ready() {
		return nil, NewGateError(s)
	}
	return s, nil
}

// Complete marks a session as consumed by a generated playlist.
func (t *Tracker) Complete(ctx context.Context, id string) error {
	unlock := t.lock(id)
	defer unlock()

	s, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Completed = true
	if err := t.store.Put(ctx, s); err != nil {
		return fmt.Errorf("session: complete %s: %w", id, err)
	}
	return nil
}

// lock serializes mutations per session id.
func (t *Tracker) lock(id string) func() {
	v, _ := t.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
