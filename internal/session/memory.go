package session

import (
	"context"
	"sync"
	"time"

	"github.com/santoshk66/maizic-chatbot/internal/models"
)

// MemoryStore keeps sessions in a mutex-guarded map. This is the default
// backend; state is lost on restart, which matches the service's contract.
type MemoryStore struct {
	mu           sync.Mutex
	sessions     map[string]*models.Session
	systemPrompt string
	timeout      time.Duration
	now          func() time.Time
}

func NewMemoryStore(systemPrompt string, timeout time.Duration) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MemoryStore{
		sessions:     make(map[string]*models.Session),
		systemPrompt: systemPrompt,
		timeout:      timeout,
		now:          time.Now,
	}
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return copySession(sess), nil
	}

	sess := &models.Session{
		ID:         id,
		Turns:      []models.Turn{{Role: models.RoleSystem, Content: s.systemPrompt}},
		LastActive: s.now(),
	}
	s.sessions[id] = sess
	return copySession(sess), nil
}

func (s *MemoryStore) AppendAndTrim(ctx context.Context, id string, turns ...models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}

	sess.Turns = trim(append(sess.Turns, turns...))
	sess.LastActive = s.now()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if now.Sub(sess.LastActive) > s.timeout {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}

// copySession hands callers their own turn slice so later appends can't race
// a reader holding the returned value.
func copySession(sess *models.Session) *models.Session {
	out := &models.Session{
		ID:         sess.ID,
		Turns:      make([]models.Turn, len(sess.Turns)),
		LastActive: sess.LastActive,
	}
	copy(out.Turns, sess.Turns)
	return out
}
