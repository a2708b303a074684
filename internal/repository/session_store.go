package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-coach/internal/domain"
)

// SessionStore es la unica fuente de verdad del estado de las entrevistas.
// Get devuelve snapshots; toda mutacion pasa por Update.
type SessionStore interface {
	Create(ctx context.Context, profile domain.CandidateProfile) (string, error)
	Get(ctx context.Context, id string) (*domain.InterviewSession, error)
	// Update ejecuta fn sobre una copia de trabajo con el turno de la sesion tomado
	// y la publica solo si fn no devuelve error. Si otro turno esta en curso devuelve
	// domain.ErrSessionBusy sin esperar.
	Update(ctx context.Context, id string, fn func(s *domain.InterviewSession) error) error
	// UpdateWait es como Update pero espera a que termine el turno en curso.
	// fn debe ser corta: no debe llamar al LLM.
	UpdateWait(ctx context.Context, id string, fn func(s *domain.InterviewSession) error) error
}

type sessionEntry struct {
	turn sync.Mutex

	mu      sync.RWMutex
	session *domain.InterviewSession

	lastAccess time.Time
}

// MemorySessionStore guarda sesiones en memoria con expiracion por inactividad
// y desalojo LRU al alcanzar maxSessions.
type MemorySessionStore struct {
	mu          sync.Mutex
	entries     map[string]*sessionEntry
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

func NewMemorySessionStore(ttl time.Duration, maxSessions int) *MemorySessionStore {
	return &MemorySessionStore{
		entries:     make(map[string]*sessionEntry),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemorySessionStore) Create(_ context.Context, profile domain.CandidateProfile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if s.maxSessions > 0 {
		for len(s.entries) >= s.maxSessions {
			if !s.evictOldestLocked() {
				break
			}
		}
	}

	id := uuid.NewString()
	for _, exists := s.entries[id]; exists; _, exists = s.entries[id] {
		id = uuid.NewString()
	}

	s.entries[id] = &sessionEntry{
		session:    domain.NewInterviewSession(id, profile, now),
		lastAccess: now,
	}
	return id, nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*domain.InterviewSession, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	return entry.session.Clone(), nil
}

func (s *MemorySessionStore) Update(_ context.Context, id string, fn func(s *domain.InterviewSession) error) error {
	entry, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !entry.turn.TryLock() {
		return domain.ErrSessionBusy
	}
	defer entry.turn.Unlock()
	return s.apply(entry, fn)
}

func (s *MemorySessionStore) UpdateWait(_ context.Context, id string, fn func(s *domain.InterviewSession) error) error {
	entry, err := s.lookup(id)
	if err != nil {
		return err
	}
	entry.turn.Lock()
	defer entry.turn.Unlock()
	return s.apply(entry, fn)
}

// apply corre fn sobre una copia y la publica si no hubo error. Requiere el turno tomado.
func (s *MemorySessionStore) apply(entry *sessionEntry, fn func(s *domain.InterviewSession) error) error {
	entry.mu.RLock()
	work := entry.session.Clone()
	entry.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}

	entry.mu.Lock()
	entry.session = work
	entry.mu.Unlock()

	s.mu.Lock()
	entry.lastAccess = s.now()
	s.mu.Unlock()
	return nil
}

// Len devuelve la cantidad de sesiones vivas.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep elimina las sesiones expiradas y devuelve cuantas borro.
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// StartJanitor ejecuta Sweep periodicamente hasta que ctx se cancele.
func (s *MemorySessionStore) StartJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 && onSweep != nil {
					onSweep(removed)
				}
			}
		}
	}()
}

func (s *MemorySessionStore) lookup(id string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.entries, id)
		return nil, domain.ErrSessionNotFound
	}
	entry.lastAccess = now
	return entry, nil
}

func (s *MemorySessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastAccess) > s.ttl
}

func (s *MemorySessionStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// evictOldestLocked desaloja la sesion menos usada que no tenga un turno en curso.
func (s *MemorySessionStore) evictOldestLocked() bool {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range s.entries {
		if !entry.turn.TryLock() {
			continue
		}
		entry.turn.Unlock()
		if oldestID == "" || entry.lastAccess.Before(oldest) {
			oldestID = id
			oldest = entry.lastAccess
		}
	}
	if oldestID == "" {
		return false
	}
	delete(s.entries, oldestID)
	return true
}
