package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"interview-coach/internal/domain"
)

var testProfile = domain.CandidateProfile{Name: "Jane Doe", CVText: "Go developer"}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration, max int) (*MemorySessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	s := NewMemorySessionStore(ttl, max)
	s.now = clock.Now
	return s, clock
}

func TestMemorySessionStore_CreateAndGet(t *testing.T) {
	s, _ := newTestStore(0, 0)
	ctx := context.Background()

	id, err := s.Create(ctx, testProfile)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != id || got.Status != domain.StatusActive || got.Profile.Name != "Jane Doe" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if len(got.QuestionsAsked) != 0 || len(got.Responses) != 0 {
		t.Fatalf("new session must be empty")
	}

	// Get devuelve snapshots: mutarlos no afecta al store.
	got.QuestionsAsked = append(got.QuestionsAsked, "leak")
	again, _ := s.Get(ctx, id)
	if len(again.QuestionsAsked) != 0 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestMemorySessionStore_UnknownID(t *testing.T) {
	s, _ := newTestStore(0, 0)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	err := s.Update(context.Background(), "missing", func(*domain.InterviewSession) error { return nil })
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemorySessionStore_UpdateCommitsOnlyOnSuccess(t *testing.T) {
	s, _ := newTestStore(0, 0)
	ctx := context.Background()
	id, _ := s.Create(ctx, testProfile)

	boom := errors.New("boom")
	err := s.Update(ctx, id, func(sess *domain.InterviewSession) error {
		_ = sess.RecordQuestion("discarded", time.Now())
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	got, _ := s.Get(ctx, id)
	if len(got.QuestionsAsked) != 0 {
		t.Fatalf("failed update must not be published")
	}

	err = s.Update(ctx, id, func(sess *domain.InterviewSession) error {
		return sess.RecordQuestion("kept", time.Now())
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.Get(ctx, id)
	if len(got.QuestionsAsked) != 1 || got.CurrentQuestion != "kept" {
		t.Fatalf("expected committed question, got %+v", got)
	}
}

func TestMemorySessionStore_ConcurrentTurnIsBusy(t *testing.T) {
	s, _ := newTestStore(0, 0)
	ctx := context.Background()
	id, _ := s.Create(ctx, testProfile)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Update(ctx, id, func(sess *domain.InterviewSession) error {
			close(entered)
			<-release
			return sess.RecordQuestion("q1", time.Now())
		})
	}()
	<-entered

	err := s.Update(ctx, id, func(*domain.InterviewSession) error { return nil })
	if !errors.Is(err, domain.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}
	// Las lecturas no se bloquean durante un turno.
	if _, err := s.Get(ctx, id); err != nil {
		t.Fatalf("get during turn: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := s.Update(ctx, id, func(*domain.InterviewSession) error { return nil }); err != nil {
		t.Fatalf("update after turn finished: %v", err)
	}
}

func TestMemorySessionStore_TTLExpiry(t *testing.T) {
	s, clock := newTestStore(time.Hour, 0)
	ctx := context.Background()
	id, _ := s.Create(ctx, testProfile)

	clock.Advance(30 * time.Minute)
	if _, err := s.Get(ctx, id); err != nil {
		t.Fatalf("session should be alive: %v", err)
	}

	// El acceso renueva la ventana de inactividad.
	clock.Advance(45 * time.Minute)
	if _, err := s.Get(ctx, id); err != nil {
		t.Fatalf("session should be alive after access: %v", err)
	}

	clock.Advance(61 * time.Minute)
	if _, err := s.Get(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expired session must be removed")
	}
}

func TestMemorySessionStore_Sweep(t *testing.T) {
	s, clock := newTestStore(time.Minute, 0)
	ctx := context.Background()
	_, _ = s.Create(ctx, testProfile)
	_, _ = s.Create(ctx, testProfile)

	clock.Advance(2 * time.Minute)
	keep, _ := s.Create(ctx, testProfile)

	if removed := s.Sweep(); removed != 0 {
		// Create ya barre los expirados.
		t.Fatalf("expected create to have swept, removed %d", removed)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", s.Len())
	}
	if _, err := s.Get(ctx, keep); err != nil {
		t.Fatalf("fresh session lost: %v", err)
	}
}

func TestMemorySessionStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s, clock := newTestStore(0, 2)
	ctx := context.Background()

	first, _ := s.Create(ctx, testProfile)
	clock.Advance(time.Second)
	second, _ := s.Create(ctx, testProfile)
	clock.Advance(time.Second)
	// first pasa a ser el mas reciente.
	_, _ = s.Get(ctx, first)
	clock.Advance(time.Second)

	third, _ := s.Create(ctx, testProfile)
	if s.Len() != 2 {
		t.Fatalf("expected cap of 2, got %d", s.Len())
	}
	if _, err := s.Get(ctx, second); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected least recently used session evicted, got %v", err)
	}
	for _, id := range []string{first, third} {
		if _, err := s.Get(ctx, id); err != nil {
			t.Fatalf("session %s should survive: %v", id, err)
		}
	}
}

func TestMemorySessionStore_UpdateWaitWaitsForTurn(t *testing.T) {
	s, _ := newTestStore(0, 0)
	ctx := context.Background()
	id, _ := s.Create(ctx, testProfile)

	entered := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- s.Update(ctx, id, func(sess *domain.InterviewSession) error {
			close(entered)
			<-release
			return sess.RecordQuestion("q1", time.Now())
		})
	}()
	<-entered

	waited := make(chan error, 1)
	go func() {
		waited <- s.UpdateWait(ctx, id, func(sess *domain.InterviewSession) error {
			if len(sess.QuestionsAsked) != 1 {
				return errors.New("ran before the previous turn committed")
			}
			sess.Feedback = "done"
			return nil
		})
	}()

	select {
	case err := <-waited:
		t.Fatalf("UpdateWait returned during a running turn: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := <-waited; err != nil {
		t.Fatalf("UpdateWait: %v", err)
	}
	got, _ := s.Get(ctx, id)
	if got.Feedback != "done" || len(got.QuestionsAsked) != 1 {
		t.Fatalf("unexpected session after both turns: %+v", got)
	}
}

func TestMemorySessionStore_UpdateWaitUnknownID(t *testing.T) {
	s, _ := newTestStore(0, 0)
	err := s.UpdateWait(context.Background(), "missing", func(*domain.InterviewSession) error { return nil })
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
