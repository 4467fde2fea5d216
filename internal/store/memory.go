package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// MemStore keeps sessions in memory with sequential ids starting at 1.
// Contents are lost when the process exits.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
	nextID   int64
	now      func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[int64]Session),
		nextID:   1,
		now:      time.Now,
	}
}

func (m *MemStore) List(_ context.Context) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, cloneSession(s))
	}
	slices.SortFunc(out, func(a, b Session) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (m *MemStore) Get(_ context.Context, id int64) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return cloneSession(s), nil
}

func (m *MemStore) Create(_ context.Context, n NewSession) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := Session{
		ID:        m.nextID,
		Title:     n.Title,
		FileName:  n.FileName,
		Headers:   slices.Clone(n.Headers),
		Data:      sheet.CloneRows(n.Data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.Headers == nil {
		s.Headers = []string{}
	}
	m.nextID++
	m.sessions[s.ID] = s
	return cloneSession(s), nil
}

func (m *MemStore) Update(_ context.Context, id int64, p Patch) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.FileName != nil {
		s.FileName = *p.FileName
	}
	if p.Headers != nil {
		s.Headers = slices.Clone(*p.Headers)
	}
	if p.Data != nil {
		s.Data = sheet.CloneRows(*p.Data)
	}
	s.UpdatedAt = m.now()
	m.sessions[id] = s
	return cloneSession(s), nil
}

func (m *MemStore) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false, nil
	}
	delete(m.sessions, id)
	return true, nil
}

// Close is a no-op.
func (m *MemStore) Close() {}

func cloneSession(s Session) Session {
	s.Headers = slices.Clone(s.Headers)
	s.Data = sheet.CloneRows(s.Data)
	return s
}
