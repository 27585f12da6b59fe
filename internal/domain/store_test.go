package domain_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/utafrali/addressbook/internal/domain"
	"github.com/utafrali/addressbook/internal/field"
	"github.com/utafrali/addressbook/internal/hook"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// memStore is an in-memory domain.Store for aggregate tests.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	recs   map[int64]domain.Record

	inserts, updates, deletes int

	failInsert bool
	failUpdate bool
	failDelete bool
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[int64]domain.Record)}
}

func (s *memStore) Insert(_ context.Context, rec domain.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.failInsert {
		return 0, errors.New("connection refused")
	}
	s.nextID++
	stored := rec.Clone()
	stored[domain.FieldID] = s.nextID
	s.recs[s.nextID] = stored
	return s.nextID, nil
}

func (s *memStore) Update(_ context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.failUpdate {
		return errors.New("connection refused")
	}
	aid := rec.Int64(domain.FieldID)
	if _, ok := s.recs[aid]; !ok {
		return apperrors.NotFound("address", aid)
	}
	s.recs[aid] = rec.Clone()
	return nil
}

func (s *memStore) Delete(_ context.Context, aid int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.failDelete {
		return errors.New("connection refused")
	}
	if _, ok := s.recs[aid]; !ok {
		return apperrors.NotFound("address", aid)
	}
	delete(s.recs, aid)
	return nil
}

func (s *memStore) GetByID(_ context.Context, aid int64) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[aid]
	if !ok {
		return nil, apperrors.NotFound("address", aid)
	}
	return rec.Clone(), nil
}

func (s *memStore) ListByOwner(_ context.Context, uid int64) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Record
	for aid := int64(1); aid <= s.nextID; aid++ {
		if rec, ok := s.recs[aid]; ok && rec.Int64(domain.FieldOwner) == uid {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

type testEnv struct {
	store *memStore
	hooks *hook.Registry
	books *domain.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	hooks := hook.NewRegistry()
	return &testEnv{store: store, hooks: hooks, books: newManager(store, hooks)}
}

func newManager(store domain.Store, hooks *hook.Registry) *domain.Manager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return domain.NewManager(store, hooks, field.DefaultRegistry(), domain.NewIDSequence(), logger)
}
