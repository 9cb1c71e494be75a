package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/friendly-foods/backend/internal/models"
)

// MemoryStore is an in-process DocumentStore used by tests. It deep-copies
// on read and write so callers cannot mutate the stored document through a
// retained pointer, matching the snapshot semantics of the real backends.
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte

	// Fail forces every operation to return ErrUnavailable.
	Fail bool
	// FailWrites forces only writes to return ErrUnavailable.
	FailWrites bool

	// Writes counts successful Write calls.
	Writes int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Fail {
		return nil, ErrUnavailable
	}
	if s.doc == nil {
		return models.NewDocument(), nil
	}

	var doc models.Document
	if err := json.Unmarshal(s.doc, &doc); err != nil {
		return nil, err
	}
	normalize(&doc)
	return &doc, nil
}

func (s *MemoryStore) Write(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Fail || s.FailWrites {
		return ErrUnavailable
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.doc = data
	s.Writes++
	return nil
}
