// Package memory provides an in-process store for local runs and tests.
package memory

import (
	"context"
	"sync"

	"financas/internal/core"
)

// Store keeps everything in memory behind one mutex. The request-per-
// interaction model never holds the lock across a blocking call.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	categories   []string
	tags         []string
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) InsertGroup(ctx context.Context, records []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, records...)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out, nil
}

func (s *Store) AddCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = appendUnique(s.categories, name)
	return nil
}

func (s *Store) AddTag(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = appendUnique(s.tags, name)
	return nil
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
