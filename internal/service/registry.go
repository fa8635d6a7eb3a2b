package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"financas/internal/ledger"
)

// DefaultCategories are offered when the category registry is empty. They are
// suggestions only and never persisted.
func DefaultCategories() []string {
	return []string{"Alimentação", "Transporte", "Lazer", "Contas Fixas", "Salário", "Renda Extra"}
}

// RegistryService wraps the category/tag registries with defaulting,
// ordering and tag normalization.
type RegistryService struct {
	store ledger.Registry
}

func NewRegistryService(store ledger.Registry) *RegistryService {
	return &RegistryService{store: store}
}

// Categories returns all distinct category names sorted ascending, or the
// built-in defaults when none have been registered.
func (s *RegistryService) Categories(ctx context.Context) ([]string, error) {
	names, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(names) == 0 {
		return DefaultCategories(), nil
	}
	sort.Strings(names)
	return names, nil
}

// Tags returns all distinct tag names sorted ascending; empty is fine.
func (s *RegistryService) Tags(ctx context.Context) ([]string, error) {
	names, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Suggestions loads both registries concurrently for the entry form.
func (s *RegistryService) Suggestions(ctx context.Context) (categories, tags []string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = s.Tags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, tags, nil
}

// AddCategory registers a category name. Empty names and exact duplicates
// are silent no-ops.
func (s *RegistryService) AddCategory(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	if err := s.store.AddCategory(ctx, name); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

// AddTag normalizes the tag (lowercase, trimmed) before the dedup-insert.
func (s *RegistryService) AddTag(ctx context.Context, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	if err := s.store.AddTag(ctx, name); err != nil {
		return fmt.Errorf("add tag: %w", err)
	}
	return nil
}
