package stores

import (
	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/providers"
	"context"
)

const KindCategories = "categories"

type CategoryStore struct {
	coll collection[models.Category]
}

func NewCategoryStore(fetcher content.Fetcher, logger providers.Logger) *CategoryStore {
	return &CategoryStore{
		coll: newCollection[models.Category](fetcher, logger, content.PathCategories, KindCategories),
	}
}

func (s *CategoryStore) Load(ctx context.Context) error { return s.coll.load(ctx) }
func (s *CategoryStore) Invalidate()                    { s.coll.invalidate() }
func (s *CategoryStore) Initialized() bool              { return s.coll.isInitialized() }
func (s *CategoryStore) Err() string                    { return s.coll.err() }
func (s *CategoryStore) Count() int                     { return s.coll.count() }
func (s *CategoryStore) Items() []models.Category       { return s.coll.snapshot() }

func (s *CategoryStore) GetByID(id string) (models.Category, bool) {
	return s.coll.find(func(c models.Category) bool { return c.ID == id })
}

// Name resolves a category id to its display name. Unresolved weak
// references degrade to the uncategorized label.
func (s *CategoryStore) Name(id string) string {
	if cat, ok := s.GetByID(id); ok {
		return cat.Name
	}
	return models.UncategorizedName
}
