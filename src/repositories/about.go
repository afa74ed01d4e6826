package repositories

import (
	"context"
	"errors"

	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/models"
)

// AboutStore implements AboutRepository over a document store
type AboutStore struct {
	store database.DocumentStore
}

// NewAboutStore creates an about repository
func NewAboutStore(store database.DocumentStore) *AboutStore {
	return &AboutStore{store: store}
}

func (r *AboutStore) Get(ctx context.Context) (*models.AboutContent, error) {
	var content models.AboutContent
	err := r.store.FindOne(ctx, models.CollectionAbout, database.Filter{"key": models.AboutKey}, &content)
	if errors.Is(err, database.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *AboutStore) Upsert(ctx context.Context, content *models.AboutContent) error {
	values := content.Values
	if values == nil {
		values = []string{}
	}
	_, err := r.store.UpdateOne(ctx, models.CollectionAbout, database.Filter{"key": models.AboutKey}, map[string]any{
		"title":       content.Title,
		"subtitle":    content.Subtitle,
		"description": content.Description,
		"mission":     content.Mission,
		"values":      values,
		"updatedAt":   content.UpdatedAt,
	}, true)
	return err
}

var _ AboutRepository = (*AboutStore)(nil)
