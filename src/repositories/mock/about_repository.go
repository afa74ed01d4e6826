package mock

import (
	"context"

	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
)

// AboutRepository is a mock implementation of repositories.AboutRepository
type AboutRepository struct {
	GetFunc    func(ctx context.Context) (*models.AboutContent, error)
	UpsertFunc func(ctx context.Context, content *models.AboutContent) error

	Calls map[string][]interface{}
}

// NewAboutRepository creates a new mock about repository
func NewAboutRepository() *AboutRepository {
	return &AboutRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *AboutRepository) Get(ctx context.Context) (*models.AboutContent, error) {
	m.Calls["Get"] = append(m.Calls["Get"], nil)
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return nil, nil
}

func (m *AboutRepository) Upsert(ctx context.Context, content *models.AboutContent) error {
	m.Calls["Upsert"] = append(m.Calls["Upsert"], *content)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, content)
	}
	return nil
}

var _ repositories.AboutRepository = (*AboutRepository)(nil)
