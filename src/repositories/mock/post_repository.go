package mock

import (
	"context"

	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
)

// PostRepository is a mock implementation of repositories.PostRepository
type PostRepository struct {
	// Function stubs that can be overridden in tests
	ListFunc       func(ctx context.Context, query models.PostQuery) ([]models.BlogPost, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.BlogPost, error)
	GetBySlugFunc  func(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugExistsFunc func(ctx context.Context, slug, excludeID string) (bool, error)
	CreateFunc     func(ctx context.Context, post *models.BlogPost) error
	UpdateFunc     func(ctx context.Context, post *models.BlogPost) (bool, error)
	DeleteFunc     func(ctx context.Context, id string) (bool, error)
	CategoriesFunc func(ctx context.Context) ([]string, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewPostRepository creates a new mock post repository
func NewPostRepository() *PostRepository {
	return &PostRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *PostRepository) List(ctx context.Context, query models.PostQuery) ([]models.BlogPost, error) {
	m.Calls["List"] = append(m.Calls["List"], query)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, query)
	}
	return []models.BlogPost{}, nil
}

func (m *PostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	m.Calls["GetBySlug"] = append(m.Calls["GetBySlug"], slug)
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *PostRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	m.Calls["SlugExists"] = append(m.Calls["SlugExists"], slug)
	if m.SlugExistsFunc != nil {
		return m.SlugExistsFunc(ctx, slug, excludeID)
	}
	return false, nil
}

func (m *PostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	m.Calls["Create"] = append(m.Calls["Create"], *post)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	return nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.BlogPost) (bool, error) {
	m.Calls["Update"] = append(m.Calls["Update"], *post)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, post)
	}
	return true, nil
}

func (m *PostRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *PostRepository) Categories(ctx context.Context) ([]string, error) {
	m.Calls["Categories"] = append(m.Calls["Categories"], nil)
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return []string{}, nil
}

// Ensure PostRepository implements the interface
var _ repositories.PostRepository = (*PostRepository)(nil)
