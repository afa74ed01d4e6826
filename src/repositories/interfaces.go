package repositories

import (
	"context"

	"github.com/zirvehikayem/blog-api/src/models"
)

// PostRepository defines data access for blog posts.
// Lookups return (nil, nil) when nothing matches.
type PostRepository interface {
	List(ctx context.Context, query models.PostQuery) ([]models.BlogPost, error)
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	// SlugExists reports whether a post other than excludeID owns slug.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, post *models.BlogPost) error
	// Update replaces the mutable fields of the post; false means not found.
	Update(ctx context.Context, post *models.BlogPost) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

// MessageRepository defines data access for contact messages
type MessageRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	// List returns messages newest first; an empty status means all.
	List(ctx context.Context, status models.MessageStatus) ([]models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, status models.MessageStatus) (bool, error)
}

// AboutRepository defines data access for the about document
type AboutRepository interface {
	Get(ctx context.Context) (*models.AboutContent, error)
	Upsert(ctx context.Context, content *models.AboutContent) error
}
