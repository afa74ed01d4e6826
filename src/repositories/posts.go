package repositories

import (
	"context"
	"errors"

	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/models"
)

// PostStore implements PostRepository over a document store
type PostStore struct {
	store database.DocumentStore
}

// NewPostStore creates a post repository
func NewPostStore(store database.DocumentStore) *PostStore {
	return &PostStore{store: store}
}

func (r *PostStore) List(ctx context.Context, query models.PostQuery) ([]models.BlogPost, error) {
	filter := database.Filter{}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.Featured != nil {
		filter["featured"] = *query.Featured
	}

	var posts []models.BlogPost
	err := r.store.Find(ctx, models.CollectionPosts, filter, database.FindOptions{
		SortField: "publishDate",
		SortDesc:  true,
		Limit:     query.Limit,
	}, &posts)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	return posts, nil
}

func (r *PostStore) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return r.findOne(ctx, database.Filter{"id": id})
}

func (r *PostStore) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.findOne(ctx, database.Filter{"slug": slug})
}

func (r *PostStore) findOne(ctx context.Context, filter database.Filter) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.store.FindOne(ctx, models.CollectionPosts, filter, &post)
	if errors.Is(err, database.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostStore) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := database.Filter{"slug": slug}
	if excludeID != "" {
		filter["id"] = database.NotEqual{Value: excludeID}
	}
	post, err := r.findOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return post != nil, nil
}

func (r *PostStore) Create(ctx context.Context, post *models.BlogPost) error {
	return r.store.InsertOne(ctx, models.CollectionPosts, post)
}

func (r *PostStore) Update(ctx context.Context, post *models.BlogPost) (bool, error) {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	n, err := r.store.UpdateOne(ctx, models.CollectionPosts, database.Filter{"id": post.ID}, map[string]any{
		"title":     post.Title,
		"slug":      post.Slug,
		"excerpt":   post.Excerpt,
		"content":   post.Content,
		"category":  post.Category,
		"tags":      tags,
		"readTime":  post.ReadTime,
		"featured":  post.Featured,
		"updatedAt": post.UpdatedAt,
	}, false)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.store.DeleteOne(ctx, models.CollectionPosts, database.Filter{"id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostStore) Categories(ctx context.Context) ([]string, error) {
	return r.store.Distinct(ctx, models.CollectionPosts, "category")
}

var _ PostRepository = (*PostStore)(nil)
