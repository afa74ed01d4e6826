package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/models"
)

func seedPosts(t *testing.T, repo *PostStore) {
	t.Helper()
	ctx := context.Background()
	posts := []models.BlogPost{
		{ID: "1", Slug: "eski", Title: "Eski", Category: "Kariyer", PublishDate: "2024-01-10"},
		{ID: "2", Slug: "yeni", Title: "Yeni", Category: "Girişim", PublishDate: "2024-03-02", Featured: true},
		{ID: "3", Slug: "orta", Title: "Orta", Category: "Kariyer", PublishDate: "2024-02-15"},
	}
	for i := range posts {
		require.NoError(t, repo.Create(ctx, &posts[i]))
	}
}

func TestPostStore_ListOrdersByPublishDate(t *testing.T) {
	repo := NewPostStore(database.NewMemoryStore())
	seedPosts(t, repo)

	posts, err := repo.List(context.Background(), models.PostQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"yeni", "orta", "eski"}, []string{posts[0].Slug, posts[1].Slug, posts[2].Slug})
}

func TestPostStore_ListFilters(t *testing.T) {
	repo := NewPostStore(database.NewMemoryStore())
	seedPosts(t, repo)
	ctx := context.Background()

	posts, err := repo.List(ctx, models.PostQuery{Category: "Kariyer", Limit: 1})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "orta", posts[0].Slug)

	featured := true
	posts, err = repo.List(ctx, models.PostQuery{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "yeni", posts[0].Slug)

	posts, err = repo.List(ctx, models.PostQuery{Category: "Yok"})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostStore_SlugExistsExcludesSelf(t *testing.T) {
	repo := NewPostStore(database.NewMemoryStore())
	seedPosts(t, repo)
	ctx := context.Background()

	exists, err := repo.SlugExists(ctx, "eski", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "eski", "1")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.SlugExists(ctx, "eski", "2")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostStore_UpdateAndDelete(t *testing.T) {
	repo := NewPostStore(database.NewMemoryStore())
	seedPosts(t, repo)
	ctx := context.Background()

	post, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, post)

	post.Title = "Güncel"
	post.Tags = []string{"go"}
	ok, err := repo.Update(ctx, post)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetBySlug(ctx, "eski")
	require.NoError(t, err)
	assert.Equal(t, "Güncel", got.Title)
	assert.Equal(t, []string{"go"}, got.Tags)

	ok, err = repo.Update(ctx, &models.BlogPost{ID: "missing"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMessageStore_ListNewestFirst(t *testing.T) {
	repo := NewMessageStore(database.NewMemoryStore())
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		status := models.MessageStatusNew
		if id == "b" {
			status = models.MessageStatusRead
		}
		require.NoError(t, repo.Create(ctx, &models.ContactMessage{
			ID: id, Name: "n", Email: "e@x.io", Message: "m", Status: status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	unread, err := repo.List(ctx, models.MessageStatusNew)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	ok, err := repo.UpdateStatus(ctx, "a", models.MessageStatusReplied)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(ctx, "zzz", models.MessageStatusReplied)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAboutStore_Upsert(t *testing.T) {
	repo := NewAboutStore(database.NewMemoryStore())
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	now := time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx, &models.AboutContent{Title: "Bir", Values: []string{"x"}, UpdatedAt: &now}))
	require.NoError(t, repo.Upsert(ctx, &models.AboutContent{Title: "İki", UpdatedAt: &now}))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "İki", got.Title)
	assert.Empty(t, got.Values)
}
