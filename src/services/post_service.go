package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zirvehikayem/blog-api/src/cache"
	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
)

// Field bounds for posts
const (
	maxTitleLen    = 200
	maxExcerptLen  = 500
	maxCategoryLen = 50
	maxListLimit   = 100
)

// PostServiceConfig carries the site settings posts depend on
type PostServiceConfig struct {
	Author             string
	AllCategoriesLabel string
	Location           *time.Location
}

// PostService handles blog post operations
type PostService struct {
	repo      repositories.PostRepository
	cache     cache.Cache
	analytics *AnalyticsService
	cfg       PostServiceConfig
	now       func() time.Time
	newID     func() string
}

// NewPostService creates a post service. A nil cache disables caching.
func NewPostService(repo repositories.PostRepository, cfg PostServiceConfig, c cache.Cache, analytics *AnalyticsService) *PostService {
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &PostService{
		repo:      repo,
		cache:     c,
		analytics: analytics,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// List returns posts newest first. A category equal to the
// all-categories label is treated as no filter.
func (s *PostService) List(ctx context.Context, category string, featured *bool, limit int64) ([]models.BlogPost, error) {
	if limit < 0 || limit > maxListLimit {
		return nil, &ValidationError{Fields: []FieldError{{Field: "limit", Message: fmt.Sprintf("must be between 0 and %d", maxListLimit)}}}
	}
	if category == s.cfg.AllCategoriesLabel {
		category = ""
	}

	posts, err := s.repo.List(ctx, models.PostQuery{Category: category, Featured: featured, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Featured returns featured posts newest first
func (s *PostService) Featured(ctx context.Context) ([]models.BlogPost, error) {
	featured := true
	return s.List(ctx, "", &featured, 0)
}

// GetBySlug returns the post with slug or ErrNotFound
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	return post, nil
}

// Categories returns the all-categories label followed by every
// category in use, sorted.
func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if hit, err := s.cache.Get(ctx, cache.KeyCategories, &cached); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("category cache read failed")
	} else if hit {
		return cached, nil
	}

	distinct, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	names := make([]string, 0, len(distinct))
	for _, c := range distinct {
		if c != "" && c != s.cfg.AllCategoriesLabel {
			names = append(names, c)
		}
	}
	sort.Strings(names)
	categories := append([]string{s.cfg.AllCategoriesLabel}, names...)

	if err := s.cache.Set(ctx, cache.KeyCategories, categories); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("category cache write failed")
	}
	return categories, nil
}

// Create validates input, derives slug and read time, and stores a new post
func (s *PostService) Create(ctx context.Context, input models.PostInput) (*models.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	category := strings.TrimSpace(input.Category)

	v := &validator{}
	checkText(v, "title", title, maxTitleLen)
	checkText(v, "excerpt", input.Excerpt, maxExcerptLen)
	checkText(v, "content", input.Content, 0)
	checkText(v, "category", category, maxCategoryLen)
	if err := v.err(); err != nil {
		return nil, err
	}

	base := GenerateSlug(title)
	slug, err := s.ensureUniqueSlug(ctx, base, "")
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	post := &models.BlogPost{
		ID:          s.newID(),
		Title:       title,
		Slug:        slug,
		Excerpt:     input.Excerpt,
		Content:     input.Content,
		Author:      s.cfg.Author,
		PublishDate: now.In(s.cfg.Location).Format("2006-01-02"),
		Category:    category,
		Tags:        normalizeTags(input.Tags),
		ReadTime:    CalculateReadTime(input.Content),
		Featured:    input.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(ctx, post)
	if errors.Is(err, database.ErrDuplicateKey) {
		// a concurrent writer took the slug between check and insert
		post.Slug = s.retrySlug(base)
		zerolog.Ctx(ctx).Warn().Str("slug", post.Slug).Msg("slug collided on insert, retrying")
		err = s.repo.Create(ctx, post)
	}
	if errors.Is(err, database.ErrDuplicateKey) {
		return nil, fmt.Errorf("post slug %q: %w", post.Slug, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.invalidateCategories(ctx)
	s.analytics.TrackPostPublished(ctx, *post)
	zerolog.Ctx(ctx).Info().Str("post_id", post.ID).Str("slug", post.Slug).Msg("post created")
	return post, nil
}

// Update applies the fields present in patch. A changed title re-derives
// the slug against other posts; changed content re-derives read time.
func (s *PostService) Update(ctx context.Context, id string, patch models.PostPatch) (*models.BlogPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}

	v := &validator{}
	titleChanged := false
	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		checkText(v, "title", title, maxTitleLen)
		titleChanged = title != post.Title
		post.Title = title
	}
	if patch.Excerpt.Set {
		checkText(v, "excerpt", patch.Excerpt.Value, maxExcerptLen)
		post.Excerpt = patch.Excerpt.Value
	}
	if patch.Content.Set {
		checkText(v, "content", patch.Content.Value, 0)
		post.Content = patch.Content.Value
		post.ReadTime = CalculateReadTime(post.Content)
	}
	if patch.Category.Set {
		category := strings.TrimSpace(patch.Category.Value)
		checkText(v, "category", category, maxCategoryLen)
		post.Category = category
	}
	if patch.Tags.Set {
		post.Tags = normalizeTags(patch.Tags.Value)
	}
	if patch.Featured.Set {
		post.Featured = patch.Featured.Value
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	base := GenerateSlug(post.Title)
	if titleChanged {
		if post.Slug, err = s.ensureUniqueSlug(ctx, base, id); err != nil {
			return nil, err
		}
	}
	post.UpdatedAt = s.timestamp()

	found, err := s.repo.Update(ctx, post)
	if errors.Is(err, database.ErrDuplicateKey) && titleChanged {
		post.Slug = s.retrySlug(base)
		zerolog.Ctx(ctx).Warn().Str("slug", post.Slug).Msg("slug collided on update, retrying")
		found, err = s.repo.Update(ctx, post)
	}
	if errors.Is(err, database.ErrDuplicateKey) {
		return nil, fmt.Errorf("post slug %q: %w", post.Slug, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}

	s.invalidateCategories(ctx)
	return post, nil
}

// Delete removes a post by id
func (s *PostService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if !deleted {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	s.invalidateCategories(ctx)
	return nil
}

// ensureUniqueSlug returns candidate if no other post owns it, otherwise
// candidate suffixed with the current Unix time. An empty candidate is
// always disambiguated.
func (s *PostService) ensureUniqueSlug(ctx context.Context, candidate, excludeID string) (string, error) {
	if candidate != "" {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return joinSlug(candidate, strconv.FormatInt(s.now().Unix(), 10)), nil
}

// retrySlug is used after a storage-level collision, when the
// timestamp suffix alone may already be taken.
func (s *PostService) retrySlug(base string) string {
	return joinSlug(base, strconv.FormatInt(s.now().Unix(), 10), s.newID()[:8])
}

func joinSlug(parts ...string) string {
	return strings.Trim(strings.Join(parts, "-"), "-")
}

func (s *PostService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *PostService) invalidateCategories(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyCategories); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("category cache invalidation failed")
	}
}

// checkText requires a non-blank value of at most max runes (0 = unbounded)
func checkText(v *validator, field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "must not be empty")
		return
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// normalizeTags trims tags and drops blanks and duplicates, keeping order
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
