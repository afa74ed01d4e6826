package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/zirvehikayem/blog-api/src/cache"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
)

// AboutService serves the singleton about document, falling back to
// built-in defaults until an admin saves one.
type AboutService struct {
	repo     repositories.AboutRepository
	cache    cache.Cache
	defaults models.AboutContent
	now      func() time.Time
}

// NewAboutService creates an about service. A nil cache disables caching.
func NewAboutService(repo repositories.AboutRepository, defaults models.AboutContent, c cache.Cache) *AboutService {
	if c == nil {
		c = cache.Noop{}
	}
	return &AboutService{
		repo:     repo,
		cache:    c,
		defaults: defaults,
		now:      time.Now,
	}
}

// Get returns the stored document or a copy of the defaults
func (s *AboutService) Get(ctx context.Context) (*models.AboutContent, error) {
	var cached models.AboutContent
	if hit, err := s.cache.Get(ctx, cache.KeyAbout, &cached); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("about cache read failed")
	} else if hit {
		return &cached, nil
	}

	content, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.KeyAbout, *content); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("about cache write failed")
	}
	return content, nil
}

// Update merges patch onto the current document and saves it
func (s *AboutService) Update(ctx context.Context, patch models.AboutPatch) (*models.AboutContent, error) {
	content, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if patch.Title.Set {
		content.Title = patch.Title.Value
	}
	if patch.Subtitle.Set {
		content.Subtitle = patch.Subtitle.Value
	}
	if patch.Description.Set {
		content.Description = patch.Description.Value
	}
	if patch.Mission.Set {
		content.Mission = patch.Mission.Value
	}
	if patch.Values.Set {
		content.Values = slices.Clone(patch.Values.Value)
	}
	if content.Values == nil {
		content.Values = []string{}
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	content.UpdatedAt = &now

	if err := s.repo.Upsert(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to save about content: %w", err)
	}
	if err := s.cache.Delete(ctx, cache.KeyAbout); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("about cache invalidation failed")
	}

	zerolog.Ctx(ctx).Info().Msg("about content updated")
	return content, nil
}

func (s *AboutService) load(ctx context.Context) (*models.AboutContent, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get about content: %w", err)
	}
	if stored != nil {
		return stored, nil
	}

	content := s.defaults
	content.Values = slices.Clone(s.defaults.Values)
	content.UpdatedAt = nil
	return &content, nil
}
