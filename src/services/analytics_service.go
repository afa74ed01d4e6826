package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/posthog/posthog-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zirvehikayem/blog-api/src/models"
)

// HashEmail returns a hex-encoded SHA-256 hash of the email for use as PostHog distinct ID
func HashEmail(email string) string {
	h := sha256.Sum256([]byte(email))
	return fmt.Sprintf("%x", h)
}

// AnalyticsService handles all product analytics tracking
type AnalyticsService struct {
	client      posthog.Client
	enabled     bool
	environment string
}

type posthogLogger struct{}

func (l posthogLogger) Success(m posthog.APIMessage) {
	log.Info().Str("type", fmt.Sprintf("%T", m)).Msg("PostHog event delivered")
}

func (l posthogLogger) Failure(m posthog.APIMessage, err error) {
	log.Error().Err(err).Str("type", fmt.Sprintf("%T", m)).Msg("PostHog delivery failed")
}

// AnalyticsConfig holds analytics configuration
type AnalyticsConfig struct {
	PostHogAPIKey string
	PostHogHost   string
	Enabled       bool
	Environment   string
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(cfg AnalyticsConfig) (*AnalyticsService, error) {
	if !cfg.Enabled {
		return &AnalyticsService{enabled: false}, nil
	}

	if cfg.PostHogAPIKey == "" {
		return &AnalyticsService{enabled: false}, nil
	}

	client, err := posthog.NewWithConfig(
		cfg.PostHogAPIKey,
		posthog.Config{
			Endpoint:  cfg.PostHogHost,
			Interval:  30 * time.Second,
			BatchSize: 100,
			Callback:  posthogLogger{},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostHog client: %w", err)
	}

	env := cfg.Environment
	if env == "" {
		env = "production"
	}

	return &AnalyticsService{
		client:      client,
		enabled:     true,
		environment: env,
	}, nil
}

// Close flushes pending events and closes client
func (s *AnalyticsService) Close() error {
	if s == nil || !s.enabled {
		return nil
	}
	return s.client.Close()
}

// TrackEvent captures a generic event
func (s *AnalyticsService) TrackEvent(ctx context.Context, distinctID, event string, properties map[string]interface{}) {
	if s == nil || !s.enabled {
		return
	}

	// Add common properties
	if properties == nil {
		properties = make(map[string]interface{})
	}
	properties["timestamp"] = time.Now().Unix()
	properties["environment"] = s.environment

	if err := s.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event", event).Msg("PostHog enqueue failed")
	} else {
		zerolog.Ctx(ctx).Debug().Str("event", event).Str("distinct_id", distinctID).Msg("PostHog event enqueued")
	}
}

// TrackAdminLogin tracks a successful sign-in
func (s *AnalyticsService) TrackAdminLogin(ctx context.Context, username string) {
	s.TrackEvent(ctx, "admin_"+username, "admin_login", nil)
}

// TrackPostPublished tracks a newly created post
func (s *AnalyticsService) TrackPostPublished(ctx context.Context, post models.BlogPost) {
	s.TrackEvent(ctx, "site", "post_published", map[string]interface{}{
		"slug":     post.Slug,
		"category": post.Category,
		"featured": post.Featured,
	})
}

// TrackContactSubmitted tracks a contact form submission without storing the address
func (s *AnalyticsService) TrackContactSubmitted(ctx context.Context, email string, hasSubject bool) {
	s.TrackEvent(ctx, "email_"+HashEmail(email), "contact_submitted", map[string]interface{}{
		"has_subject": hasSubject,
	})
}
