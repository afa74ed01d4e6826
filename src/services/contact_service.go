package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
)

const (
	maxNameLen    = 100
	maxEmailLen   = 254
	maxSubjectLen = 200
	maxMessageLen = 2000
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// ContactService accepts contact form messages and lets admins triage them.
// Email and message bodies are encrypted at rest when an Encryptor is set.
type ContactService struct {
	repo      repositories.MessageRepository
	encryptor *Encryptor
	notifier  ContactNotifier
	analytics *AnalyticsService
	now       func() time.Time
	newID     func() string
	pending   sync.WaitGroup
}

// NewContactService creates a contact service. encryptor and notifier may be nil.
func NewContactService(repo repositories.MessageRepository, encryptor *Encryptor, notifier ContactNotifier, analytics *AnalyticsService) *ContactService {
	return &ContactService{
		repo:      repo,
		encryptor: encryptor,
		notifier:  notifier,
		analytics: analytics,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Submit validates and stores a message with status "new"
func (s *ContactService) Submit(ctx context.Context, input models.ContactInput) (*models.ContactMessage, error) {
	msg := models.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}

	v := &validator{}
	checkText(v, "name", msg.Name, maxNameLen)
	switch {
	case utf8.RuneCountInString(msg.Email) > maxEmailLen:
		v.add("email", fmt.Sprintf("must be at most %d characters", maxEmailLen))
	case !emailPattern.MatchString(msg.Email):
		v.add("email", "must be a valid email address")
	}
	if utf8.RuneCountInString(msg.Subject) > maxSubjectLen {
		v.add("subject", fmt.Sprintf("must be at most %d characters", maxSubjectLen))
	}
	checkText(v, "message", msg.Message, maxMessageLen)
	if err := v.err(); err != nil {
		return nil, err
	}

	msg.ID = s.newID()
	msg.Status = models.MessageStatusNew
	msg.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	stored, err := s.seal(msg)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Str("message_id", msg.ID).Msg("contact message received")
	s.analytics.TrackContactSubmitted(ctx, msg.Email, msg.Subject != "")
	s.notify(ctx, msg)

	return &msg, nil
}

// List returns messages newest first, optionally filtered by status
func (s *ContactService) List(ctx context.Context, status string) ([]models.ContactMessage, error) {
	filter := models.MessageStatus(status)
	if status != "" && !filter.Valid() {
		return nil, invalidStatus()
	}

	messages, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	for i := range messages {
		s.open(ctx, &messages[i])
	}
	return messages, nil
}

// UpdateStatus sets the triage status of a message. The status is
// checked before the store is touched.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) error {
	next := models.MessageStatus(status)
	if !next.Valid() {
		return invalidStatus()
	}

	found, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	if !found {
		return fmt.Errorf("message %s: %w", id, ErrNotFound)
	}

	zerolog.Ctx(ctx).Info().Str("message_id", id).Str("status", status).Msg("message status updated")
	return nil
}

// Wait blocks until in-flight notifications finish
func (s *ContactService) Wait() {
	s.pending.Wait()
}

func (s *ContactService) notify(ctx context.Context, msg models.ContactMessage) {
	if s.notifier == nil {
		return
	}

	// the request may finish before the mail is out
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.notifier.NotifyContactMessage(ctx, msg); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("message_id", msg.ID).Msg("contact notification failed")
		}
	}()
}

func (s *ContactService) seal(msg models.ContactMessage) (models.ContactMessage, error) {
	var err error
	if msg.Email, err = s.encryptor.EncryptString(msg.Email); err != nil {
		return msg, fmt.Errorf("failed to encrypt email: %w", err)
	}
	if msg.Message, err = s.encryptor.EncryptString(msg.Message); err != nil {
		return msg, fmt.Errorf("failed to encrypt message: %w", err)
	}
	return msg, nil
}

// open decrypts in place; undecryptable fields are left as stored
func (s *ContactService) open(ctx context.Context, msg *models.ContactMessage) {
	if email, err := s.encryptor.DecryptString(msg.Email); err == nil {
		msg.Email = email
	} else {
		zerolog.Ctx(ctx).Warn().Err(err).Str("message_id", msg.ID).Msg("could not decrypt email")
	}
	if body, err := s.encryptor.DecryptString(msg.Message); err == nil {
		msg.Message = body
	} else {
		zerolog.Ctx(ctx).Warn().Err(err).Str("message_id", msg.ID).Msg("could not decrypt message")
	}
}

func invalidStatus() error {
	return &ValidationError{Fields: []FieldError{{
		Field:   "status",
		Message: fmt.Sprintf("must be one of %s, %s, %s", models.MessageStatusNew, models.MessageStatusRead, models.MessageStatusReplied),
	}}}
}
