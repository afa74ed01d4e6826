package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/templates"
)

// ContactNotifier is told about every accepted contact message
type ContactNotifier interface {
	NotifyContactMessage(ctx context.Context, msg models.ContactMessage) error
}

// EmailService sends transactional email via Mailgun
type EmailService struct {
	mg        *mailgun.MailgunImpl
	fromEmail string
	fromName  string
	notifyTo  string
	loc       *time.Location
}

// EmailConfig configures the Mailgun sender
type EmailConfig struct {
	Domain    string
	APIKey    string
	FromEmail string
	FromName  string
	NotifyTo  string
	EUregion  bool
	Location  *time.Location
}

// NewEmailService creates a new email service with Mailgun configuration
func NewEmailService(cfg EmailConfig) *EmailService {
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.EUregion {
		mg.SetAPIBase(mailgun.APIBaseEU)
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &EmailService{
		mg:        mg,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		notifyTo:  cfg.NotifyTo,
		loc:       loc,
	}
}

// contactNotificationData builds template data from config and message
func contactNotificationData(config *templates.EmailConfig, msg models.ContactMessage, loc *time.Location) (string, templates.ContactNotificationData) {
	subject := msg.Subject
	if subject == "" {
		subject = config.ContactNotification.NoSubject
	}

	return fmt.Sprintf(config.Subjects.ContactNotification, subject), templates.ContactNotificationData{
		Name:         msg.Name,
		Email:        msg.Email,
		Subject:      subject,
		Message:      msg.Message,
		ReceivedAt:   msg.CreatedAt.In(loc).Format("02.01.2006 15:04"),
		BrandName:    config.Branding.Name,
		AdminURL:     config.Branding.AdminURL,
		Intro:        config.ContactNotification.Intro,
		ButtonText:   config.ContactNotification.ButtonText,
		PrimaryColor: config.Design.PrimaryColor,
		TextColor:    config.Design.TextColor,
		MutedColor:   config.Design.MutedColor,
		LightBg:      config.Design.LightBg,
		BorderColor:  config.Design.BorderColor,
	}
}

// NotifyContactMessage emails the site owner about a new contact message
func (s *EmailService) NotifyContactMessage(ctx context.Context, msg models.ContactMessage) error {
	config, err := templates.LoadEmailConfig()
	if err != nil {
		return err
	}

	subject, data := contactNotificationData(config, msg, s.loc)

	htmlBody, err := templates.RenderContactNotificationHTML(data)
	if err != nil {
		return err
	}
	textBody, err := templates.RenderContactNotificationText(data)
	if err != nil {
		return err
	}

	message := s.mg.NewMessage(
		fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		subject,
		textBody,
		s.notifyTo,
	)
	message.SetHtml(htmlBody)
	message.SetReplyTo(msg.Email)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, _, err := s.mg.Send(ctxWithTimeout, message); err != nil {
		return fmt.Errorf("failed to send contact notification to %s: %w", s.notifyTo, err)
	}
	return nil
}

var _ ContactNotifier = (*EmailService)(nil)
