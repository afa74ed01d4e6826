package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	textTemplate "text/template"

	"gopkg.in/yaml.v3"
)

//go:embed emails/*
var emailTemplates embed.FS

// EmailConfig holds email configuration from config.yaml
type EmailConfig struct {
	Branding struct {
		Name     string `yaml:"name"`
		Website  string `yaml:"website"`
		AdminURL string `yaml:"admin_url"`
	} `yaml:"branding"`

	Design struct {
		PrimaryColor string `yaml:"primary_color"`
		TextColor    string `yaml:"text_color"`
		MutedColor   string `yaml:"muted_color"`
		LightBg      string `yaml:"light_bg"`
		BorderColor  string `yaml:"border_color"`
	} `yaml:"design"`

	Subjects struct {
		ContactNotification string `yaml:"contact_notification"`
	} `yaml:"subjects"`

	ContactNotification struct {
		Intro      string `yaml:"intro"`
		ButtonText string `yaml:"button_text"`
		NoSubject  string `yaml:"no_subject"`
	} `yaml:"contact_notification"`
}

// LoadEmailConfig loads email configuration from the embedded config.yaml
func LoadEmailConfig() (*EmailConfig, error) {
	data, err := emailTemplates.ReadFile("emails/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read email config: %w", err)
	}

	var config EmailConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse email config: %w", err)
	}

	return &config, nil
}

// ContactNotificationData holds data for the new-message notification
type ContactNotificationData struct {
	// Message data
	Name       string
	Email      string
	Subject    string
	Message    string
	ReceivedAt string

	// Config-based data
	BrandName  string
	AdminURL   string
	Intro      string
	ButtonText string

	// Design colors
	PrimaryColor string
	TextColor    string
	MutedColor   string
	LightBg      string
	BorderColor  string
}

// RenderContactNotificationHTML renders the HTML body; user input is escaped
func RenderContactNotificationHTML(data ContactNotificationData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/contact-notification.html")
	if err != nil {
		return "", fmt.Errorf("failed to read contact-notification.html: %w", err)
	}

	tmpl, err := template.New("contact-notification").Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse contact-notification template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute contact-notification template: %w", err)
	}

	return buf.String(), nil
}

// RenderContactNotificationText renders the plain text body
func RenderContactNotificationText(data ContactNotificationData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/contact-notification.txt")
	if err != nil {
		return "", fmt.Errorf("failed to read contact-notification.txt: %w", err)
	}

	tmpl, err := textTemplate.New("contact-notification-text").Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse contact-notification text template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute contact-notification text template: %w", err)
	}

	return buf.String(), nil
}
