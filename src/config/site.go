package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zirvehikayem/blog-api/src/models"
	"gopkg.in/yaml.v3"
)

//go:embed site.default.yaml
var defaultSiteYAML []byte

// Site is the content and identity configuration loaded from YAML.
// It is built once at startup and treated as read-only afterwards.
type Site struct {
	Settings struct {
		Author             string `yaml:"author"`
		AllCategoriesLabel string `yaml:"all_categories_label"`
		Timezone           string `yaml:"timezone"`
	} `yaml:"site"`

	Admins []models.Identity   `yaml:"admins"`
	About  models.AboutContent `yaml:"about"`

	location *time.Location
}

// LoadSite reads the site file at path, or the built-in defaults when path is empty
func LoadSite(path string) (*Site, error) {
	data := defaultSiteYAML
	if path != "" {
		content, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return nil, fmt.Errorf("failed to read site config: %w", err)
		}
		data = content
	}
	return ParseSite(data)
}

// ParseSite parses and validates site YAML, filling unset values from the defaults
func ParseSite(data []byte) (*Site, error) {
	var defaults Site
	if err := yaml.Unmarshal(defaultSiteYAML, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse built-in site config: %w", err)
	}

	site := defaults
	site.Admins = nil
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	if site.Settings.Author == "" {
		site.Settings.Author = defaults.Settings.Author
	}
	if site.Settings.AllCategoriesLabel == "" {
		site.Settings.AllCategoriesLabel = defaults.Settings.AllCategoriesLabel
	}
	if site.Settings.Timezone == "" {
		site.Settings.Timezone = defaults.Settings.Timezone
	}

	loc, err := time.LoadLocation(site.Settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", site.Settings.Timezone, err)
	}
	site.location = loc

	seen := make(map[string]bool, len(site.Admins))
	for i := range site.Admins {
		id := &site.Admins[i]
		id.Username = strings.TrimSpace(id.Username)
		if id.Username == "" {
			return nil, fmt.Errorf("admins[%d]: username is required", i)
		}
		if id.PasswordHash == "" {
			return nil, fmt.Errorf("admins[%d]: password_hash is required", i)
		}
		if seen[id.Username] {
			return nil, fmt.Errorf("admins[%d]: duplicate username %q", i, id.Username)
		}
		seen[id.Username] = true
		if id.Role == "" {
			id.Role = models.RoleAdmin
		}
	}

	return &site, nil
}

// Location is the time zone used for publish dates
func (s *Site) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}
	return s.location
}
