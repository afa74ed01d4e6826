package models

import "time"

// AboutContent is the singleton "about" document
type AboutContent struct {
	Key         string     `json:"-" bson:"key" yaml:"-"`
	Title       string     `json:"title" bson:"title" yaml:"title"`
	Subtitle    string     `json:"subtitle" bson:"subtitle" yaml:"subtitle"`
	Description string     `json:"description" bson:"description" yaml:"description"`
	Mission     string     `json:"mission" bson:"mission" yaml:"mission"`
	Values      []string   `json:"values" bson:"values" yaml:"values"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty" yaml:"-"`
}

// AboutPatch updates any subset of the about fields
type AboutPatch struct {
	Title       Optional[string]   `json:"title"`
	Subtitle    Optional[string]   `json:"subtitle"`
	Description Optional[string]   `json:"description"`
	Mission     Optional[string]   `json:"mission"`
	Values      Optional[[]string] `json:"values"`
}
