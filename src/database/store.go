package database

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoDocument is returned by FindOne when nothing matches
	ErrNoDocument = errors.New("no document found")

	// ErrDuplicateKey is returned when a write violates a unique index
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownCollection is returned for collections the store does not manage
	ErrUnknownCollection = errors.New("unknown collection")
)

// Filter selects documents by field equality. A NotEqual value
// matches documents whose field differs from (or lacks) the value.
type Filter map[string]any

// NotEqual excludes documents whose field equals Value
type NotEqual struct {
	Value any
}

// FindOptions controls ordering and size of Find results
type FindOptions struct {
	SortField string
	SortDesc  bool
	Limit     int64
}

// DocumentStore is the persistence contract every backend implements.
// Documents are plain structs tagged for both json and bson.
type DocumentStore interface {
	// Find decodes all matching documents into out, which must be a pointer to a slice.
	Find(ctx context.Context, collection string, filter Filter, opts FindOptions, out any) error
	// FindOne decodes the first match into out or returns ErrNoDocument.
	FindOne(ctx context.Context, collection string, filter Filter, out any) error
	InsertOne(ctx context.Context, collection string, doc any) error
	// UpdateOne sets the patch fields on the first match and returns the
	// number of documents matched (or inserted when upsert is true).
	UpdateOne(ctx context.Context, collection string, filter Filter, patch map[string]any, upsert bool) (int64, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)
	// Distinct returns the distinct string values of field.
	Distinct(ctx context.Context, collection, field string) ([]string, error)
	Health(ctx context.Context) error
	Close(ctx context.Context) error
}

// uniqueKeys lists the unique indexes per collection
var uniqueKeys = map[string][]string{
	"blog_posts":       {"id", "slug"},
	"contact_messages": {"id"},
	"about_content":    {"key"},
}

// secondaryKeys lists non-unique indexes per collection
var secondaryKeys = map[string][]string{
	"blog_posts":       {"category", "featured", "publishDate"},
	"contact_messages": {"createdAt", "status"},
}

func checkCollection(collection string) error {
	if _, ok := uniqueKeys[collection]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return nil
}

// Config selects and configures a backend
type Config struct {
	Driver        string // mongo, postgres, memory
	MongoURL      string
	MongoDatabase string
	PostgresURL   string
}

// Open connects to the configured backend and prepares its indexes.
func Open(ctx context.Context, cfg Config) (DocumentStore, error) {
	switch cfg.Driver {
	case "mongo", "mongodb", "":
		return NewMongoStore(ctx, cfg.MongoURL, cfg.MongoDatabase)
	case "postgres":
		return NewPostgresStore(ctx, cfg.PostgresURL)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
