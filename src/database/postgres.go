package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore keeps documents as JSONB rows, one table per collection
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects and initializes the schema
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initializeSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// NewPostgresStoreFromPool wraps an existing pool without touching the schema
func NewPostgresStoreFromPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) initializeSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	log.Info().Str("component", "database").Msg("postgres schema initialized")
	return nil
}

// Health pings the pool
func (s *PostgresStore) Health(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("database connection not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.pool.Ping(ctx)
}

// Close closes the pool
func (s *PostgresStore) Close(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filter Filter, opts FindOptions, out any) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	where, args, err := buildWhere(filter, nil)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT doc FROM %s WHERE %s", table, where)
	if opts.SortField != "" {
		args = append(args, opts.SortField)
		n := len(args)
		dir := "ASC"
		if opts.SortDesc {
			dir = "DESC"
		}
		// timestamps sort chronologically, everything else by jsonb ordering
		query += fmt.Sprintf(
			" ORDER BY CASE WHEN jsonb_typeof(doc->$%[1]d::text) = 'string' AND doc->>$%[1]d::text ~ '^\\d{4}-\\d{2}-\\d{2}T' THEN (doc->>$%[1]d::text)::timestamptz END %[2]s, doc->$%[1]d::text %[2]s, pk %[2]s",
			n, dir)
	} else {
		query += " ORDER BY pk"
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	var buf strings.Builder
	buf.WriteByte('[')
	first := true
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("find %s: scan: %w", collection, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		buf.Write(raw)
		first = false
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	buf.WriteByte(']')

	return json.Unmarshal([]byte(buf.String()), out)
}

func (s *PostgresStore) FindOne(ctx context.Context, collection string, filter Filter, out any) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	where, args, err := buildWhere(filter, nil)
	if err != nil {
		return err
	}

	var raw []byte
	err = s.pool.QueryRow(ctx, fmt.Sprintf("SELECT doc FROM %s WHERE %s ORDER BY pk LIMIT 1", table, where), args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoDocument
	}
	if err != nil {
		return fmt.Errorf("find one %s: %w", collection, err)
	}

	return json.Unmarshal(raw, out)
}

func (s *PostgresStore) InsertOne(ctx context.Context, collection string, doc any) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("insert %s: encode: %w", collection, err)
	}

	if _, err := s.pool.Exec(ctx, fmt.Sprintf("INSERT INTO %s (doc) VALUES ($1::jsonb)", table), string(data)); err != nil {
		return mapPgError(collection, err)
	}
	return nil
}

func (s *PostgresStore) UpdateOne(ctx context.Context, collection string, filter Filter, patch map[string]any, upsert bool) (int64, error) {
	table, err := tableName(collection)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(patch)
	if err != nil {
		return 0, fmt.Errorf("update %s: encode: %w", collection, err)
	}

	where, args, err := buildWhere(filter, []any{string(data)})
	if err != nil {
		return 0, err
	}

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(
		"UPDATE %s SET doc = doc || $1::jsonb WHERE pk = (SELECT pk FROM %s WHERE %s ORDER BY pk LIMIT 1)",
		table, table, where), args...)
	if err != nil {
		return 0, mapPgError(collection, err)
	}
	if tag.RowsAffected() > 0 || !upsert {
		return tag.RowsAffected(), nil
	}

	doc := make(map[string]any, len(filter)+len(patch))
	for k, v := range filter {
		if _, ok := v.(NotEqual); !ok {
			doc[k] = v
		}
	}
	for k, v := range patch {
		doc[k] = v
	}
	if err := s.InsertOne(ctx, collection, doc); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			// lost a race with a concurrent upsert; apply the patch to the winner
			return s.UpdateOne(ctx, collection, filter, patch, false)
		}
		return 0, err
	}
	return 1, nil
}

func (s *PostgresStore) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	table, err := tableName(collection)
	if err != nil {
		return 0, err
	}

	where, args, err := buildWhere(filter, nil)
	if err != nil {
		return 0, err
	}

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(
		"DELETE FROM %s WHERE pk = (SELECT pk FROM %s WHERE %s ORDER BY pk LIMIT 1)", table, table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", collection, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Distinct(ctx context.Context, collection, field string) ([]string, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		"SELECT DISTINCT doc->>$1::text FROM %s WHERE jsonb_typeof(doc->$1::text) = 'string'", table), field)
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", collection, field, err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", collection, field, err)
	}
	return values, nil
}

func tableName(collection string) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	return pgx.Identifier{collection}.Sanitize(), nil
}

// buildWhere renders the filter as jsonb containment tests, appending
// parameters after any already in args.
func buildWhere(filter Filter, args []any) (string, []any, error) {
	var clauses []string
	eq := make(map[string]any)

	for field, value := range filter {
		ne, ok := value.(NotEqual)
		if !ok {
			eq[field] = value
			continue
		}
		data, err := json.Marshal(map[string]any{field: ne.Value})
		if err != nil {
			return "", nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, string(data))
		clauses = append(clauses, fmt.Sprintf("NOT (doc @> $%d::jsonb)", len(args)))
	}

	if len(eq) > 0 {
		data, err := json.Marshal(eq)
		if err != nil {
			return "", nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, string(data))
		clauses = append(clauses, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
	}

	if len(clauses) == 0 {
		return "TRUE", args, nil
	}
	return strings.Join(clauses, " AND "), args, nil
}

// mapPgError turns unique violations (23505) into ErrDuplicateKey
func mapPgError(collection string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicateKey, collection, pgErr.ConstraintName)
	}
	return fmt.Errorf("write %s: %w", collection, err)
}
