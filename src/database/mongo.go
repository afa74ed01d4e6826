package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore is the MongoDB backend
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects, pings and ensures indexes
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo URL is required")
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10*time.Second).
		SetMaxPoolSize(25))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	for collection, fields := range uniqueKeys {
		models := make([]mongo.IndexModel, 0, len(fields)+len(secondaryKeys[collection]))
		for _, field := range fields {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true),
			})
		}
		for _, field := range secondaryKeys[collection] {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}})
		}
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", collection, err)
		}
	}
	log.Info().Str("component", "database").Str("database", s.db.Name()).Msg("mongo indexes ensured")
	return nil
}

// Health pings the primary
func (s *MongoStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) collection(name string) (*mongo.Collection, error) {
	if err := checkCollection(name); err != nil {
		return nil, err
	}
	return s.db.Collection(name), nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter Filter, opts FindOptions, out any) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}

	findOpts := options.Find()
	if opts.SortField != "" {
		dir := 1
		if opts.SortDesc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: dir}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cur, err := coll.Find(ctx, toBSON(filter), findOpts)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("find %s: decode: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter Filter, out any) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}

	err = coll.FindOne(ctx, toBSON(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocument
	}
	if err != nil {
		return fmt.Errorf("find one %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc any) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return mapMongoError(collection, err)
	}
	return nil
}

func (s *MongoStore) UpdateOne(ctx context.Context, collection string, filter Filter, patch map[string]any, upsert bool) (int64, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return 0, err
	}

	res, err := coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": patch}, options.Update().SetUpsert(upsert))
	if err != nil {
		return 0, mapMongoError(collection, err)
	}
	return res.MatchedCount + res.UpsertedCount, nil
}

func (s *MongoStore) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Distinct(ctx context.Context, collection, field string) ([]string, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	raw, err := coll.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", collection, field, err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			values = append(values, str)
		}
	}
	return values, nil
}

func toBSON(filter Filter) bson.M {
	m := bson.M{}
	for field, value := range filter {
		if ne, ok := value.(NotEqual); ok {
			m[field] = bson.M{"$ne": ne.Value}
			continue
		}
		m[field] = value
	}
	return m
}

func mapMongoError(collection string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, collection)
	}
	return fmt.Errorf("write %s: %w", collection, err)
}
