package database

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

type memoryDoc map[string]any

// MemoryStore keeps documents in process. It enforces the same unique
// keys as the persistent backends and is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]memoryDoc
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]memoryDoc)}
}

func (s *MemoryStore) Health(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) Find(_ context.Context, collection string, filter Filter, opts FindOptions, out any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	f, err := normalizeFilter(filter)
	if err != nil {
		return err
	}

	s.mu.RLock()
	matches := make([]memoryDoc, 0)
	for _, doc := range s.collections[collection] {
		if f.matches(doc) {
			matches = append(matches, doc)
		}
	}
	s.mu.RUnlock()

	if opts.SortField != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			c := compareValues(matches[i][opts.SortField], matches[j][opts.SortField])
			if opts.SortDesc {
				return c > 0
			}
			return c < 0
		})
	}
	if opts.Limit > 0 && int64(len(matches)) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	return decode(matches, out)
}

func (s *MemoryStore) FindOne(_ context.Context, collection string, filter Filter, out any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	f, err := normalizeFilter(filter)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if f.matches(doc) {
			return decode(doc, out)
		}
	}
	return ErrNoDocument
}

func (s *MemoryStore) InsertOne(_ context.Context, collection string, doc any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	d, err := toDoc(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(collection, d, -1); err != nil {
		return err
	}
	s.collections[collection] = append(s.collections[collection], d)
	return nil
}

func (s *MemoryStore) UpdateOne(_ context.Context, collection string, filter Filter, patch map[string]any, upsert bool) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	f, err := normalizeFilter(filter)
	if err != nil {
		return 0, err
	}
	p, err := toDoc(patch)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if !f.matches(doc) {
			continue
		}
		merged := make(memoryDoc, len(doc)+len(p))
		for k, v := range doc {
			merged[k] = v
		}
		for k, v := range p {
			merged[k] = v
		}
		if err := s.checkUnique(collection, merged, i); err != nil {
			return 0, err
		}
		docs[i] = merged
		return 1, nil
	}

	if !upsert {
		return 0, nil
	}

	inserted := make(memoryDoc, len(f.eq)+len(p))
	for k, v := range f.eq {
		inserted[k] = v
	}
	for k, v := range p {
		inserted[k] = v
	}
	if err := s.checkUnique(collection, inserted, -1); err != nil {
		return 0, err
	}
	s.collections[collection] = append(docs, inserted)
	return 1, nil
}

func (s *MemoryStore) DeleteOne(_ context.Context, collection string, filter Filter) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	f, err := normalizeFilter(filter)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if f.matches(doc) {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) Distinct(_ context.Context, collection, field string) ([]string, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, doc := range s.collections[collection] {
		str, ok := doc[field].(string)
		if !ok {
			continue
		}
		if _, dup := seen[str]; dup {
			continue
		}
		seen[str] = struct{}{}
		values = append(values, str)
	}
	return values, nil
}

// checkUnique must be called with the write lock held; skip is the index
// of the document being replaced, or -1.
func (s *MemoryStore) checkUnique(collection string, doc memoryDoc, skip int) error {
	for _, field := range uniqueKeys[collection] {
		value, ok := doc[field]
		if !ok {
			continue
		}
		for i, other := range s.collections[collection] {
			if i == skip {
				continue
			}
			if reflect.DeepEqual(other[field], value) {
				return fmt.Errorf("%w: %s.%s", ErrDuplicateKey, collection, field)
			}
		}
	}
	return nil
}

type memoryFilter struct {
	eq map[string]any
	ne map[string]any
}

func (f memoryFilter) matches(doc memoryDoc) bool {
	for k, v := range f.eq {
		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	for k, v := range f.ne {
		if current, ok := doc[k]; ok && reflect.DeepEqual(current, v) {
			return false
		}
	}
	return true
}

func normalizeFilter(filter Filter) (memoryFilter, error) {
	eq := make(map[string]any)
	ne := make(map[string]any)
	for k, v := range filter {
		if n, ok := v.(NotEqual); ok {
			ne[k] = n.Value
		} else {
			eq[k] = v
		}
	}

	// normalize through JSON so comparisons match stored values
	eqDoc, err := toDoc(eq)
	if err != nil {
		return memoryFilter{}, err
	}
	neDoc, err := toDoc(ne)
	if err != nil {
		return memoryFilter{}, err
	}
	return memoryFilter{eq: eqDoc, ne: neDoc}, nil
}

func toDoc(v any) (memoryDoc, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc memoryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document must be an object: %w", err)
	}
	if doc == nil {
		doc = memoryDoc{}
	}
	return doc, nil
}

func decode(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// compareValues orders JSON scalars; RFC 3339 strings compare as instants.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		ta, errA := time.Parse(time.RFC3339Nano, av)
		tb, errB := time.Parse(time.RFC3339Nano, bv)
		if errA == nil && errB == nil {
			return ta.Compare(tb)
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case nil:
		if b == nil {
			return 0
		}
		return -1
	}
	return 0
}
