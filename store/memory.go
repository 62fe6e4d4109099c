package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemStore is an in-process Store. Transactions take an exclusive lock for
// their whole duration, which serializes writers the way the document
// database does per document, only coarser. Documents are stored as BSON so
// decode behavior matches MongoStore exactly.
//
// Inside RunTransaction only the Txn handle may touch the store; calling the
// outer Store methods from the mutator would deadlock.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string]map[string][]byte{}}
}

func (s *MemStore) Get(ctx context.Context, collection, id string, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(collection, id, dest)
}

func (s *MemStore) GetAll(ctx context.Context, collection string) ([]bson.Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.data[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]bson.Raw, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, bson.Raw(coll[id]))
	}
	return docs, nil
}

func (s *MemStore) Save(ctx context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(collection, id, doc)
}

func (s *MemStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.data[collection]
	if !ok {
		return false, nil
	}
	if _, ok := coll[id]; !ok {
		return false, nil
	}
	delete(coll, id)
	return true, nil
}

func (s *MemStore) AddToSet(ctx context.Context, collection, id, field string, values []any, set map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[collection][id]
	if !ok {
		return fmt.Errorf("addToSet %s/%s: %w", collection, id, ErrNoDoc)
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("addToSet %s/%s: %w", collection, id, err)
	}

	existing, _ := doc[field].(bson.A)
	for _, v := range values {
		found := false
		for _, e := range existing {
			if reflect.DeepEqual(e, v) {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, v)
		}
	}
	doc[field] = existing
	for k, v := range set {
		doc[k] = v
	}

	return s.set(collection, id, doc)
}

func (s *MemStore) RunTransaction(ctx context.Context, fn func(txn Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stored byte slices are never mutated in place, so a per-collection map
	// copy is a full rollback snapshot.
	snapshot := make(map[string]map[string][]byte, len(s.data))
	for name, coll := range s.data {
		clone := make(map[string][]byte, len(coll))
		for id, doc := range coll {
			clone[id] = doc
		}
		snapshot[name] = clone
	}

	if err := fn(&memTxn{s: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

type memTxn struct {
	s *MemStore
}

func (t *memTxn) Get(collection, id string, dest any) error {
	return t.s.get(collection, id, dest)
}

func (t *memTxn) Set(collection, id string, doc any) error {
	return t.s.set(collection, id, doc)
}

func (t *memTxn) Delete(collection, id string) error {
	delete(t.s.data[collection], id)
	return nil
}

// get and set assume the caller holds the appropriate lock.

func (s *MemStore) get(collection, id string, dest any) error {
	raw, ok := s.data[collection][id]
	if !ok {
		return fmt.Errorf("get %s/%s: %w", collection, id, ErrNoDoc)
	}
	if err := bson.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MemStore) set(collection, id string, doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	if s.data[collection] == nil {
		s.data[collection] = map[string][]byte{}
	}
	s.data[collection][id] = raw
	return nil
}
