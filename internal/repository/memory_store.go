package repository

import (
	"context"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/deppfellow/portfolio-backend/internal/model"
)

// MemoryStore keeps documents in process memory.
//
// It follows the MongoDB backend's observable behavior: ObjectID hex
// identities, malformed ids rejected with an error, insertion order
// as natural order, $set-style updates.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order []string
	docs  map[string]model.Document
}

// NewMemoryStore returns an empty store with every known collection.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{collections: make(map[string]*memoryCollection, len(model.Collections))}
	for _, name := range model.Collections {
		s.collections[name] = &memoryCollection{docs: make(map[string]model.Document)}
	}
	return s
}

func (s *MemoryStore) collection(name string) (*memoryCollection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, errors.Errorf("unknown collection %q", name)
	}
	return c, nil
}

func (s *MemoryStore) FindAll(_ context.Context, collection string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, cloneDocument(c.docs[id]))
	}
	return docs, nil
}

func (s *MemoryStore) FindByID(_ context.Context, collection, id string) (model.Document, error) {
	if _, err := objectID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	doc, ok := c.docs[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// InsertOne assigns a new ObjectID unless doc carries a string _id,
// which is kept as given.
func (s *MemoryStore) InsertOne(_ context.Context, collection string, doc model.Document) (model.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return model.InsertResult{}, err
	}

	id := primitive.NewObjectID().Hex()
	if given, ok := doc.ID().(string); ok && given != "" {
		id = given
	}
	if _, exists := c.docs[id]; exists {
		return model.InsertResult{}, errors.Errorf("duplicate key error collection: %s _id: %q", collection, id)
	}

	stored := cloneDocument(doc)
	stored[model.IDField] = id
	c.docs[id] = stored
	c.order = append(c.order, id)

	return model.InsertResult{InsertedID: id}, nil
}

func (s *MemoryStore) UpdateByID(_ context.Context, collection, id string, fields model.Document) (model.UpdateResult, error) {
	if _, err := objectID(id); err != nil {
		return model.UpdateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return model.UpdateResult{}, err
	}

	doc, ok := c.docs[id]
	if !ok {
		return model.UpdateResult{}, nil
	}

	if err := checkImmutableID(fields, doc.ID()); err != nil {
		return model.UpdateResult{}, err
	}

	res := model.UpdateResult{MatchedCount: 1}
	for k, v := range fields {
		if current, exists := doc[k]; exists && reflect.DeepEqual(current, v) {
			continue
		}
		doc[k] = cloneValue(v)
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, collection, id string) (model.DeleteResult, error) {
	if _, err := objectID(id); err != nil {
		return model.DeleteResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return model.DeleteResult{}, err
	}

	if _, ok := c.docs[id]; !ok {
		return model.DeleteResult{}, nil
	}

	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return model.DeleteResult{DeletedCount: 1}, nil
}

func (s *MemoryStore) FindSingleton(_ context.Context, collection string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	if len(c.order) == 0 {
		return nil, model.ErrNotFound
	}
	return cloneDocument(c.docs[c.order[0]]), nil
}

func (s *MemoryStore) ReplaceSingleton(_ context.Context, collection string, doc model.Document) (model.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return model.UpdateResult{}, err
	}

	replacement := cloneDocument(doc.WithoutID())

	if len(c.order) == 0 {
		id := primitive.NewObjectID().Hex()
		replacement[model.IDField] = id
		c.docs[id] = replacement
		c.order = []string{id}
		return model.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
	}

	id := c.order[0]
	replacement[model.IDField] = id

	res := model.UpdateResult{MatchedCount: 1}
	if !reflect.DeepEqual(c.docs[id], replacement) {
		res.ModifiedCount = 1
	}
	c.docs[id] = replacement
	return res, nil
}

func cloneDocument(doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(cloneDocument(val))
	case model.Document:
		return cloneDocument(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
