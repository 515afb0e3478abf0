package repository

import (
	"context"
	"time"

	"github.com/deppfellow/portfolio-backend/internal/model"
	"github.com/deppfellow/portfolio-backend/internal/server"
)

// Observer receives the outcome of every store round trip.
// metrics.Manager implements it.
type Observer interface {
	ObserveStoreOperation(collection, operation string, duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveStoreOperation(string, string, time.Duration, error) {}

// Repositories is a container for all repository instances.
//
// Skills, projects and blogs are plain id-addressed collections;
// links is a singleton.
type Repositories struct {
	Skills   *CollectionRepository
	Projects *CollectionRepository
	Blogs    *CollectionRepository
	Links    *SingletonRepository
}

// NewRepositories builds every repository on top of one store opened
// from the server's database handle.
func NewRepositories(s *server.Server) (*Repositories, error) {
	store, err := NewStore(s.DB)
	if err != nil {
		return nil, err
	}

	var observer Observer = nopObserver{}
	if s.Metrics != nil {
		observer = s.Metrics
	}

	return NewRepositoriesWithStore(store, observer), nil
}

// NewRepositoriesWithStore builds every repository on top of store.
func NewRepositoriesWithStore(store DocumentStore, observer Observer) *Repositories {
	return &Repositories{
		Skills:   NewCollectionRepository(store, model.CollectionSkills, observer),
		Projects: NewCollectionRepository(store, model.CollectionProjects, observer),
		Blogs:    NewCollectionRepository(store, model.CollectionBlogs, observer),
		Links:    NewSingletonRepository(store, model.CollectionLinks, observer),
	}
}

// CollectionRepository addresses one id-keyed collection.
type CollectionRepository struct {
	store    DocumentStore
	name     string
	observer Observer
}

// NewCollectionRepository binds store to collection name.
func NewCollectionRepository(store DocumentStore, name string, observer Observer) *CollectionRepository {
	if observer == nil {
		observer = nopObserver{}
	}
	return &CollectionRepository{store: store, name: name, observer: observer}
}

// Name returns the collection name, e.g. "skills".
func (r *CollectionRepository) Name() string {
	return r.name
}

// observe is deferred with a pointer to the named error result so the
// final value is recorded.
func (r *CollectionRepository) observe(operation string, start time.Time, err *error) {
	r.observer.ObserveStoreOperation(r.name, operation, time.Since(start), *err)
}

func (r *CollectionRepository) List(ctx context.Context) (docs []model.Document, err error) {
	defer r.observe("find_all", time.Now(), &err)
	return r.store.FindAll(ctx, r.name)
}

func (r *CollectionRepository) Get(ctx context.Context, id string) (doc model.Document, err error) {
	defer r.observe("find_by_id", time.Now(), &err)
	return r.store.FindByID(ctx, r.name, id)
}

func (r *CollectionRepository) Create(ctx context.Context, doc model.Document) (res model.InsertResult, err error) {
	defer r.observe("insert_one", time.Now(), &err)
	return r.store.InsertOne(ctx, r.name, doc)
}

func (r *CollectionRepository) Update(ctx context.Context, id string, fields model.Document) (res model.UpdateResult, err error) {
	defer r.observe("update_by_id", time.Now(), &err)
	return r.store.UpdateByID(ctx, r.name, id, fields)
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) (res model.DeleteResult, err error) {
	defer r.observe("delete_by_id", time.Now(), &err)
	return r.store.DeleteByID(ctx, r.name, id)
}

// SingletonRepository addresses a collection holding at most one document.
type SingletonRepository struct {
	store    DocumentStore
	name     string
	observer Observer
}

// NewSingletonRepository binds store to a singleton collection.
func NewSingletonRepository(store DocumentStore, name string, observer Observer) *SingletonRepository {
	if observer == nil {
		observer = nopObserver{}
	}
	return &SingletonRepository{store: store, name: name, observer: observer}
}

// Name returns the collection name, e.g. "links".
func (r *SingletonRepository) Name() string {
	return r.name
}

func (r *SingletonRepository) Get(ctx context.Context) (doc model.Document, err error) {
	defer func(start time.Time) {
		r.observer.ObserveStoreOperation(r.name, "find_singleton", time.Since(start), err)
	}(time.Now())
	return r.store.FindSingleton(ctx, r.name)
}

func (r *SingletonRepository) Replace(ctx context.Context, doc model.Document) (res model.UpdateResult, err error) {
	defer func(start time.Time) {
		r.observer.ObserveStoreOperation(r.name, "replace_singleton", time.Since(start), err)
	}(time.Now())
	return r.store.ReplaceSingleton(ctx, r.name, doc)
}
