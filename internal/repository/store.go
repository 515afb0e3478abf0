// Package repository handles all interactions with the database.
//
// It hides the document store behind DocumentStore so the service layer
// never sees a driver type. Three implementations exist:
//   - MongoStore: collections in a MongoDB database
//   - PostgresStore: JSONB tables created by the embedded migrations
//   - MemoryStore: process-local maps, for development and tests
//
// Every method is exactly one round trip to the backing store.
package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"github.com/deppfellow/portfolio-backend/internal/config"
	"github.com/deppfellow/portfolio-backend/internal/database"
	"github.com/deppfellow/portfolio-backend/internal/model"
)

// DocumentStore is the contract every backend satisfies.
//
// Single-document reads return model.ErrNotFound when nothing matched.
// Malformed ids are not checked up front: they reach the backend and
// come back as ordinary errors.
type DocumentStore interface {
	// FindAll returns every document of collection in the store's natural order.
	FindAll(ctx context.Context, collection string) ([]model.Document, error)

	// FindByID returns the document with the given identity.
	FindByID(ctx context.Context, collection, id string) (model.Document, error)

	// InsertOne stores doc and reports the identity the store assigned.
	InsertOne(ctx context.Context, collection string, doc model.Document) (model.InsertResult, error)

	// UpdateByID sets the given fields on the identified document.
	UpdateByID(ctx context.Context, collection, id string, fields model.Document) (model.UpdateResult, error)

	// DeleteByID removes the identified document.
	DeleteByID(ctx context.Context, collection, id string) (model.DeleteResult, error)

	// FindSingleton returns the only document of a singleton collection.
	FindSingleton(ctx context.Context, collection string) (model.Document, error)

	// ReplaceSingleton replaces the singleton document, creating it if absent.
	ReplaceSingleton(ctx context.Context, collection string, doc model.Document) (model.UpdateResult, error)
}

// NewStore returns the DocumentStore matching the driver db was opened with.
func NewStore(db *database.Database) (DocumentStore, error) {
	switch db.Driver {
	case config.DriverMongo:
		return NewMongoStore(db.Mongo), nil
	case config.DriverPostgres:
		return NewPostgresStore(db.Pool), nil
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("no document store for driver %q", db.Driver)
	}
}

// knownCollection guards table/collection names that end up in queries.
func knownCollection(name string) bool {
	for _, c := range model.Collections {
		if c == name {
			return true
		}
	}
	return false
}

// ErrImmutableID rejects updates that would change a document's _id,
// the way MongoDB refuses a $set on the path '_id'.
var ErrImmutableID = errors.New("performing an update on the path '_id' would modify the immutable field '_id'")

// checkImmutableID fails when fields sets _id to anything but current.
func checkImmutableID(fields model.Document, current any) error {
	if newID, set := fields[model.IDField]; set && !reflect.DeepEqual(newID, current) {
		return errors.WithStack(ErrImmutableID)
	}
	return nil
}
