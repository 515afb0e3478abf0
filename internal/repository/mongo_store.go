package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/deppfellow/portfolio-backend/internal/model"
)

// MongoStore keeps each collection in a MongoDB collection of the same name.
// Identities are ObjectIDs.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps an open database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) collection(name string) (*mongo.Collection, error) {
	if !knownCollection(name) {
		return nil, errors.Errorf("unknown collection %q", name)
	}
	return s.db.Collection(name), nil
}

// objectID parses a hex identity. A malformed id is a store failure, not
// a bad request: the error is returned as is.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(err, "invalid id %q", id)
	}
	return oid, nil
}

func (s *MongoStore) FindAll(ctx context.Context, collection string) ([]model.Document, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", collection)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrapf(err, "decode %s", collection)
	}

	docs := make([]model.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, model.Document(m))
	}
	return docs, nil
}

func (s *MongoStore) FindByID(ctx context.Context, collection, id string) (model.Document, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	return findOne(ctx, coll, bson.M{"_id": oid})
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc model.Document) (model.InsertResult, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return model.InsertResult{}, err
	}

	if doc == nil {
		doc = model.Document{}
	}

	res, err := coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return model.InsertResult{}, errors.Wrapf(err, "insert into %s", collection)
	}
	return model.InsertResult{InsertedID: res.InsertedID}, nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, collection, id string, fields model.Document) (model.UpdateResult, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return model.UpdateResult{}, err
	}

	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}

	if fields == nil {
		fields = model.Document{}
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return model.UpdateResult{}, errors.Wrapf(err, "update %s", collection)
	}
	return updateResult(res), nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, collection, id string) (model.DeleteResult, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return model.DeleteResult{}, err
	}

	oid, err := objectID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return model.DeleteResult{}, errors.Wrapf(err, "delete from %s", collection)
	}
	return model.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func (s *MongoStore) FindSingleton(ctx context.Context, collection string) (model.Document, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	return findOne(ctx, coll, bson.D{})
}

// ReplaceSingleton upserts against an empty filter so the collection
// never grows past one document. The stored _id is preserved.
func (s *MongoStore) ReplaceSingleton(ctx context.Context, collection string, doc model.Document) (model.UpdateResult, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return model.UpdateResult{}, err
	}

	res, err := coll.ReplaceOne(ctx, bson.D{}, bson.M(doc.WithoutID()), options.Replace().SetUpsert(true))
	if err != nil {
		return model.UpdateResult{}, errors.Wrapf(err, "replace %s", collection)
	}
	return updateResult(res), nil
}

func findOne(ctx context.Context, coll *mongo.Collection, filter any) (model.Document, error) {
	var m bson.M
	err := coll.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find one in %s", coll.Name())
	}
	return model.Document(m), nil
}

func updateResult(res *mongo.UpdateResult) model.UpdateResult {
	return model.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}
