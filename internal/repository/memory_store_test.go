package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/portfolio-backend/internal/config"
	"github.com/deppfellow/portfolio-backend/internal/database"
	"github.com/deppfellow/portfolio-backend/internal/model"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	res, err := store.InsertOne(ctx, model.CollectionSkills, model.Document{"name": "Go", "level": float64(5)})
	require.NoError(t, err)

	id, ok := res.InsertedID.(string)
	require.True(t, ok)

	doc, err := store.FindByID(ctx, model.CollectionSkills, id)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"_id": id, "name": "Go", "level": float64(5)}, doc)
}

func TestMemoryStoreDeleteTwice(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	res, err := store.InsertOne(ctx, model.CollectionBlogs, model.Document{"title": "hello"})
	require.NoError(t, err)
	id := res.InsertedID.(string)

	first, err := store.DeleteByID(ctx, model.CollectionBlogs, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.DeletedCount)

	second, err := store.DeleteByID(ctx, model.CollectionBlogs, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.DeletedCount)

	_, err = store.FindByID(ctx, model.CollectionBlogs, id)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	res, err := store.InsertOne(ctx, model.CollectionProjects, model.Document{"name": "cli", "stars": float64(1)})
	require.NoError(t, err)
	id := res.InsertedID.(string)

	tests := []struct {
		name         string
		id           string
		fields       model.Document
		wantMatched  int64
		wantModified int64
	}{
		{"changes a field", id, model.Document{"stars": float64(2)}, 1, 1},
		{"same value again", id, model.Document{"stars": float64(2)}, 1, 0},
		{"adds a field", id, model.Document{"url": "https://example.com"}, 1, 1},
		{"missing id", "64b7f0c2a1b2c3d4e5f60718", model.Document{"stars": float64(3)}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.UpdateByID(ctx, model.CollectionProjects, tt.id, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatched, got.MatchedCount)
			assert.Equal(t, tt.wantModified, got.ModifiedCount)
		})
	}

	all, err := store.FindAll(ctx, model.CollectionProjects)
	require.NoError(t, err)
	require.Len(t, all, 1, "updating a missing id must not create a document")
	assert.Equal(t, "https://example.com", all[0]["url"])
}

func TestMemoryStoreUpdateImmutableID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	res, err := store.InsertOne(ctx, model.CollectionSkills, model.Document{"name": "Go"})
	require.NoError(t, err)

	id := res.InsertedID.(string)

	_, err = store.UpdateByID(ctx, model.CollectionSkills, id, model.Document{"_id": "64b7f0c2a1b2c3d4e5f60718"})
	assert.ErrorIs(t, err, ErrImmutableID)

	same, err := store.UpdateByID(ctx, model.CollectionSkills, id, model.Document{"_id": id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), same.MatchedCount)
	assert.Equal(t, int64(0), same.ModifiedCount)
}

func TestCheckImmutableID(t *testing.T) {
	tests := []struct {
		name    string
		fields  model.Document
		current any
		wantErr bool
	}{
		{"no _id", model.Document{"name": "Go"}, "abc", false},
		{"same _id", model.Document{"_id": "abc"}, "abc", false},
		{"different _id", model.Document{"_id": "xyz"}, "abc", true},
		{"different type", model.Document{"_id": float64(1)}, "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkImmutableID(tt.fields, tt.current)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrImmutableID)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemoryStoreMalformedID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.FindByID(ctx, model.CollectionSkills, "not-an-id")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)

	_, err = store.UpdateByID(ctx, model.CollectionSkills, "not-an-id", model.Document{})
	assert.Error(t, err)

	_, err = store.DeleteByID(ctx, model.CollectionSkills, "not-an-id")
	assert.Error(t, err)
}

func TestMemoryStoreListCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const created, deleted = 7, 3
	ids := make([]string, 0, created)
	for i := 0; i < created; i++ {
		res, err := store.InsertOne(ctx, model.CollectionSkills, model.Document{"n": float64(i)})
		require.NoError(t, err)
		ids = append(ids, res.InsertedID.(string))
	}
	for _, id := range ids[:deleted] {
		_, err := store.DeleteByID(ctx, model.CollectionSkills, id)
		require.NoError(t, err)
	}

	docs, err := store.FindAll(ctx, model.CollectionSkills)
	require.NoError(t, err)
	require.Len(t, docs, created-deleted)

	// insertion order is the natural order
	for i, doc := range docs {
		assert.Equal(t, float64(deleted+i), doc["n"])
	}
}

func TestMemoryStoreEmptyList(t *testing.T) {
	docs, err := NewMemoryStore().FindAll(context.Background(), model.CollectionBlogs)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestMemoryStoreSingleton(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.FindSingleton(ctx, model.CollectionLinks)
	assert.ErrorIs(t, err, model.ErrNotFound)

	links := model.Document{"github": "https://github.com/x", "linkedin": "https://linkedin.com/in/x"}

	first, err := store.ReplaceSingleton(ctx, model.CollectionLinks, links)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.UpsertedCount)
	assert.NotNil(t, first.UpsertedID)

	second, err := store.ReplaceSingleton(ctx, model.CollectionLinks, links)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.MatchedCount)
	assert.Equal(t, int64(0), second.ModifiedCount)
	assert.Equal(t, int64(0), second.UpsertedCount)

	all, err := store.FindAll(ctx, model.CollectionLinks)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := store.FindSingleton(ctx, model.CollectionLinks)
	require.NoError(t, err)
	assert.Equal(t, links, got.WithoutID())
	assert.Equal(t, first.UpsertedID, got.ID())

	replaced, err := store.ReplaceSingleton(ctx, model.CollectionLinks, model.Document{"github": "https://github.com/y"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), replaced.ModifiedCount)

	got, err = store.FindSingleton(ctx, model.CollectionLinks)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"github": "https://github.com/y"}, got.WithoutID())
}

func TestMemoryStoreIsolatesCallerMaps(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	nested := map[string]any{"tags": []any{"a"}}
	res, err := store.InsertOne(ctx, model.CollectionBlogs, model.Document{"meta": nested})
	require.NoError(t, err)

	nested["tags"] = []any{"mutated"}

	doc, err := store.FindByID(ctx, model.CollectionBlogs, res.InsertedID.(string))
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, doc["meta"].(map[string]any)["tags"])
}

func TestMemoryStoreUnknownCollection(t *testing.T) {
	_, err := NewMemoryStore().FindAll(context.Background(), "users")
	assert.Error(t, err)
}

type recordingObserver struct {
	calls []string
	errs  []error
}

func (r *recordingObserver) ObserveStoreOperation(collection, operation string, _ time.Duration, err error) {
	r.calls = append(r.calls, fmt.Sprintf("%s.%s", collection, operation))
	r.errs = append(r.errs, err)
}

func TestRepositoriesObserveOperations(t *testing.T) {
	ctx := context.Background()
	observer := &recordingObserver{}
	repos := NewRepositoriesWithStore(NewMemoryStore(), observer)

	res, err := repos.Skills.Create(ctx, model.Document{"name": "Go"})
	require.NoError(t, err)
	_, err = repos.Skills.Get(ctx, res.InsertedID.(string))
	require.NoError(t, err)
	_, err = repos.Skills.Get(ctx, "bad")
	require.Error(t, err)
	_, err = repos.Links.Replace(ctx, model.Document{"x": "y"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"skills.insert_one",
		"skills.find_by_id",
		"skills.find_by_id",
		"links.replace_singleton",
	}, observer.calls)
	assert.NoError(t, observer.errs[1])
	assert.Error(t, observer.errs[2])
}

func TestNewStoreSelectsDriver(t *testing.T) {
	store, err := NewStore(&database.Database{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = NewStore(&database.Database{Driver: "cassandra"})
	assert.Error(t, err)
}
