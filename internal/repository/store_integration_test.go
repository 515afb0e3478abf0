//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/deppfellow/portfolio-backend/internal/config"
	"github.com/deppfellow/portfolio-backend/internal/database"
	"github.com/deppfellow/portfolio-backend/internal/model"
)

const (
	postgresImage = "postgres:17-alpine"
	mongoImage    = "mongo:7"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)

	port, err := c.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	require.NoError(t, err)

	return host, port.Port()
}

func openStore(t *testing.T, cfg *config.Config) DocumentStore {
	t.Helper()
	logger := zerolog.Nop()
	ctx := context.Background()

	require.NoError(t, database.Migrate(ctx, &logger, cfg))

	db, err := database.New(cfg, &logger, nil)
	require.NoError(t, err)
	require.NoError(t, db.Ping(ctx))
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func postgresStore(t *testing.T) DocumentStore {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "portfolio",
			"POSTGRES_PASSWORD": "portfolio",
			"POSTGRES_DB":       "portfolio",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverPostgres,
			URI:         fmt.Sprintf("postgres://portfolio:portfolio@%s:%s/portfolio?sslmode=disable", host, port),
			Name:        "portfolio",
			PingTimeout: 10 * time.Second,
		},
	}
	return openStore(t, cfg)
}

func mongoStore(t *testing.T) DocumentStore {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        mongoImage,
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
	})

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverMongo,
			URI:         fmt.Sprintf("mongodb://%s:%s", host, port),
			Name:        "portfolio-test",
			PingTimeout: 10 * time.Second,
		},
	}
	return openStore(t, cfg)
}

// idString renders whatever identity a backend assigned as the string a
// client would send back in the path.
func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

func exerciseStore(t *testing.T, store DocumentStore) {
	ctx := context.Background()

	res, err := store.InsertOne(ctx, model.CollectionSkills, model.Document{"name": "Go", "level": "expert"})
	require.NoError(t, err)
	id := idString(res.InsertedID)

	doc, err := store.FindByID(ctx, model.CollectionSkills, id)
	require.NoError(t, err)
	assert.Equal(t, "Go", doc["name"])

	upd, err := store.UpdateByID(ctx, model.CollectionSkills, id, model.Document{"level": "senior"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.MatchedCount)
	assert.Equal(t, int64(1), upd.ModifiedCount)

	_, err = store.UpdateByID(ctx, model.CollectionSkills, id, model.Document{"_id": "64b7f0c2a1b2c3d4e5f60718", "level": "lead"})
	require.Error(t, err, "changing _id must fail on every backend")

	same, err := store.UpdateByID(ctx, model.CollectionSkills, id, model.Document{"level": "senior"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), same.MatchedCount)
	assert.Equal(t, int64(0), same.ModifiedCount)

	all, err := store.FindAll(ctx, model.CollectionSkills)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	del, err := store.DeleteByID(ctx, model.CollectionSkills, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)

	del, err = store.DeleteByID(ctx, model.CollectionSkills, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), del.DeletedCount)

	_, err = store.FindByID(ctx, model.CollectionSkills, id)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = store.FindByID(ctx, model.CollectionSkills, "not-an-id")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)

	_, err = store.FindSingleton(ctx, model.CollectionLinks)
	assert.ErrorIs(t, err, model.ErrNotFound)

	links := model.Document{"github": "https://github.com/x"}
	first, err := store.ReplaceSingleton(ctx, model.CollectionLinks, links)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.UpsertedCount)

	second, err := store.ReplaceSingleton(ctx, model.CollectionLinks, links)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.MatchedCount)
	assert.Equal(t, int64(0), second.ModifiedCount)

	got, err := store.FindSingleton(ctx, model.CollectionLinks)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/x", got["github"])

	linkDocs, err := store.FindAll(ctx, model.CollectionLinks)
	require.NoError(t, err)
	assert.Len(t, linkDocs, 1)
}

func TestPostgresStore(t *testing.T) {
	exerciseStore(t, postgresStore(t))
}

func TestMongoStore(t *testing.T) {
	exerciseStore(t, mongoStore(t))
}
