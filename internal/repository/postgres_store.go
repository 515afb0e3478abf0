package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/deppfellow/portfolio-backend/internal/model"
)

// PostgresStore keeps each collection in a table of JSONB documents
// (see database/migrations). Identities are uuids.
//
// The id parameter is cast by the server, so a malformed id surfaces as
// an invalid_text_representation error rather than a miss.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func table(name string) (string, error) {
	if !knownCollection(name) {
		return "", errors.Errorf("unknown collection %q", name)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

// withID exposes the row id under the document identity field.
func withID(id string, doc model.Document) model.Document {
	if doc == nil {
		doc = model.Document{}
	}
	doc[model.IDField] = id
	return doc
}

func (s *PostgresStore) FindAll(ctx context.Context, collection string) ([]model.Document, error) {
	t, err := table(collection)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT id::text, doc FROM %s ORDER BY created_at, id`, t))
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", collection)
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Document, error) {
		var (
			id  string
			doc model.Document
		)
		if err := row.Scan(&id, &doc); err != nil {
			return nil, err
		}
		return withID(id, doc), nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", collection)
	}

	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, collection, id string) (model.Document, error) {
	t, err := table(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id::text, doc FROM %s WHERE id = CAST($1::text AS uuid)`, t)
	return s.queryOne(ctx, collection, query, id)
}

func (s *PostgresStore) InsertOne(ctx context.Context, collection string, doc model.Document) (model.InsertResult, error) {
	t, err := table(collection)
	if err != nil {
		return model.InsertResult{}, err
	}

	var id string
	query := fmt.Sprintf(`INSERT INTO %s (doc) VALUES ($1::jsonb) RETURNING id::text`, t)
	if err := s.pool.QueryRow(ctx, query, doc.WithoutID()).Scan(&id); err != nil {
		return model.InsertResult{}, errors.Wrapf(err, "insert into %s", collection)
	}
	return model.InsertResult{InsertedID: id}, nil
}

// UpdateByID merges fields into the stored document.
//
// A row counts as modified only when the merge changes it, so an update
// that sets every field to its current value reports matched=1, modified=0.
// An _id other than the row's own is rejected, as the other backends do.
func (s *PostgresStore) UpdateByID(ctx context.Context, collection, id string, fields model.Document) (model.UpdateResult, error) {
	t, err := table(collection)
	if err != nil {
		return model.UpdateResult{}, err
	}

	if err := checkImmutableID(fields, id); err != nil {
		return model.UpdateResult{}, errors.Wrapf(err, "update %s", collection)
	}

	query := fmt.Sprintf(`
WITH target AS (
    SELECT id, doc FROM %[1]s WHERE id = CAST($1::text AS uuid)
), updated AS (
    UPDATE %[1]s AS t SET doc = target.doc || $2::jsonb
    FROM target
    WHERE t.id = target.id AND (target.doc || $2::jsonb) IS DISTINCT FROM target.doc
    RETURNING t.id
)
SELECT (SELECT count(*) FROM target), (SELECT count(*) FROM updated)`, t)

	var res model.UpdateResult
	if err := s.pool.QueryRow(ctx, query, id, fields.WithoutID()).Scan(&res.MatchedCount, &res.ModifiedCount); err != nil {
		return model.UpdateResult{}, errors.Wrapf(err, "update %s", collection)
	}
	return res, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, collection, id string) (model.DeleteResult, error) {
	t, err := table(collection)
	if err != nil {
		return model.DeleteResult{}, err
	}

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = CAST($1::text AS uuid)`, t), id)
	if err != nil {
		return model.DeleteResult{}, errors.Wrapf(err, "delete from %s", collection)
	}
	return model.DeleteResult{DeletedCount: tag.RowsAffected()}, nil
}

func (s *PostgresStore) FindSingleton(ctx context.Context, collection string) (model.Document, error) {
	t, err := table(collection)
	if err != nil {
		return nil, err
	}

	return s.queryOne(ctx, collection, fmt.Sprintf(`SELECT id::text, doc FROM %s LIMIT 1`, t))
}

// ReplaceSingleton relies on the single-row constraint of the links table.
// xmax = 0 identifies a freshly inserted row.
func (s *PostgresStore) ReplaceSingleton(ctx context.Context, collection string, doc model.Document) (model.UpdateResult, error) {
	t, err := table(collection)
	if err != nil {
		return model.UpdateResult{}, err
	}

	query := fmt.Sprintf(`
WITH prev AS (
    SELECT doc FROM %[1]s WHERE singleton
), up AS (
    INSERT INTO %[1]s (singleton, doc) VALUES (true, $1::jsonb)
    ON CONFLICT (singleton) DO UPDATE SET doc = EXCLUDED.doc
    RETURNING id::text, (xmax = 0) AS inserted
)
SELECT up.id, up.inserted, COALESCE((SELECT prev.doc <> $1::jsonb FROM prev), false)
FROM up`, t)

	var (
		id       string
		inserted bool
		changed  bool
	)
	if err := s.pool.QueryRow(ctx, query, doc.WithoutID()).Scan(&id, &inserted, &changed); err != nil {
		return model.UpdateResult{}, errors.Wrapf(err, "replace %s", collection)
	}

	if inserted {
		return model.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
	}

	res := model.UpdateResult{MatchedCount: 1}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *PostgresStore) queryOne(ctx context.Context, collection, query string, args ...any) (model.Document, error) {
	var (
		id  string
		doc model.Document
	)
	err := s.pool.QueryRow(ctx, query, args...).Scan(&id, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select from %s", collection)
	}
	return withID(id, doc), nil
}
