// Package model holds the shapes exchanged between the store and the API.
//
// Portfolio content is schema-less: a document is whatever key/value
// object the client posted, plus the "_id" the store assigned to it.
package model

import (
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IDField is the key under which a document's identity is exposed.
const IDField = "_id"

// Document is an open key/value record.
type Document map[string]any

// ID returns the document identity, or nil when it has none yet.
func (d Document) ID() any {
	return d[IDField]
}

// WithoutID returns a shallow copy of d minus its identity field.
func (d Document) WithoutID() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// InsertResult reports the identity assigned to a newly created document.
type InsertResult struct {
	InsertedID any `json:"insertedId"`
}

// UpdateResult reports how many documents an update touched.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// ErrNotFound is returned by single-document reads that matched nothing.
var ErrNotFound = errors.New("document not found")

// Collection names inside the portfolio database.
const (
	CollectionSkills   = "skills"
	CollectionProjects = "projects"
	CollectionBlogs    = "blogs"
	CollectionLinks    = "links"
)

// Collections lists every collection the store must provide.
var Collections = []string{
	CollectionSkills,
	CollectionProjects,
	CollectionBlogs,
	CollectionLinks,
}

// Label turns a collection name into the singular, capitalized noun used
// in response messages: "skills" becomes "Skill", "links" stays "Links".
func Label(collection string) string {
	name := collection
	if collection != CollectionLinks && strings.HasSuffix(name, "s") && len(name) > 1 {
		name = name[:len(name)-1]
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// MessageResponse is the body of update and delete confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ResultResponse is a confirmation carrying the raw store result.
type ResultResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result"`
}

// StoredResponse is a create response kept for Idempotency-Key replays.
type StoredResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}
