// Package storeerr classifies document store driver errors.
//
// Every store failure reaches the client as a 500 carrying the raw
// driver text. What this package adds is a stable, machine-friendly
// code (e.g. SKILL_INVALID_ID) for the logs and the error's Code
// field, so operators can tell a malformed id from a dead database
// without parsing driver messages.
package storeerr

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/deppfellow/portfolio-backend/internal/errs"
	"github.com/deppfellow/portfolio-backend/internal/model"
)

// Code is a backend-independent failure category.
type Code string

const (
	NotFound     Code = "NOT_FOUND"
	InvalidID    Code = "INVALID_ID"
	DuplicateKey Code = "ALREADY_EXISTS"
	Timeout      Code = "TIMEOUT"
	Canceled     Code = "CANCELED"
	Unavailable  Code = "UNAVAILABLE"
	Other        Code = "ERROR"
)

// PostgreSQL SQLSTATE values the classifier cares about.
// Class 08 (connection exception) is matched by prefix.
const (
	pgInvalidTextRepresentation = "22P02"
	pgUniqueViolation           = "23505"
	pgQueryCanceled             = "57014"
	pgAdminShutdown             = "57P01"
	pgConnectionClass           = "08"
)

// Classify maps err onto a Code by walking its chain.
func Classify(err error) Code {
	if err == nil {
		return ""
	}

	if errors.Is(err, model.ErrNotFound) {
		return NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPg(pgErr)
	}

	var badHex hex.InvalidByteError
	switch {
	case errors.Is(err, primitive.ErrInvalidHex), errors.As(err, &badHex):
		return InvalidID
	case mongo.IsDuplicateKeyError(err):
		return DuplicateKey
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return Timeout
	case errors.Is(err, context.Canceled):
		return Canceled
	case mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return Unavailable
	}

	return Other
}

func classifyPg(pgErr *pgconn.PgError) Code {
	switch {
	case pgErr.Code == pgInvalidTextRepresentation:
		return InvalidID
	case pgErr.Code == pgUniqueViolation:
		return DuplicateKey
	case pgErr.Code == pgQueryCanceled:
		return Timeout
	case pgErr.Code == pgAdminShutdown, strings.HasPrefix(pgErr.Code, pgConnectionClass):
		return Unavailable
	default:
		return Other
	}
}

// ErrorCode builds the application error code for a failure on collection.
//
// Example:
//
//	skills + InvalidID => SKILL_INVALID_ID
func ErrorCode(collection string, err error) string {
	domain := "RECORD"
	if collection != "" {
		domain = errs.MakeUpperCaseWithUnderscores(model.Label(collection))
	}
	return fmt.Sprintf("%s_%s", domain, Classify(err))
}

// HandleError wraps a store failure into the 500 the API returns.
//
// An *errs.HTTPError is passed through untouched. message is the
// operation-specific text, e.g. "Failed to fetch skills".
func HandleError(collection, message string, err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	e := errs.NewInternalServerError(message, err)
	e.Code = ErrorCode(collection, err)
	return e
}
