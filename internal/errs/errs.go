// Package errs define custom error types and utilities.
//
// Its purpose is to give every failure leaving the API the same shape:
//
//	{ "message": "Skill not found" }
//	{ "message": "Failed to fetch skills", "error": "<driver error>" }
//
// so clients receive consistent error messages regardless of
// which layer produced them.
package errs
