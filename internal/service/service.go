// Package service contains the business logic.
//
// It sits between the handler and repository layers: each method makes
// one repository call and turns its outcome into a response envelope or
// an *errs.HTTPError.
package service
