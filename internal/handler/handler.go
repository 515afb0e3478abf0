// Package handler is the HTTP layer between the router and the services.
//
// Each handler binds its payload through the validation package, makes
// exactly one service call and writes the result as JSON. Errors are
// returned to the global error handler unchanged.
package handler
