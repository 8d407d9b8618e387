// Package api implements the HTTP handlers exposed by the server. Handlers
// decode and validate request DTOs, call into the service and task layers,
// and map errors to status codes through errors.go so internal error types
// never leak to clients.
package api
