// Package client is the REST transport to the C++ Hub backend.
//
// # Overview
//
// Client is the transport contract used by the auth gateway; HTTPClient is
// its net/http implementation. Every request carries a fresh X-Request-ID
// and, when a token is supplied, an Authorization bearer header. No timeout
// is applied; callers bound requests through context.Context.
//
// # Error Handling
//
// Failures are reported as Go errors matchable with errors.Is:
// ErrUnavailable (transport failure or unreadable body), ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrConflict and ErrRejected (any other
// non-2xx). Non-2xx answers are returned as *APIError carrying the
// backend's message and field errors.
package client
