// Package persistence mirrors the session (user record and bearer token)
// into the local SQLite database so it survives restarts.
//
// The two values live in independent slots of the metadata table:
//
//	user   JSON-encoded models.User
//	token  raw bearer token
//
// Writes of both slots happen in one transaction. Load treats a missing or
// malformed slot as a logged-out state and wipes both slots; it never
// returns a decoding error.
package persistence
