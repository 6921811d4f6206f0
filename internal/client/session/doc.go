// Package session holds the single in-memory source of truth for "who is
// the current user".
//
// A Store owns the active user, the bearer token, the loading state and the
// two derived modal flags (verification required, account banned). Every
// mutation goes through one path that first writes the durable mirror and
// then swaps the in-memory state, recomputes the flags and bumps a
// generation counter. Asynchronous callers (session revalidation) capture
// the generation and apply their result only if nothing changed in the
// meantime.
//
// Stores are safe for concurrent use. Listeners registered with Subscribe
// receive a Snapshot after every change.
package session
