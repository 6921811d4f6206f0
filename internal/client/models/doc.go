// Package models defines the client-side data models of the C++ Hub client:
// the active User, the raw backend payload it is mapped from, partial
// updates, and the public-safe profile of another user.
package models
