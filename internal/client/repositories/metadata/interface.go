// Package metadata stores small named values (the session slots) in the
// local SQLite database.
package metadata

import (
	"context"
)

// Repository is a string-keyed slot store. A missing key is not an error:
// Get reports it through the found flag.
type Repository interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
