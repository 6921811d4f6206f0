package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cpphub/hubclient/internal/client/models"
	"github.com/cpphub/hubclient/internal/client/repositories/metadata"
	"github.com/cpphub/hubclient/internal/dbx"
	"github.com/cpphub/hubclient/internal/logging"
)

const (
	UserSlot  = "user"
	TokenSlot = "token"
)

// Record is a persisted session.
type Record struct {
	User  models.User
	Token string
}

type Adapter struct {
	db  *sql.DB
	log logging.Logger
}

func NewAdapter(db *sql.DB, log logging.Logger) *Adapter {
	return &Adapter{db: db, log: log}
}

// Save writes the user slot and, when token is non-nil, the token slot.
// A nil token leaves the stored token untouched.
func (a *Adapter) Save(ctx context.Context, user models.User, token *string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, UserSlot, data); err != nil {
			return err
		}
		if token != nil {
			if err := repo.Set(ctx, TokenSlot, []byte(*token)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes both slots.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(a.db).Delete(ctx, UserSlot, TokenSlot); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token returns the stored token, or "" when absent.
func (a *Adapter) Token(ctx context.Context) (string, error) {
	v, _, err := metadata.NewSQLiteRepository(a.db).Get(ctx, TokenSlot)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Load returns the persisted session, or nil when there is none. A session
// with only one slot present, an undecodable user or a blank token is
// treated as absent and both slots are cleared. Only storage failures are
// returned as errors.
func (a *Adapter) Load(ctx context.Context) (*Record, error) {
	repo := metadata.NewSQLiteRepository(a.db)

	userData, hasUser, err := repo.Get(ctx, UserSlot)
	if err != nil {
		return nil, err
	}
	tokenData, hasToken, err := repo.Get(ctx, TokenSlot)
	if err != nil {
		return nil, err
	}

	if !hasUser && !hasToken {
		return nil, nil
	}

	var user models.User
	switch {
	case !hasUser || !hasToken:
		a.log.Warn(ctx, "incomplete persisted session, clearing", "has_user", hasUser, "has_token", hasToken)
	case strings.TrimSpace(string(tokenData)) == "":
		a.log.Warn(ctx, "blank persisted token, clearing")
	default:
		if err := json.Unmarshal(userData, &user); err != nil {
			a.log.Warn(ctx, "malformed persisted user, clearing", "error", err)
			break
		}
		return &Record{User: user, Token: string(tokenData)}, nil
	}

	if err := a.Clear(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}
