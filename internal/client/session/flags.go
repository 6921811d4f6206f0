package session

import (
	"time"

	"github.com/cpphub/hubclient/internal/client/models"
)

// Flags are the modal states derived from the active user.
type Flags struct {
	ShowVerification bool
	ShowBan          bool
}

// DeriveFlags computes the modal flags of u at now. Both flags are false
// without a user; they are computed independently of each other.
func DeriveFlags(u *models.User, now time.Time) Flags {
	if u == nil {
		return Flags{}
	}
	return Flags{
		ShowVerification: !u.IsVerified,
		ShowBan:          u.IsBannedAt(now),
	}
}
