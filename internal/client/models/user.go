package models

import (
	"strings"
	"time"

	"github.com/cpphub/hubclient/internal/client/privilege"
)

// DefaultDisplayName is used when the backend sends neither a name nor a username.
const DefaultDisplayName = "User"

// User is the authenticated subject held by the session store and persisted
// in the user slot.
type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username *string `json:"username"`

	IsVerified bool `json:"is_verified"`
	// VerifiedAt is a UI convenience stamped when IsVerified flips true.
	// It is not authoritative.
	VerifiedAt *time.Time `json:"email_verified_at"`

	Bio               *string `json:"bio"`
	Nationality       *string `json:"nationality"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	IsProfilePublic   bool    `json:"is_profile_public"`

	Group privilege.Group `json:"group"`

	BannedUntil *time.Time `json:"banned_until"`
	BanReason   *string    `json:"ban_reason"`
}

// IsBannedAt reports whether the ban is active at now: BannedUntil must be
// present and strictly after now. A nil user is never banned.
func (u *User) IsBannedAt(now time.Time) bool {
	if u == nil || u.BannedUntil == nil {
		return false
	}
	return u.BannedUntil.After(now)
}

// IsPermanentlyBanned reports a ban reason without an end date.
func (u *User) IsPermanentlyBanned() bool {
	return u != nil && u.BannedUntil == nil && u.BanReason != nil
}

// DisplayUsername returns the username or an empty string.
func (u *User) DisplayUsername() string {
	if u == nil || u.Username == nil {
		return ""
	}
	return *u.Username
}

// Clone returns a deep copy so snapshots handed to listeners cannot alias
// store state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Username = cloneString(u.Username)
	c.Bio = cloneString(u.Bio)
	c.Nationality = cloneString(u.Nationality)
	c.ProfilePictureURL = cloneString(u.ProfilePictureURL)
	c.BanReason = cloneString(u.BanReason)
	c.VerifiedAt = cloneTime(u.VerifiedAt)
	c.BannedUntil = cloneTime(u.BannedUntil)
	return &c
}

// UserPayload is the user object as the backend sends it. Every field is
// optional; ToUser applies the fallback rules.
type UserPayload struct {
	ID                LooseID `json:"id"`
	Name              *string `json:"name"`
	Email             string  `json:"email"`
	Username          *string `json:"username"`
	IsVerified        Truthy  `json:"is_verified"`
	Bio               *string `json:"bio"`
	Nationality       *string `json:"nationality"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	IsProfilePublic   *Truthy `json:"is_profile_public"`
	Group             *string `json:"group"`
	GroupName         *string `json:"group_name"`
	BannedUntil       *string `json:"banned_until"`
	BanReason         *string `json:"ban_reason"`
}

// ToUser maps the payload onto User. Each fallback applies independently:
//
//   - name -> username -> "User"
//   - username -> local part of the email
//   - group -> group_name -> lowest group
//   - is_profile_public defaults to true
//
// now stamps VerifiedAt for verified users.
func (p UserPayload) ToUser(now time.Time) User {
	u := User{
		ID:                int64(p.ID),
		Email:             p.Email,
		IsVerified:        bool(p.IsVerified),
		Bio:               nonEmpty(p.Bio),
		Nationality:       nonEmpty(p.Nationality),
		ProfilePictureURL: nonEmpty(p.ProfilePictureURL),
		IsProfilePublic:   true,
		BanReason:         nonEmpty(p.BanReason),
		BannedUntil:       parseTimestamp(p.BannedUntil),
	}

	switch {
	case nonEmpty(p.Name) != nil:
		u.Name = *p.Name
	case nonEmpty(p.Username) != nil:
		u.Name = *p.Username
	default:
		u.Name = DefaultDisplayName
	}

	if username := nonEmpty(p.Username); username != nil {
		u.Username = username
	} else {
		local, _, _ := strings.Cut(p.Email, "@")
		u.Username = &local
	}

	switch {
	case nonEmpty(p.Group) != nil:
		u.Group = privilege.Group(*p.Group)
	case nonEmpty(p.GroupName) != nil:
		u.Group = privilege.Group(*p.GroupName)
	default:
		u.Group = privilege.Lowest()
	}

	if p.IsProfilePublic != nil {
		u.IsProfilePublic = bool(*p.IsProfilePublic)
	}

	if u.IsVerified {
		stamp := now.UTC()
		u.VerifiedAt = &stamp
	}
	return u
}

// UserPatch is a partial update merged onto the active user. Nil fields are
// left untouched.
type UserPatch struct {
	Name              *string
	Username          *string
	IsVerified        *bool
	Bio               *string
	Nationality       *string
	ProfilePictureURL *string
	IsProfilePublic   *bool
	Group             *privilege.Group
	BannedUntil       *time.Time
	BanReason         *string
}

// Apply merges the patch onto a copy of u. An explicit IsVerified=true
// stamps VerifiedAt with now, an explicit false clears it.
func (p UserPatch) Apply(u User, now time.Time) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = cloneString(p.Username)
	}
	if p.Bio != nil {
		u.Bio = cloneString(p.Bio)
	}
	if p.Nationality != nil {
		u.Nationality = cloneString(p.Nationality)
	}
	if p.ProfilePictureURL != nil {
		u.ProfilePictureURL = cloneString(p.ProfilePictureURL)
	}
	if p.IsProfilePublic != nil {
		u.IsProfilePublic = *p.IsProfilePublic
	}
	if p.Group != nil {
		u.Group = *p.Group
	}
	if p.BannedUntil != nil {
		u.BannedUntil = cloneTime(p.BannedUntil)
	}
	if p.BanReason != nil {
		u.BanReason = cloneString(p.BanReason)
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
		if *p.IsVerified {
			stamp := now.UTC()
			u.VerifiedAt = &stamp
		} else {
			u.VerifiedAt = nil
		}
	}
	return u
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp accepts RFC 3339 and the bare SQL datetime the backend
// emits for some rows (interpreted as UTC). Unparseable values yield nil.
func parseTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
