package models

import "time"

// PublicProfile is another user's profile as shown on a profile page.
type PublicProfile struct {
	User
	// Banned is true when the profile owner is banned at fetch time.
	Banned bool `json:"-"`
}

// NewPublicProfile maps a payload and evaluates the ban at now.
func NewPublicProfile(p UserPayload, now time.Time) PublicProfile {
	u := p.ToUser(now)
	return PublicProfile{User: u, Banned: u.IsBannedAt(now)}
}

// VisibleTo reports whether viewer may see the profile: public profiles are
// visible to everyone, private ones only to their owner.
func (p PublicProfile) VisibleTo(viewer *User) bool {
	if p.IsProfilePublic {
		return true
	}
	return viewer != nil && viewer.ID == p.ID
}
