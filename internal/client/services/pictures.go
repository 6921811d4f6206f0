package services

import (
	"strings"
)

// ProfilePictureURL resolves a stored picture reference against the backend
// origin. Absolute URLs pass through; relative references are served by
// filename from the picture endpoint; no reference yields the default image.
func ProfilePictureURL(baseURL string, ref *string) string {
	base := strings.TrimRight(baseURL, "/")
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return base + "/uploads/profile_pictures/default_profile.png"
	}
	r := strings.TrimSpace(*ref)
	if strings.HasPrefix(r, "http://") || strings.HasPrefix(r, "https://") {
		return r
	}
	filename := r[strings.LastIndex(r, "/")+1:]
	return base + "/api/profile-pictures/" + filename
}
