package validation

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cpphub/hubclient/internal/client/models"
)

// MaxPictureSize is the largest profile picture accepted for upload.
const MaxPictureSize = 5 << 20

var (
	pictureMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	pictureExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

// Picture checks a profile picture by size, extension and the content type
// sniffed from its first bytes (head needs at most 512 bytes).
func Picture(filename string, size int64, head []byte) models.FieldErrors {
	var errs models.FieldErrors

	if size > MaxPictureSize {
		errs.Add(FieldProfilePicture, "File size exceeds 5MB limit.")
		return errs
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !pictureExtensions[ext] {
		errs.Add(FieldProfilePicture, fmt.Sprintf("Invalid file extension: %q.", ext))
		return errs
	}

	if detected := http.DetectContentType(head); !pictureMimeTypes[detected] {
		errs.Add(FieldProfilePicture, fmt.Sprintf("Invalid file type (detected: %s).", detected))
	}
	return errs
}
