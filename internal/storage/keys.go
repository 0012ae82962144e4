package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var unsafeKeyChars = regexp.MustCompile(`[^\w.\-]+`)

// SanitizeFilename collapses anything outside [A-Za-z0-9_.-] to underscores
// so arbitrary client filenames cannot escape their prefix.
func SanitizeFilename(name string) string {
	return unsafeKeyChars.ReplaceAllString(name, "_")
}

// DeriveFlatKey namespaces an upload under the shared video prefix with a
// millisecond timestamp to avoid collisions: videos/<unixms>-<name>.
func DeriveFlatKey(prefix, filename string, now time.Time) string {
	prefix = strings.TrimSuffix(prefix, "/")
	return fmt.Sprintf("%s/%d-%s", prefix, now.UnixMilli(), SanitizeFilename(filename))
}

// DeriveUserKey namespaces an upload under the owning user with a timestamp
// and random suffix: users/<uid>/<unixms>-<rand>.<ext>.
func DeriveUserKey(userID, filename string, now time.Time) string {
	ext := "mp4"
	if idx := strings.LastIndex(filename, "."); idx >= 0 && idx < len(filename)-1 {
		ext = strings.ToLower(filename[idx+1:])
	}
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("users/%s/%d-%s.%s", userID, now.UnixMilli(), suffix, ext)
}
