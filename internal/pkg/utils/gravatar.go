package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL builds the avatar URL for a member's email, falling back to
// the "mystery person" placeholder for addresses without a Gravatar. Size 0
// means the 80px slot the start page renders.
func GravatarURL(email string, size int) string {
	if size <= 0 {
		size = 80
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	digest := md5.Sum([]byte(normalized))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", digest, size)
}
