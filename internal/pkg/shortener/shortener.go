package shortener

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// 62 characters: 0-9, a-z, A-Z
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ArticleSuffixLength is the number of random characters appended to article slugs.
const ArticleSuffixLength = 12

// GenerateSecureSlug creates a cryptographically secure random Base62 slug.
func GenerateSecureSlug(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid slug length: %d", length)
	}

	// Rejection sampling to avoid modulo bias.
	// 248 is the largest multiple of 62 below 256.
	const maxRandomByte = 248

	out := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			out[written] = alphabet[int(b)%len(alphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(out), nil
}

// ArticleSlug turns a title into a lower-case URL slug with a random suffix,
// e.g. "Hello World" -> "hello-world-k3x9q0ab7zmp".
func ArticleSlug(title string) (string, error) {
	suffix, err := GenerateSecureSlug(ArticleSuffixLength)
	if err != nil {
		return "", err
	}
	return strings.ToLower(slug.Make(title + "-" + suffix)), nil
}
