package platform

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const shortIDLength = 10

func NewID() string {
	return uuid.New().String()
}

// NewShortID returns a 10-character lower-case alphanumeric identifier,
// used for project and portal-user IDs where a full UUID is overkill.
func NewShortID() string {
	b := make([]byte, shortIDLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i := range b {
		b[i] = shortIDAlphabet[b[i]%byte(len(shortIDAlphabet))]
	}
	return string(b)
}

// ClientSlug derives a URL-safe slug from a client name, folding
// accented characters ("Adopción" -> "adopcion").
func ClientSlug(name string) string {
	return slug.Make(name)
}
