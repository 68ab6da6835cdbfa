package field

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// PseudonymPrefix starts every redacted author identity.
const PseudonymPrefix = "anon-"

// Pseudonym returns the stable redacted identity of an author email.
// It depends on the email alone, case-insensitively.
func Pseudonym(email string) string {
	sum := xxhash.Sum64String(strings.ToLower(strings.TrimSpace(email)))
	return fmt.Sprintf("%s%08x", PseudonymPrefix, uint32(sum))
}

// IsPseudonym reports whether v looks like a value produced by Pseudonym.
func IsPseudonym(v string) bool {
	hex, ok := strings.CutPrefix(v, PseudonymPrefix)
	if !ok || len(hex) != 8 {
		return false
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// SanitizeName returns the display name for an author.
// With privacy on, the name is ignored and replaced by Pseudonym(email), so
// every spelling of one author's name redacts the same way.
func SanitizeName(name, email string, privacy bool) string {
	if !privacy {
		return name
	}
	return Pseudonym(email)
}

// Sanitizer memoizes SanitizeName for one session.
// The cache only saves work; every entry equals a fresh SanitizeName call.
type Sanitizer struct {
	privacy bool
	mu      sync.Mutex
	cache   map[string]string
}

// NewSanitizer creates a Sanitizer for the given privacy mode.
func NewSanitizer(privacy bool) *Sanitizer {
	return &Sanitizer{privacy: privacy, cache: make(map[string]string)}
}

// Privacy reports whether names are redacted.
func (s *Sanitizer) Privacy() bool {
	return s.privacy
}

// Name returns the display name for (name, email).
func (s *Sanitizer) Name(name, email string) string {
	if !s.privacy {
		return name
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache[email]; ok {
		return v
	}
	v := SanitizeName(name, email, true)
	s.cache[email] = v
	return v
}
