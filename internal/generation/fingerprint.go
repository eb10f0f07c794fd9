package generation

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Fingerprint returns a stable hex digest of the lesson input. The digest
// covers the template text and every variable in key order, so any change
// to the material a dialogue was generated from changes the fingerprint.
// Cached dialogue entries store this value; a mismatch against the current
// lesson means the entry is stale.
func (l *LessonInput) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(l.Template))

	keys := make([]string, 0, len(l.Variables))
	for k := range l.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// A separator between fields keeps adjacent values from colliding
	// ("ab"+"c" vs "a"+"bc").
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(l.Variables[k]))
	}

	return hex.EncodeToString(h.Sum(nil))
}
