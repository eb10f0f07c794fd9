// Package dialogue serves the per-user, per-day AI lesson dialogue. Entries
// are cached under a fingerprint of the lesson inputs; a fingerprint
// mismatch invalidates the entry and triggers regeneration, so dialogue is
// only ever produced when its inputs change.
package dialogue
