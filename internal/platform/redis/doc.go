// Package redis provides Redis-backed implementations of the dialogue cache
// and the per-user preference store. Dialogue entries are derived data that
// can always be regenerated, which makes Redis with a TTL the right home
// for them; the relational database never sees them.
package redis
