// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in the store package. All stores accept a store.DBTX
// so they run equally against a *sql.DB or inside a caller-managed
// transaction, and all database errors are routed through MapError to keep
// the error taxonomy consistent.
package postgres
