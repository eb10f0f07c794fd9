// Package store defines the persistence interfaces of the sprint
// progression engine along with the error taxonomy shared by their
// implementations. Concrete stores live under internal/platform
// (postgres for enrollments and day progress, redis for dialogue
// entries); services depend only on the interfaces defined here.
package store
