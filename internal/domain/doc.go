// Package domain contains the core business entities, value objects, and
// domain logic of the sprint progression engine. It represents the heart of
// the system, independent of any specific infrastructure or delivery
// mechanism: enrollments, the per-day gating state machine, and cached
// dialogue entries all live here.
package domain
