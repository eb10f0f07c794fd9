// Package generation defines the interfaces and value types for producing
// lesson dialogue with an external language model. The concrete generator
// lives in internal/platform/gemini; this package holds the boundary types
// (LessonInput, ContentSource, Generator), the error taxonomy, and the
// lesson fingerprint used for cache freshness checks.
package generation
