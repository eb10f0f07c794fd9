// Package gemini implements the generation.Generator interface against
// Google's Gemini API. It renders the lesson template into a prompt, calls
// the model with exponential backoff for transient failures, and maps
// safety blocks and malformed responses to the generation error taxonomy.
package gemini
