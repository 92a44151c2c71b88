// Package runtime implements the dialogue engine that walks a session through
// the question catalog, generated follow-ups and the review summary.
package runtime
