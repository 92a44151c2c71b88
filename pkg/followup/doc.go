// Package followup generates clarifying questions with a chat model once the
// scripted intake is exhausted.
package followup
