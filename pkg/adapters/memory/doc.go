// Package memory provides in-process session and submission stores.
// State is lost when the process exits.
package memory
