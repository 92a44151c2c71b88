// Package mcp exposes the quote agent as a Model Context Protocol server so
// that assistants can drive intake sessions as tools.
package mcp
