// Package http exposes the quote agent over a JSON API described by the
// openapi.yaml (served from api.gen.go), with request validation, optional bearer
// authentication and a server-sent event stream of per-turn session diffs.
package http
