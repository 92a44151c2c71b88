/*
Package session implements session management and persistence orchestration.

The Manager serializes every operation on a session id behind a per-key mutex
(optionally backed by a distributed lock for multi-replica deployments), so the
dialogue engine can mutate a session without coordinating with other requests.
*/
package session
