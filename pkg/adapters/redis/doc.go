// Package redis provides a Redis-backed session store and distributed locker
// for running several replicas of the service against shared state.
package redis
