/*
Package observability turns engine lifecycle events into structured logs and
Prometheus metrics.

Hooks returns a domain.LifecycleHooks value that can be handed to the engine;
Handler exposes the collected metrics for scraping.
*/
package observability
