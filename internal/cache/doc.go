// Package cache provides a reference implementation of the shared cache the
// message routers invalidate.
//
// The core only ever consumes the router.Cache interface; Store exists so
// the CLI and tests have a concrete collaborator. It is a registry of
// fetched entries with prefix-match invalidation: invalidating {"jobs"}
// marks {"jobs"} and {"jobs", "42"} stale, leaving {"runs"} untouched.
package cache
