// Package ports defines the boundary interfaces of the routing core:
// state persistence, completion service, and distributed locking.
// Adapters live under pkg/adapters; the core never imports them.
package ports
