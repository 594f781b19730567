/*
Package session coordinates concurrent access to per-user conversation
state.

It layers reference-counted in-process locks, optional distributed
locking for multi-replica deployments, and the persistence store behind
one manager, so that a user's turns are always applied one at a time.
*/
package session
