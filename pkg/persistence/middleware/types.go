// Package middleware provides StateStore decorators: snapshot history
// for audit and debugging, and redaction of sensitive context keys
// before they reach the backing store.
package middleware

import "github.com/agenthub/agenthub/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies middlewares to a store, first middleware outermost.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
