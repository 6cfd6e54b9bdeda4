// Package middleware wraps ports.LedgerStore implementations with cross-cutting behavior.
package middleware

import "github.com/aretw0/easybake/pkg/ports"

// Middleware allows wrapping a LedgerStore to add behavior.
type Middleware func(ports.LedgerStore) ports.LedgerStore

// Chain wraps store with the given middlewares. The first middleware is the outermost.
func Chain(store ports.LedgerStore, mws ...Middleware) ports.LedgerStore {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			store = mws[i](store)
		}
	}
	return store
}
