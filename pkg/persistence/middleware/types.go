package middleware

import "github.com/aretw0/arbor/pkg/ports"

// Middleware allows wrapping an InputStore to add behavior.
type Middleware func(ports.InputStore) ports.InputStore

// Wrap applies mws to store. The first middleware is the outermost, so it sees
// snapshots first on Save and last on Load.
func Wrap(store ports.InputStore, mws ...Middleware) ports.InputStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
