// Package realtime holds the process-wide handle to the broadcast hub.
//
// The hub is a singleton resource: one set of live connections per process.
// The websocket adapter receives it by constructor injection; the HTTP
// controllers, which are otherwise decoupled from the realtime component,
// reach it through Default(). Init is called exactly once at startup, and
// Default before Init is a wiring bug that must surface loudly, not a
// runtime condition to recover from.
package realtime

import (
	"sync"

	"github.com/mxm-1x/formiqa/internal/core"
)

var (
	mu  sync.RWMutex
	hub core.Dispatcher
)

// Init installs the process-wide dispatcher. Call once from main.
func Init(d core.Dispatcher) {
	mu.Lock()
	defer mu.Unlock()
	if hub != nil {
		panic("realtime: Init called twice")
	}
	hub = d
}

// Default returns the dispatcher installed by Init. Panics if Init has not
// run yet.
func Default() core.Dispatcher {
	mu.RLock()
	defer mu.RUnlock()
	if hub == nil {
		panic("realtime: Default called before Init")
	}
	return hub
}

// Reset clears the handle. Test helper only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	hub = nil
}
