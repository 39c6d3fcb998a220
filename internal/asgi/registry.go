package asgi

import (
	"fmt"
	"sync"
)

// The registry maps module:attr entry points to applications, mirroring
// how a process manager locates a module-level attribute. Registration
// happens during process init; resolution happens exactly once at
// startup, before any socket is opened.

var (
	regMu    sync.RWMutex
	registry = make(map[string]Application)
)

// Register binds an application to the attr attribute of module.
// Registering the same entry point twice panics; that is a wiring bug.
func Register(module, attr string, app Application) {
	if app == nil {
		panic("asgi: Register called with nil application")
	}
	key := module + ":" + attr
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("asgi: entry point %s registered twice", key))
	}
	registry[key] = app
}

// Resolve looks up the application at module:attr. A failed resolution
// is a startup error: the caller must exit non-zero without binding.
func Resolve(module, attr string) (Application, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	app, ok := registry[module+":"+attr]
	if !ok {
		return nil, fmt.Errorf("asgi: no attribute %q in module %q", attr, module)
	}
	return app, nil
}

// reset clears the registry. Test helper.
func reset() {
	regMu.Lock()
	defer regMu.Unlock()
	registry = make(map[string]Application)
}
