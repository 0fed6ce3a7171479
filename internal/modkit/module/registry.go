package module

import "sync"

// registry holds port bundles registered during bootstrap so binaries can
// cross-wire modules by name; single-process composition only
var registry = struct {
	sync.RWMutex
	m map[string]any
}{m: map[string]any{}}

// Register stores (or replaces) the port bundle for name
func Register(name string, ports any) {
	registry.Lock()
	registry.m[name] = ports
	registry.Unlock()
}

// PortsAs returns the bundle registered under name asserted to T
func PortsAs[T any](name string) (T, bool) {
	registry.RLock()
	v, ok := registry.m[name]
	registry.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Reset clears the registry between tests
func Reset() {
	registry.Lock()
	registry.m = map[string]any{}
	registry.Unlock()
}
