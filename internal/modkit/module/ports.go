package module

import "reflect"

// PortSet is a marker alias for module-defined port bundles
// modules define their own concrete types and return them from Ports
type PortSet = any

// PortsOf extracts an implementation of T from a module's Ports() bundle.
// The bundle may implement T directly, or be a struct (or pointer to one)
// whose exported fields are searched in declaration order; ok is false when
// nothing matches
func PortsOf[T any](m Module) (t T, ok bool) {
	p := m.Ports()
	if p == nil {
		return t, false
	}
	if v, ok2 := p.(T); ok2 {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return t, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok2 := f.Interface().(T); ok2 {
			return v, true
		}
	}
	return t, false
}

// MustPortsOf panics when the port is absent; wiring mistakes should fail
// loud at bootstrap rather than surface as nil calls mid-run
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	panic("module: requested port not found on module " + m.Name())
}
