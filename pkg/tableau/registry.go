package tableau

// DefaultRegistry builds a Registry carrying every logic this package
// implements.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("CPL", CPL)
	r.Register("FDE", FDE)
	r.Register("K", K)
	r.Register("CFOL", CFOL)
	r.Register("D", D)
	return r
}
