package dsl

import "reflect"

type builderPair struct {
	a, b Builder
}

// StructuralEquals reports whether two builder graphs have the same shape and
// configuration. Nodes are compared pairwise by common configuration, by
// ShallowStructuralEquals, by their ordered children and by kind-specific
// references. Pairs that are the same object compare equal without descending.
// Runtime-only state is ignored and neither graph is modified.
func StructuralEquals(a, b Builder) bool {
	visited := make(map[builderPair]bool)
	work := []builderPair{{a, b}}

	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		if p.a == p.b {
			continue
		}
		if p.a == nil || p.b == nil {
			return false
		}
		if visited[p] {
			continue
		}
		visited[p] = true

		if reflect.TypeOf(p.a) != reflect.TypeOf(p.b) {
			return false
		}
		if !nodeEquals(p.a.Node(), p.b.Node()) {
			return false
		}
		if !p.a.ShallowStructuralEquals(p.b) {
			return false
		}

		ca, cb := p.a.Node().children, p.b.Node().children
		for i := range ca {
			work = append(work, builderPair{ca[i], cb[i]})
		}

		ra, rb := p.a.refs(), p.b.refs()
		if len(ra) != len(rb) {
			return false
		}
		for i := range ra {
			work = append(work, builderPair{ra[i], rb[i]})
		}
	}
	return true
}

func nodeEquals(a, b *Node) bool {
	if a.name != b.name || a.style != b.style || a.hardStyle != b.hardStyle {
		return false
	}
	if len(a.children) != len(b.children) {
		return false
	}
	switch {
	case a.app == nil && b.app == nil:
		return true
	case a.app == nil || b.app == nil:
		return false
	default:
		return a.app.Equal(b.app)
	}
}

// sameFunc reports whether two function values refer to the same code.
// Function values are not comparable in Go; closures created from the same
// literal compare equal.
func sameFunc(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsNil() || vb.IsNil() {
		return va.IsNil() == vb.IsNil()
	}
	return va.Pointer() == vb.Pointer()
}
