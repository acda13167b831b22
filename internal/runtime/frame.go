package runtime

import "github.com/aretw0/arbor/pkg/domain"

// Frame is one unit of scheduler work: a BEGIN or END for a module under a parent pass.
type Frame struct {
	Module domain.Module
	Phase  domain.Phase

	// Displaced is the parent's running child set aside by navigation.
	// It is restored when this module's END frame fires.
	Displaced domain.Module

	parent *pass
	closes *pass // END frames only: the pass this frame closes
}

// Parent returns the container this frame runs under, or nil for the root.
func (f Frame) Parent() domain.Module {
	if f.parent == nil {
		return nil
	}
	return f.parent.module
}

// pass is one execution of a module, opened by its BEGIN frame.
// Children frames point at the pass of their container so that terminating
// the container can drop frames that were pushed for it but not yet run.
type pass struct {
	module    domain.Module
	parent    *pass
	depth     int
	cancelled bool
	ended     bool

	// liveness cache, valid while checked == Engine.epoch
	checked uint64
	dead    bool
}

func newPass(m domain.Module, parent *pass) *pass {
	p := &pass{module: m, parent: parent}
	if parent != nil {
		p.depth = parent.depth + 1
	}
	return p
}

// stack is a heap-allocated LIFO of frames.
type stack struct {
	frames []Frame
}

func (s *stack) push(f Frame) {
	s.frames = append(s.frames, f)
}

func (s *stack) pop() (Frame, bool) {
	n := len(s.frames)
	if n == 0 {
		return Frame{}, false
	}
	f := s.frames[n-1]
	s.frames[n-1] = Frame{}
	s.frames = s.frames[:n-1]
	return f, true
}

func (s *stack) len() int {
	return len(s.frames)
}

func (s *stack) reset() {
	s.frames = nil
}
