package device

// ActiveSet tracks the devices the resolver most recently asked to be
// active. It is not checked against hardware state.
//
// ActiveSet is not safe for concurrent use; its owner serialises access.
type ActiveSet struct {
	out Output
	in  Input
}

// NoteOutput adds output devices to the set.
func (s *ActiveSet) NoteOutput(o Output) {
	s.out |= o
}

// NoteInput adds input devices to the set.
func (s *ActiveSet) NoteInput(i Input) {
	s.in |= i
}

// Note adds a tagged flag to the matching direction. None is ignored.
func (s *ActiveSet) Note(f Flag) {
	if o, ok := f.Output(); ok {
		s.NoteOutput(o)
		return
	}
	if i, ok := f.Input(); ok {
		s.NoteInput(i)
	}
}

// Output returns the active output mask.
func (s *ActiveSet) Output() Output { return s.out }

// Input returns the active input mask.
func (s *ActiveSet) Input() Input { return s.in }

// Any reports whether the direction has at least one active device.
func (s *ActiveSet) Any(dir Direction) bool {
	switch dir {
	case DirectionOutput:
		return s.out != 0
	case DirectionInput:
		return s.in != 0
	}
	return false
}

// Snapshot returns the names of the active devices of a direction in
// canonical order.
func (s *ActiveSet) Snapshot(dir Direction) []string {
	switch dir {
	case DirectionOutput:
		return s.out.Names()
	case DirectionInput:
		return s.in.Names()
	}
	return nil
}

// Clear zeroes one direction and leaves the other untouched.
func (s *ActiveSet) Clear(dir Direction) {
	switch dir {
	case DirectionOutput:
		s.out = 0
	case DirectionInput:
		s.in = 0
	}
}
