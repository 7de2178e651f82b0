// SPDX-License-Identifier: MPL-2.0

package datafile

type (
	// condLevel is one #if chain. executed is set once any branch of the
	// chain has fired; executing is set while the current branch is live.
	condLevel struct {
		executed  bool
		executing bool
		opened    RawLine
	}

	// condStack tracks nested #if chains during one section evaluation.
	condStack struct {
		levels []condLevel
	}
)

func (s *condStack) push(opened RawLine) {
	s.levels = append(s.levels, condLevel{opened: opened})
}

// execute makes the innermost branch live.
func (s *condStack) execute(line RawLine) error {
	top := &s.levels[len(s.levels)-1]
	if top.executed || top.executing {
		return &LineError{Line: line, Err: ErrConditionalState}
	}
	top.executed = true
	top.executing = true
	return nil
}

// next closes the innermost branch ahead of an #else or #elseif.
func (s *condStack) next(line RawLine) error {
	if len(s.levels) == 0 {
		return &LineError{Line: line, Err: ErrUnbalancedConditional}
	}
	s.levels[len(s.levels)-1].executing = false
	return nil
}

// pending reports whether no branch of the innermost chain has fired yet.
func (s *condStack) pending() bool {
	return !s.levels[len(s.levels)-1].executed
}

func (s *condStack) pop(line RawLine) error {
	if len(s.levels) == 0 {
		return &LineError{Line: line, Err: ErrUnbalancedConditional}
	}
	s.levels = s.levels[:len(s.levels)-1]
	return nil
}

// live reports whether lines at the current position are emitted.
func (s *condStack) live() bool {
	for _, l := range s.levels {
		if !l.executed || !l.executing {
			return false
		}
	}
	return true
}

func (s *condStack) empty() bool { return len(s.levels) == 0 }

// check returns ErrOpenConditional, positioned at the innermost open #if,
// when the stack is not empty.
func (s *condStack) check(section string) error {
	if s.empty() {
		return nil
	}
	opened := s.levels[len(s.levels)-1].opened
	return &SectionError{Section: section, Err: &LineError{Line: opened, Err: ErrOpenConditional}}
}
