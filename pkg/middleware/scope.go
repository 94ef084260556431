package middleware

// scopes is a lexical scope stack: one set of bound names per open block.
type scopes []map[string]struct{}

func (s *scopes) push(names ...string) {
	frame := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name != "" {
			frame[name] = struct{}{}
		}
	}
	*s = append(*s, frame)
}

func (s *scopes) pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}

func (s scopes) bound(name string) bool {
	for i := len(s) - 1; i >= 0; i-- {
		if _, ok := s[i][name]; ok {
			return true
		}
	}
	return false
}

// bind records name in the innermost scope and reports whether this is its
// first mention in any enclosing scope.
func (s scopes) bind(name string) bool {
	if len(s) == 0 || name == "" {
		return false
	}
	if s.bound(name) {
		return false
	}
	s[len(s)-1][name] = struct{}{}
	return true
}
