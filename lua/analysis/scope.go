// Package analysis infers types over a parsed Lua syntax tree using
// a lexical scope chain and publishes module exports to a project
// catalog.
package analysis

import "github.com/dhamidi/luadoc/lua/parser"

// Scopes is an arena of lexical scopes. Scopes are linked to their
// parent by index; index 0 is the file-level root. The arena only
// grows during an analysis run, so indexes stay valid for its whole
// lifetime.
type Scopes struct {
	arena []scope
}

type scope struct {
	parent int
	vars   map[string]parser.TypeInfo
}

// NewScopes returns an arena holding only the root scope.
func NewScopes() *Scopes {
	return &Scopes{arena: []scope{{parent: -1, vars: map[string]parser.TypeInfo{}}}}
}

// Push creates a child of the given scope and returns its index.
func (s *Scopes) Push(parent int) int {
	s.arena = append(s.arena, scope{parent: parent, vars: map[string]parser.TypeInfo{}})
	return len(s.arena) - 1
}

// Bind records a variable's type in the given scope, shadowing any
// binding of the same name in an outer scope.
func (s *Scopes) Bind(id int, name string, t parser.TypeInfo) {
	s.arena[id].vars[name] = t
}

// Lookup resolves a name starting at the given scope and walking the
// parent chain. A miss returns Unknown and false.
func (s *Scopes) Lookup(id int, name string) (parser.TypeInfo, bool) {
	for id >= 0 {
		if t, ok := s.arena[id].vars[name]; ok {
			return t, true
		}
		id = s.arena[id].parent
	}
	return parser.Unknown(), false
}

// Parent returns the parent index of the given scope, -1 for the
// root.
func (s *Scopes) Parent(id int) int {
	return s.arena[id].parent
}
