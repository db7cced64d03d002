package model

// Scope is one lexical scope in a file's scope chain: module (top level),
// component, function, block, or hook callback. Parent-linked, and Resolve
// walks outward so an inner binding shadows an outer one. The semantic
// extractor builds this chain but declares no bindings into it; its
// stability lookups are keyed by (name, enclosing component).
type Scope struct {
	ID       string            `yaml:"id"`
	Kind     string            `yaml:"kind"` // "module", "component", "function", "block", "hook_callback"
	Name     string            `yaml:"name,omitempty"`
	Parent   *Scope            `yaml:"-"`
	Start    int               `yaml:"start"`
	End      int               `yaml:"end"`
	Bindings map[string]string `yaml:"-"` // name -> binding id, shadows outer scopes
}

// NewScope creates a child scope of parent (nil for the module root).
func NewScope(id, kind string, parent *Scope, start, end int) *Scope {
	return &Scope{ID: id, Kind: kind, Parent: parent, Start: start, End: end, Bindings: map[string]string{}}
}

// Resolve walks outward from s looking for name, returning the nearest
// binding id and whether it was found.
func (s *Scope) Resolve(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if id, ok := cur.Bindings[name]; ok {
			return id, true
		}
	}
	return "", false
}

// Declare binds name in s, shadowing any outer binding of the same name.
func (s *Scope) Declare(name, id string) {
	s.Bindings[name] = id
}

// EnclosingComponentName walks outward to the nearest scope whose Kind is
// "component" and returns its Name, or "" for module scope.
func (s *Scope) EnclosingComponentName() string {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == "component" {
			return cur.Name
		}
	}
	return ""
}
