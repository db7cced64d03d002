package rules

import "github.com/samsmithyeah/react-circular-deps-detector-sub001/model"

// stabilityIndex answers "what stability class does this name have, in this
// component" against a file's VariableStability table (§4.2), preferring a
// component-scoped entry over the module-scope fallback and the
// latest-recorded entry when several exist for the same (name, component)
// pair — mirroring semantic.lookupStability's last-write-wins convention.
type stabilityIndex struct {
	byComponent map[string]map[string]model.StabilityEntry
	moduleScope map[string]model.StabilityEntry
}

func newStabilityIndex(file *model.ParsedFile) *stabilityIndex {
	idx := &stabilityIndex{byComponent: map[string]map[string]model.StabilityEntry{}, moduleScope: map[string]model.StabilityEntry{}}
	for _, e := range file.VariableStability {
		if e.Component == "" {
			idx.moduleScope[e.Name] = e
			continue
		}
		m, ok := idx.byComponent[e.Component]
		if !ok {
			m = map[string]model.StabilityEntry{}
			idx.byComponent[e.Component] = m
		}
		m[e.Name] = e
	}
	return idx
}

func (s *stabilityIndex) classify(component, name string) (model.StabilityEntry, bool) {
	if m, ok := s.byComponent[component]; ok {
		if e, ok := m[name]; ok {
			return e, true
		}
	}
	if e, ok := s.moduleScope[name]; ok {
		return e, true
	}
	return model.StabilityEntry{}, false
}

// classifyDep classifies a dependency-list entry: member expressions are
// judged by their root identifier (§4.2's "carry the stability class of
// their root binding"), satisfying the round-trip property in §8.
func (s *stabilityIndex) classifyDep(component string, dep model.DepEntry) (model.StabilityEntry, bool) {
	return s.classify(component, dep.RootName)
}
