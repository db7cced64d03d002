// Package propagate implements the rules.CrossFile bridge (spec.md §4.7):
// best-effort resolution of names across a file's import boundary, bounded
// by a small hop count so a pathological re-export chain can't loop forever.
//
// Grounded on analyzer/node.go's FuncSummary/handleCallInAssignment
// (interprocedural param/return flow with a funcSummaries lookup table) and
// analyzer/touchpoint.go's applyTransitiveDependencies (bounded traversal
// over a call graph guarded by a visited/processed set).
package propagate

import (
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/modgraph"
)

const maxHopDepth = 4

// Index answers the two cross-file questions the hook analyzer needs:
// whether a JSX tag's root identifier traces to a memoized component, and
// whether a setter handed to an imported function is known to escape into
// an unconditional call there. Built once per run from the full parsed-file
// set and the module resolver, then shared read-only by every hook-analysis
// goroutine.
type Index struct {
	files    map[string]*model.ParsedFile
	resolver *modgraph.Resolver
}

// NewIndex builds a cross-file Index over every parsed file in the run and
// the resolver already used to build the module graph.
func NewIndex(files map[string]*model.ParsedFile, resolver *modgraph.Resolver) *Index {
	return &Index{files: files, resolver: resolver}
}

// IsMemoizedComponentRef implements rules.CrossFile: localName is the root
// identifier of a JSX tag in file; true when it traces, through any chain
// of re-exports bounded by maxHopDepth, to a memo()-wrapped component.
func (idx *Index) IsMemoizedComponentRef(file *model.ParsedFile, localName string) bool {
	return idx.resolveMemoized(file, localName, map[string]bool{})
}

func (idx *Index) resolveMemoized(file *model.ParsedFile, localName string, visited map[string]bool) bool {
	if len(visited) >= maxHopDepth {
		return false
	}
	imp, ok := findImportBinding(file, localName)
	if !ok {
		return false
	}
	target, ok := idx.resolver.Resolve(file.Path, imp.SourceSpecifier)
	if !ok {
		return false
	}
	key := target + "#" + localName
	if visited[key] {
		return false
	}
	visited[key] = true
	targetFile, ok := idx.files[target]
	if !ok {
		return false
	}
	ex, ok := matchingExport(targetFile, imp, localName)
	if !ok {
		return false
	}
	if ex.IsMemoizedComponent {
		return true
	}
	// The export itself may just forward another import (a re-export
	// chain); follow it one more hop.
	return idx.resolveMemoized(targetFile, ex.LocalName, visited)
}

func findImportBinding(file *model.ParsedFile, localName string) (model.Import, bool) {
	for _, imp := range file.Imports {
		for _, b := range imp.LocalBindings {
			if b == localName {
				return imp, true
			}
		}
	}
	return model.Import{}, false
}

func matchingExport(file *model.ParsedFile, imp model.Import, localName string) (model.Export, bool) {
	for _, ex := range file.Exports {
		switch imp.Kind {
		case model.ImportDefault:
			if ex.IsDefault {
				return ex, true
			}
		case model.ImportNamed, model.ImportReExport:
			if ex.ExportedName == localName {
				return ex, true
			}
		}
	}
	return model.Export{}, false
}
