// Package modgraph resolves each file's import specifiers to absolute paths
// and detects import cycles over the resulting file graph (spec.md §4.6).
//
// Grounded on inspector/repository/detector.go's marker-based root
// resolution (generalized here from Go-project markers to an alias table +
// extension/index/manifest search) and analyzer/linage.Merge's
// one-pass-over-all-files construction shape.
package modgraph

import (
	"path"
	"strings"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// AliasTable maps a path-mapping prefix (as found in a project's tsconfig
// "paths" or equivalent) to its replacement directory, injected by the
// orchestrator's external project-config collaborator. The core never
// reads tsconfig.json itself — it only consumes the resolved table.
type AliasTable map[string]string

// Resolver resolves import specifiers against a fixed file set and alias
// table. The file set and the package-manifest entries are plain maps
// supplied by the caller, so the core never touches a filesystem directly.
type Resolver struct {
	Aliases   AliasTable
	FileSet   map[string]bool          // every known candidate file path, for extension/index search
	Manifests map[string]manifestEntry // directory -> package-manifest main/exports field, if any
}

type manifestEntry struct {
	Main    string
	Exports string
}

// NewResolver builds a Resolver over the given known file set and alias
// table. manifestMains maps a directory path to its package-manifest
// main/exports entry point (e.g. from package.json), pre-extracted by the
// orchestrator since manifest parsing is outside the core's scope.
func NewResolver(fileSet []string, aliases AliasTable, manifestMains map[string]string) *Resolver {
	set := make(map[string]bool, len(fileSet))
	for _, f := range fileSet {
		set[f] = true
	}
	manifests := make(map[string]manifestEntry, len(manifestMains))
	for dir, main := range manifestMains {
		manifests[dir] = manifestEntry{Main: main}
	}
	return &Resolver{Aliases: aliases, FileSet: set, Manifests: manifests}
}

var sourceExts = []string{".tsx", ".ts", ".jsx", ".js", ".mjs", ".cjs"}

// Resolve turns one import specifier, seen from `fromPath`, into an
// absolute candidate path. Returns ok=false when the specifier is a bare
// package specifier (no alias match, not relative) — left external per
// §4.6/§7 (resolution failure: treat the target as external, don't raise).
func (r *Resolver) Resolve(fromPath, specifier string) (string, bool) {
	target := specifier
	aliased := false
	for prefix, dir := range r.Aliases {
		if specifier == prefix {
			target = dir
			aliased = true
			break
		}
		if strings.HasPrefix(specifier, prefix+"/") {
			target = dir + specifier[len(prefix):]
			aliased = true
			break
		}
	}
	if !aliased {
		if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") {
			return "", false // bare package specifier: external
		}
		target = path.Join(path.Dir(fromPath), specifier)
	}
	return r.searchExtensions(target)
}

// searchExtensions applies §4.6's three-step order: the specifier as a
// literal file, then `<dir>/index.*`, then the directory's package-manifest
// main/exports field.
func (r *Resolver) searchExtensions(target string) (string, bool) {
	if r.FileSet[target] {
		return target, true
	}
	for _, ext := range sourceExts {
		if cand := target + ext; r.FileSet[cand] {
			return cand, true
		}
	}
	for _, ext := range sourceExts {
		if cand := path.Join(target, "index"+ext); r.FileSet[cand] {
			return cand, true
		}
	}
	if entry, ok := r.Manifests[target]; ok {
		main := entry.Main
		if entry.Exports != "" {
			main = entry.Exports
		}
		if main != "" {
			cand := path.Join(target, main)
			if r.FileSet[cand] {
				return cand, true
			}
			for _, ext := range sourceExts {
				if c2 := cand + ext; r.FileSet[c2] {
					return c2, true
				}
			}
		}
	}
	return "", false
}

// Graph is the directed file-import-edge graph: file path -> resolved
// import targets (external/unresolved specifiers are omitted, per §7).
type Graph struct {
	Edges map[string][]string
	// CarriesContextOrFunction records, per edge, whether the import binds
	// a createContext-produced name or a named function export — used to
	// decide whether a mutual-import pair is worth an advisory
	// context/function-call cycle diagnostic (§4.6).
	CarriesContextOrFunction map[[2]string]bool
}

// Build constructs the file graph from each file's resolved imports.
// `namedBindings` maps a file path to the set of names it createContext()'d or
// exports as a named function, used for the advisory classification.
func Build(files map[string]*model.ParsedFile, resolver *Resolver, namedBindings map[string]map[string]bool) *Graph {
	g := &Graph{Edges: map[string][]string{}, CarriesContextOrFunction: map[[2]string]bool{}}
	for p, f := range files {
		seen := map[string]bool{}
		for _, imp := range f.Imports {
			target, ok := resolver.Resolve(p, imp.SourceSpecifier)
			if !ok || target == p {
				continue
			}
			if !seen[target] {
				g.Edges[p] = append(g.Edges[p], target)
				seen[target] = true
			}
			if bindingsCarryContextOrFunction(imp, namedBindings[target]) {
				g.CarriesContextOrFunction[[2]string{p, target}] = true
			}
		}
	}
	return g
}

func bindingsCarryContextOrFunction(imp model.Import, targetBindings map[string]bool) bool {
	if len(targetBindings) == 0 {
		return false
	}
	for _, b := range imp.LocalBindings {
		if targetBindings[b] {
			return true
		}
	}
	return false
}
