// Package semantic walks a file's AST once and produces its components,
// state bindings, variable-stability table, created contexts, memoized
// component names, and hook call sites — the per-file summary that
// everything downstream borrows by reference and never mutates.
package semantic

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// WrapperNames is the configured set of memoization-wrapper function names
// (default: {"memo"}), threaded in from config so §4.3 stays
// configuration-driven rather than hardcoded.
type Options struct {
	WrapperNames    map[string]bool
	StableHooks     map[string]bool
	UnstableHooks   map[string]bool
	// StableHookPatterns/UnstableHookPatterns back config's
	// stable_hook_patterns/unstable_hook_patterns (§6): a caller-supplied
	// custom hook whose name isn't worth listing individually, e.g. every
	// "useXStable" convention across a codebase.
	StableHookPatterns   []*regexp.Regexp
	UnstableHookPatterns []*regexp.Regexp
	UnknownHookStable    bool // Open Question #1: default true (conservative)
}

func DefaultOptions() Options {
	return Options{
		WrapperNames:      map[string]bool{"memo": true},
		StableHooks:       map[string]bool{"useRef": true, "useId": true, "useContext": true},
		UnstableHooks:     map[string]bool{},
		UnknownHookStable: true,
	}
}

func matchesAnyPattern(patterns []*regexp.Regexp, name string) bool {
	for _, p := range patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// extractor threads mutable working state through one traversal of a file.
type extractor struct {
	opts        Options
	src         []byte
	file        *model.ParsedFile
	importAlias map[string]string // local name -> source specifier, for N.memo(...) and N.createContext(...) resolution
	scopes      map[*sitter.Node]*model.Scope
	root        *model.Scope
}

// Extract runs the single-traversal semantic extraction described in
// spec.md §4.2/§4.3 over an already-parsed tree-sitter root node, mutating
// and returning `file`. `file.SourceText` must already be set.
func Extract(root *sitter.Node, file *model.ParsedFile, opts Options) {
	e := &extractor{
		opts:        opts,
		src:         file.SourceText,
		file:        file,
		importAlias: map[string]string{},
		scopes:      map[*sitter.Node]*model.Scope{},
	}
	e.root = model.NewScope(file.Path, "module", nil, int(root.StartByte()), int(root.EndByte()))
	e.walkProgram(root)
}

func (e *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(e.src)
}

func (e *extractor) line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

func (e *extractor) column(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Column) + 1
}

// walkProgram walks top-level statements, recursing into every descendant
// while maintaining the current enclosing-component scope so hooks and
// refs are attributed correctly.
func (e *extractor) walkProgram(root *sitter.Node) {
	n := int(root.NamedChildCount())
	for i := 0; i < n; i++ {
		e.walkTop(root.NamedChild(i), e.root)
	}
}

// walkTop dispatches on top-level constructs (imports/exports) and
// delegates everything else to the component-scoped walk with an empty
// component name, so module-scope declarations/hooks share one code path
// with in-component ones.
func (e *extractor) walkTop(n *sitter.Node, scope *model.Scope) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_statement":
		e.handleImport(n)
		return
	case "export_statement":
		e.handleExport(n, scope)
		return
	}
	e.walkStmtInComponent(n, scope, "")
}

func blockID(scope *model.Scope, n *sitter.Node) string {
	return fmt.Sprintf("%s.block@%d", scope.ID, n.StartByte())
}

func calleeName(n *sitter.Node, src []byte) (full string, namespace string, member string) {
	callee := n.ChildByFieldName("function")
	if callee == nil {
		return "", "", ""
	}
	switch callee.Type() {
	case "identifier":
		return callee.Content(src), "", ""
	case "member_expression":
		obj := callee.ChildByFieldName("object")
		prop := callee.ChildByFieldName("property")
		if obj != nil && prop != nil {
			return obj.Content(src) + "." + prop.Content(src), obj.Content(src), prop.Content(src)
		}
	}
	return "", "", ""
}

func isCapitalized(s string) bool {
	return s != "" && strings.ToUpper(s[:1]) == s[:1] && strings.ToLower(s[:1]) != s[:1]
}
