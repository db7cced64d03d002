// Package rules is the hook analyzer: the rule engine that turns one
// file's semantic summary, consulting its CFG on demand, into the RLD-series
// diagnostics of spec.md §4.5. Rules run in a fixed order per hook so
// inter-rule de-duplication in the assembler is deterministic (§5).
package rules

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/cfg"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// CrossFile is the narrow interface the rule engine consults for the two
// cross-file flows it needs inline (§4.7): whether a JSX tag resolves (via
// import) to a memoization-wrapped component, and whether a setter handed
// to an imported function escapes into a call inside that callee. The
// propagate package implements this over the orchestrator's published
// per-file summaries.
type CrossFile interface {
	IsMemoizedComponentRef(file *model.ParsedFile, tagRoot string) bool
	SetterEscapesImportedCall(file *model.ParsedFile, importedName string, setterName string) bool
}

// noopCrossFile is used when the caller has no cross-file context (e.g.
// single-file analysis in tests): every cross-file query conservatively
// answers "no".
type noopCrossFile struct{}

func (noopCrossFile) IsMemoizedComponentRef(*model.ParsedFile, string) bool         { return false }
func (noopCrossFile) SetterEscapesImportedCall(*model.ParsedFile, string, string) bool { return false }

// NoopCrossFile is the zero-value cross-file resolver.
var NoopCrossFile CrossFile = noopCrossFile{}

// TypeOracle is the narrow bridge to an external type-checker (§4.9),
// consulted only when Config.StrictMode is set: `node` is the opaque
// *sitter.Node of a dependency-list expression (model.DepEntry.Node), and
// the returned description is treated as an opaque hint, never parsed
// beyond the coarse array/object/function substring checks in
// refineUnknownHookReturn. A nil Oracle (the default) disables strict mode
// regardless of the config flag.
type TypeOracle interface {
	TypeOf(node interface{}) (description string, ok bool)
}

// Engine runs the per-file rule set described in §4.5.
type Engine struct {
	Config config.Config
	Cross  CrossFile
	Oracle TypeOracle
}

// New builds an Engine; a nil cross resolver falls back to NoopCrossFile.
func New(cfg config.Config, cross CrossFile) *Engine {
	if cross == nil {
		cross = NoopCrossFile
	}
	return &Engine{Config: cfg, Cross: cross}
}

// Analyze runs every rule against one parsed file and returns its hook
// diagnostics, sorted by (line, column, code) for deterministic per-file
// emission before the assembler's global sort.
func (e *Engine) Analyze(file *model.ParsedFile) []model.Diagnostic {
	var diags []model.Diagnostic
	stability := newStabilityIndex(file)
	setters := settersByComponent(file)

	for _, comp := range file.Components {
		diags = append(diags, e.renderPhaseWrites(file, comp, setters)...)
		diags = append(diags, e.renderPhaseRefMutation(file, comp, setters)...)
		diags = append(diags, e.jsxProviderAndMemoProps(file, comp, stability)...)
	}

	for i := range file.Hooks {
		diags = append(diags, e.analyzeHook(file, &file.Hooks[i], stability, setters)...)
	}

	diags = suppressMarked(file, diags)

	sort.Slice(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		return a.Code < b.Code
	})
	return diags
}

// analyzeHook dispatches the dependency-sensitive and body-sensitive rules
// for one hook call site, in the fixed order §4.5 lists them.
func (e *Engine) analyzeHook(file *model.ParsedFile, hook *model.HookCallSite, stability *stabilityIndex, setters map[string][]model.StateBinding) []model.Diagnostic {
	var diags []model.Diagnostic

	switch hook.Kind {
	case model.HookEffect, model.HookLayoutEffect:
		diags = append(diags, e.effectWriteRules(file, hook, setters)...)
	case model.HookMemo, model.HookCallback:
		if d, ok := e.selfModifyingMemo(file, hook); ok {
			diags = append(diags, d)
		}
	case model.HookSyncExternalStore:
		if d, ok := e.unstableGetSnapshot(file, hook, stability); ok {
			diags = append(diags, d)
		}
	}

	if hook.Kind == model.HookEffect || hook.Kind == model.HookLayoutEffect ||
		hook.Kind == model.HookMemo || hook.Kind == model.HookCallback {
		diags = append(diags, e.unstableDependencies(file, hook, stability)...)
	}
	return diags
}

func settersByComponent(file *model.ParsedFile) map[string][]model.StateBinding {
	out := map[string][]model.StateBinding{}
	for _, sv := range file.StateVars {
		out[sv.Component] = append(out[sv.Component], sv)
	}
	return out
}

func bodyNode(hook *model.HookCallSite) *sitter.Node {
	if hook.CallbackBody == nil {
		return nil
	}
	n, _ := hook.CallbackBody.(*sitter.Node)
	return n
}

func callNode(hook *model.HookCallSite) *sitter.Node {
	if hook.CallNode == nil {
		return nil
	}
	n, _ := hook.CallNode.(*sitter.Node)
	return n
}

func diag(code string, cat model.Category, sev model.Severity, conf model.Confidence, kind model.DiagnosticKind, loc model.Location, hookKind model.HookKind, dep, setter, explain, suggest string) model.Diagnostic {
	return model.Diagnostic{
		Code: code, Category: cat, Severity: sev, Confidence: conf, Kind: kind,
		Location: loc, HookKind: hookKind,
		ProblematicDependency: dep, SetterFunction: setter,
		Explanation: explain, Suggestion: suggest,
	}
}

func loc(file *model.ParsedFile, line, column int) model.Location {
	return model.Location{Path: file.Path, Line: line, Column: column}
}

// buildGraph builds the CFG for a hook callback. It is not memoized: each
// rule function that needs a graph builds its own, which is cheap relative
// to the parse this is downstream of.
func buildGraph(hook *model.HookCallSite, src []byte) *cfg.Graph {
	return cfg.Build(bodyNode(hook), src)
}
