package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/cfg"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

const maxTransitiveDepth = 8

var deferredSchedulerNames = map[string]bool{
	"setTimeout": true, "setInterval": true, "requestAnimationFrame": true, "requestIdleCallback": true,
}

var promiseContinuationMembers = map[string]bool{"then": true, "catch": true, "finally": true}

// effectWriteRules implements RLD-200, RLD-500, and RLD-501 (§4.5) for one
// effect/layout-effect hook call site.
func (e *Engine) effectWriteRules(file *model.ParsedFile, hook *model.HookCallSite, setters map[string][]model.StateBinding) []model.Diagnostic {
	body := bodyNode(hook)
	if body == nil {
		return nil
	}
	compSetters := setters[hook.EnclosingComponent]
	locals := localFunctions(body, file.SourceText)

	if !hook.HasDepList {
		return e.missingDepArrayRule(file, hook, body, compSetters, locals)
	}

	var diags []model.Diagnostic
	graph := buildGraph(hook, file.SourceText)
	for _, dep := range hook.DepList {
		sv, ok := findStateBinding(compSetters, dep.RootName)
		if !ok {
			continue
		}
		diags = append(diags, e.conditionalOrUnconditionalWrite(file, hook, body, graph, sv, dep, locals)...)
		diags = append(diags, e.crossFileSetterEscape(file, hook, body, sv, dep)...)
	}
	return diags
}

func findStateBinding(setters []model.StateBinding, valueName string) (model.StateBinding, bool) {
	for _, sv := range setters {
		if sv.Name == valueName {
			return sv, true
		}
	}
	return model.StateBinding{}, false
}

// missingDepArrayRule is RLD-500: an effect-like hook with no dependency
// array at all, whose body contains a setter call reachable from entry.
func (e *Engine) missingDepArrayRule(file *model.ParsedFile, hook *model.HookCallSite, body *sitter.Node, compSetters []model.StateBinding, locals map[string]*sitter.Node) []model.Diagnostic {
	graph := buildGraph(hook, file.SourceText)
	var diags []model.Diagnostic
	seen := map[string]bool{}
	for _, sv := range compSetters {
		calls := collectDirectAndTransitiveCalls(body, file.SourceText, sv.SetterName, locals)
		for _, call := range calls {
			id, ok := findContainingStmt(graph, call)
			if !ok || !graph.Nodes[id].Reachable {
				continue
			}
			if seen[sv.SetterName] {
				continue
			}
			seen[sv.SetterName] = true
			line, col := pos(call)
			diags = append(diags, diag("RLD-500", model.CategoryCritical, model.SeverityHigh, model.ConfidenceHigh,
				model.ConfirmedInfiniteLoop, loc(file, line, col), hook.Kind,
				"", sv.SetterName,
				"effect has no dependency array and calls \""+sv.SetterName+"\", so it re-runs on every render",
				"add a dependency array, even an empty one, if this effect should only run once"))
		}
	}
	return diags
}

// conditionalOrUnconditionalWrite implements RLD-200/RLD-501 for one
// dependency that names a tracked state variable: follows transitive writes
// through locally-defined functions, evaluates dominance (guaranteed to
// execute) via the CFG, recognizes promise/deferred execution contexts, and
// falls back to guard classification when the write isn't guaranteed.
func (e *Engine) conditionalOrUnconditionalWrite(file *model.ParsedFile, hook *model.HookCallSite, body *sitter.Node, graph *cfg.Graph, sv model.StateBinding, dep model.DepEntry, locals map[string]*sitter.Node) []model.Diagnostic {
	calls := collectDirectAndTransitiveCalls(body, file.SourceText, sv.SetterName, locals)
	var diags []model.Diagnostic
	for _, call := range calls {
		promise, deferred := callExecutionContext(body, call, file.SourceText, e.Config)

		if promise {
			line, col := pos(call)
			diags = append(diags, diag("RLD-200", model.CategoryCritical, model.SeverityHigh, model.ConfidenceHigh,
				model.ConfirmedInfiniteLoop, loc(file, line, col), hook.Kind,
				dep.Text, sv.SetterName,
				"\""+sv.SetterName+"\" is called from a promise continuation that will eventually run, and \""+dep.Text+"\" is in the dependency list",
				"break the cycle by not writing back the same value the effect reads, or remove it from the dependency list"))
			continue
		}

		id, ok := findContainingStmt(graph, call)
		if !ok {
			continue
		}
		guaranteed := !deferred && graph.GuaranteedToExecute(id)
		if guaranteed {
			line, col := pos(call)
			diags = append(diags, diag("RLD-200", model.CategoryCritical, model.SeverityHigh, model.ConfidenceHigh,
				model.ConfirmedInfiniteLoop, loc(file, line, col), hook.Kind,
				dep.Text, sv.SetterName,
				"\""+sv.SetterName+"\" is unconditionally called and \""+dep.Text+"\" is in the dependency list, so this effect re-triggers itself",
				"guard the call so it only fires when the value actually changes, or remove it from the dependencies"))
			continue
		}

		guardKind := classifyGuardFor(body, call, sv, file.SourceText)
		if guardKind == cfg.NoGuard && graph.HasEarlyReturnGuard(id) {
			// the canonical `if (x === y) return; setX(x)` shape: the setter
			// sits after the guarding if, not inside one of its arms, so
			// classifyGuardFor's containment-based check never finds it.
			guardKind = cfg.EarlyReturnGuard
		}
		switch guardKind {
		case cfg.EqualityGuard, cfg.ToggleGuard:
			continue // effective guard: suppressed entirely
		case cfg.EarlyReturnGuard:
			continue
		case cfg.PropertyComparisonRiskyGuard:
			line, col := pos(call)
			diags = append(diags, diag("RLD-501", model.CategoryWarning, model.SeverityMedium, model.ConfidenceMedium,
				model.PotentialIssue, loc(file, line, col), hook.Kind,
				dep.Text, sv.SetterName,
				"\""+sv.SetterName+"\" is guarded by a property comparison, which may not reliably prevent re-firing",
				"compare primitive fields instead of whole objects, or memoize the compared value"))
		default:
			line, col := pos(call)
			conf := model.ConfidenceMedium
			if deferred {
				conf = model.ConfidenceLow
			}
			diags = append(diags, diag("RLD-501", model.CategoryWarning, model.SeverityMedium, conf,
				model.PotentialIssue, loc(file, line, col), hook.Kind,
				dep.Text, sv.SetterName,
				"\""+sv.SetterName+"\" may be called without an effective guard while \""+dep.Text+"\" is in the dependency list",
				"add a guard that compares against the current value before calling the setter"))
		}
	}
	return diags
}

func classifyGuardFor(body, call *sitter.Node, sv model.StateBinding, src []byte) cfg.GuardKind {
	cond, onTrue, _, ok := nearestEnclosingIf(body, call)
	if !ok {
		return cfg.NoGuard
	}
	return cfg.ClassifyGuard(cond, onTrue, sv.Name, src, func(n *sitter.Node) string { return rootIdentOf(n, src) })
}

// collectDirectAndTransitiveCalls finds every direct call to setterName
// plus, bounded by maxTransitiveDepth, every call to a locally-defined
// function that itself calls setterName (directly or transitively) —
// §4.5's "transitive writes through locally-defined functions must be
// followed".
func collectDirectAndTransitiveCalls(body *sitter.Node, src []byte, setterName string, locals map[string]*sitter.Node) []*sitter.Node {
	writers := map[string]bool{}
	for name, fnBody := range locals {
		if callsSetterTransitively(fnBody, setterName, locals, src, map[string]bool{name: true}, 0, maxTransitiveDepth) {
			writers[name] = true
		}
	}
	return collectCallsDeep(body, src, func(full, _, _ string) bool {
		return full == setterName || writers[full]
	})
}

// callExecutionContext walks outward from target looking for an enclosing
// call_expression whose callee is a promise-continuation member
// (.then/.catch/.finally) or a deferred scheduler (setTimeout and friends,
// plus any configured custom_functions marked deferred:true) with target
// inside its callback argument.
func callExecutionContext(body, target *sitter.Node, src []byte, cfgOpts config.Config) (promise, deferred bool) {
	var walk func(n *sitter.Node, insidePromise, insideDeferred bool) bool
	walk = func(n *sitter.Node, insidePromise, insideDeferred bool) bool {
		if n == nil {
			return false
		}
		if n == target {
			promise, deferred = insidePromise, insideDeferred
			return true
		}
		nextPromise, nextDeferred := insidePromise, insideDeferred
		if n.Type() == "call_expression" {
			full, _, member := calleeName(n, src)
			if promiseContinuationMembers[member] {
				nextPromise = true
			}
			if deferredSchedulerNames[full] {
				nextDeferred = true
			}
			if custom, ok := cfgOpts.CustomFunctions[full]; ok && custom.Deferred != nil && *custom.Deferred {
				nextDeferred = true
			}
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt; i++ {
			if walk(n.NamedChild(i), nextPromise, nextDeferred) {
				return true
			}
		}
		return false
	}
	walk(body, false, false)
	return promise, deferred
}

// findContainingStmt returns the CFG node with the tightest AST span
// containing target's byte range.
func findContainingStmt(g *cfg.Graph, target *sitter.Node) (int, bool) {
	best := -1
	bestSpan := -1
	for _, n := range g.Nodes {
		if n.AST == nil {
			continue
		}
		if !containsRange(n.AST, target) {
			continue
		}
		span := int(n.AST.EndByte() - n.AST.StartByte())
		if best == -1 || span < bestSpan {
			best, bestSpan = n.ID, span
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
