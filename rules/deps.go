package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// unstableDependencies implements the RLD-400-series rule (§4.5): each
// dependency-list entry is classified via the enclosing component's
// stability table (module-scope fallback), and an unstable classification
// produces the matching diagnostic code. Member expressions are classified
// by their root identifier (stabilityIndex.classifyDep), satisfying the
// round-trip property in §8.
func (e *Engine) unstableDependencies(file *model.ParsedFile, hook *model.HookCallSite, stability *stabilityIndex) []model.Diagnostic {
	if !hook.HasDepList {
		return nil
	}
	var diags []model.Diagnostic
	for _, dep := range hook.DepList {
		entry, ok := stability.classifyDep(hook.EnclosingComponent, dep)
		if !ok {
			continue
		}
		if e.Config.StrictMode && e.Oracle != nil && entry.Class == model.UnknownHookReturn {
			entry = e.refineUnknownHookReturn(entry, dep)
		}
		code, severity := depRuleFor(entry)
		if code == "" {
			continue
		}
		diags = append(diags, diag(code, model.CategoryPerformance, severity, model.ConfidenceHigh,
			model.PotentialIssue, loc(file, dep.Line, 0), hook.Kind,
			dep.Text, "",
			"\""+dep.Text+"\" is a new reference on every render, so this hook re-runs every time",
			"wrap its definition in useMemo/useCallback, or move it outside the component"))

		// chain flagging: when the dependency's own origin is itself a
		// memoized hook result that is consumed as a dependency elsewhere,
		// both the root and the intermediate hook are flagged (§4.5).
		if entry.Class == model.MemoizedByWrapper && entry.OriginHook != "" {
			diags = append(diags, diag(code, model.CategoryPerformance, model.SeverityLow, model.ConfidenceMedium,
				model.PotentialIssue, loc(file, dep.Line, 0), hook.Kind,
				entry.OriginHook, "",
				"\""+dep.Text+"\" is produced by \""+entry.OriginHook+"\", whose own dependencies should be checked for the same instability",
				"verify "+entry.OriginHook+"'s dependency list is itself stable"))
		}
	}
	return diags
}

// refineUnknownHookReturn consults the strict-mode type oracle for a
// dependency whose stability fell through to UnknownHookReturn: the oracle's
// type description is read for the coarsest possible signal (does it look
// like an array, a plain object, or a function type) rather than parsed as a
// real type grammar, since the core only ever treats it as an opaque string.
func (e *Engine) refineUnknownHookReturn(entry model.StabilityEntry, dep model.DepEntry) model.StabilityEntry {
	desc, ok := e.Oracle.TypeOf(dep.Node)
	if !ok || desc == "" {
		return entry
	}
	switch {
	case strings.Contains(desc, "[]") || strings.Contains(desc, "Array"):
		entry.Class = model.UnstableArray
	case strings.Contains(desc, "=>") || strings.Contains(desc, "Function"):
		entry.Class = model.UnstableFunction
	case strings.Contains(desc, "{") || strings.Contains(desc, "Object"):
		entry.Class = model.UnstableObject
	}
	return entry
}

func depRuleFor(entry model.StabilityEntry) (code string, severity model.Severity) {
	switch entry.Class {
	case model.UnstableObject:
		return "RLD-400", model.SeverityMedium
	case model.UnstableArray:
		return "RLD-401", model.SeverityMedium
	case model.UnstableFunction:
		return "RLD-402", model.SeverityMedium
	case model.UnstableCall, model.UnknownHookReturn:
		return "RLD-403", model.SeverityLow
	}
	return "", ""
}

// selfModifyingMemo implements RLD-420: a memoization hook whose dependency
// list contains a variable it also modifies (assigns to, or mutates in place
// with an array method such as push, inside its own callback) — potential
// issue, medium confidence.
func (e *Engine) selfModifyingMemo(file *model.ParsedFile, hook *model.HookCallSite) (model.Diagnostic, bool) {
	body := bodyNode(hook)
	if body == nil || !hook.HasDepList {
		return model.Diagnostic{}, false
	}
	for _, dep := range hook.DepList {
		if assignsTo(body, dep.RootName, file.SourceText) {
			return diag("RLD-420", model.CategoryWarning, model.SeverityMedium, model.ConfidenceMedium,
				model.PotentialIssue, loc(file, dep.Line, 0), hook.Kind,
				dep.Text, "",
				"\""+dep.Text+"\" is both a dependency of this hook and modified inside its callback",
				"remove the self-referential write, or split the write into a separate effect"), true
		}
	}
	return model.Diagnostic{}, false
}

// assignsTo reports whether body modifies identifier `name` anywhere in its
// subtree: a direct assignment (`name = ...`, `name += ...`, etc., or
// `name++`) or an in-place array mutator call such as `name.push(...)`.
func assignsTo(body *sitter.Node, name string, src []byte) bool {
	found := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || found {
			return
		}
		switch n.Type() {
		case "assignment_expression":
			if lhs := n.ChildByFieldName("left"); lhs != nil && lhs.Type() == "identifier" && lhs.Content(src) == name {
				found = true
				return
			}
		case "update_expression":
			if arg := n.ChildByFieldName("argument"); arg != nil && arg.Type() == "identifier" && arg.Content(src) == name {
				found = true
				return
			}
		case "call_expression":
			if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "member_expression" {
				obj, prop := fn.ChildByFieldName("object"), fn.ChildByFieldName("property")
				if obj != nil && prop != nil && obj.Type() == "identifier" && obj.Content(src) == name {
					switch prop.Content(src) {
					case "push", "pop", "shift", "unshift", "splice", "sort", "reverse", "fill", "copyWithin":
						found = true
						return
					}
				}
			}
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt && !found; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)
	return found
}
