package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// renderPhaseWrites implements RLD-100/RLD-101 (§4.5): a setter invoked
// directly in the component body, outside any nested function/hook
// callback/event handler, and not behind a recognized one-shot guard.
func (e *Engine) renderPhaseWrites(file *model.ParsedFile, comp model.Component, setters map[string][]model.StateBinding) []model.Diagnostic {
	body, _ := comp.BodyNode.(*sitter.Node)
	if body == nil {
		return nil
	}
	var diags []model.Diagnostic
	for _, sv := range setters[comp.Name] {
		for _, call := range topLevelSetterCalls(body, file.SourceText, sv.SetterName) {
			if isOneShotGuarded(body, call, sv, file.SourceText) {
				continue
			}
			code := "RLD-100"
			if sv.DeclaringHook == model.DeclaredByReducer {
				code = "RLD-101"
			}
			line, col := pos(call)
			diags = append(diags, diag(code, model.CategoryCritical, model.SeverityHigh, model.ConfidenceHigh,
				model.ConfirmedInfiniteLoop, loc(file, line, col), "",
				"", sv.SetterName,
				"setter \""+sv.SetterName+"\" is called unconditionally during render, re-triggering render on every pass",
				"move this call into an event handler or a useEffect, or guard it so it only runs once"))
		}
	}
	return diags
}

// isOneShotGuarded recognizes `if (!flag) { setFlag(true); }` and the
// derived-state diff idiom `if (prop !== prev) setPrev(prop);` (§4.5,
// §9 Open Question #2): the call's nearest enclosing if, guarding on the
// setter's own tracked value, on the true (consequence) side.
func isOneShotGuarded(body, call *sitter.Node, sv model.StateBinding, src []byte) bool {
	_, onTrue, branch, ok := nearestEnclosingIf(body, call)
	if !ok || !onTrue || branch == nil {
		return false
	}
	return isOneShotGuardPattern(branch, sv.SetterName, sv.Name, src)
}

// renderPhaseRefMutation implements RLD-600: a member assignment to
// `X.current` executed directly in the component body (not nested), where X
// is a ref declared by the ref-hook and the assigned expression reads a
// tracked state variable.
func (e *Engine) renderPhaseRefMutation(file *model.ParsedFile, comp model.Component, setters map[string][]model.StateBinding) []model.Diagnostic {
	body, _ := comp.BodyNode.(*sitter.Node)
	if body == nil {
		return nil
	}
	refs := refNamesIn(body, file.SourceText)
	if len(refs) == 0 {
		return nil
	}
	tracked := map[string]bool{}
	for _, sv := range setters[comp.Name] {
		tracked[sv.Name] = true
	}
	if len(tracked) == 0 {
		return nil
	}

	var diags []model.Diagnostic
	for _, assign := range topLevelAssignments(body, file.SourceText, func(lhs *sitter.Node) bool {
		return isRefCurrentAccess(lhs, refs, file.SourceText)
	}) {
		rhs := assign.ChildByFieldName("right")
		if rhs == nil {
			continue
		}
		var readName string
		for name := range tracked {
			if exprReadsName(rhs, name, file.SourceText) {
				readName = name
				break
			}
		}
		if readName == "" {
			continue
		}
		line, col := pos(assign)
		diags = append(diags, diag("RLD-600", model.CategoryWarning, model.SeverityMedium, model.ConfidenceMedium,
			model.PotentialIssue, loc(file, line, col), model.HookRef,
			readName, "",
			"ref mutated during render using a tracked state value; this does not re-render but can mask stale reads",
			"move this assignment into a useEffect or event handler"))
	}
	return diags
}

func isRefCurrentAccess(lhs *sitter.Node, refs map[string]bool, src []byte) bool {
	if lhs.Type() != "member_expression" {
		return false
	}
	prop := lhs.ChildByFieldName("property")
	obj := lhs.ChildByFieldName("object")
	if prop == nil || obj == nil || prop.Content(src) != "current" {
		return false
	}
	return obj.Type() == "identifier" && refs[obj.Content(src)]
}

// refNamesIn finds every `const X = useRef(...)` (bare or namespaced)
// declared directly in body's top-level statement list.
func refNamesIn(body *sitter.Node, src []byte) map[string]bool {
	out := map[string]bool{}
	cnt := int(body.NamedChildCount())
	for i := 0; i < cnt; i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() != "lexical_declaration" && stmt.Type() != "variable_declaration" {
			continue
		}
		dc := int(stmt.NamedChildCount())
		for j := 0; j < dc; j++ {
			decl := stmt.NamedChild(j)
			if decl.Type() != "variable_declarator" {
				continue
			}
			name := decl.ChildByFieldName("name")
			value := decl.ChildByFieldName("value")
			if name == nil || name.Type() != "identifier" || value == nil || value.Type() != "call_expression" {
				continue
			}
			full, _, member := calleeName(value, src)
			if full == "useRef" || member == "useRef" {
				out[name.Content(src)] = true
			}
		}
	}
	return out
}

// exprReadsName reports whether name appears as a free identifier anywhere
// inside expr.
func exprReadsName(expr *sitter.Node, name string, src []byte) bool {
	if expr == nil {
		return false
	}
	if expr.Type() == "identifier" && expr.Content(src) == name {
		return true
	}
	cnt := int(expr.NamedChildCount())
	for i := 0; i < cnt; i++ {
		if exprReadsName(expr.NamedChild(i), name, src) {
			return true
		}
	}
	return false
}

func pos(n *sitter.Node) (line, col int) {
	return int(n.StartPoint().Row) + 1, int(n.StartPoint().Column) + 1
}
