package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// calleeName mirrors semantic.calleeName (unexported there) so rules can
// classify call expressions without importing semantic's internals.
func calleeName(n *sitter.Node, src []byte) (full, namespace, member string) {
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

func rootIdentOf(n *sitter.Node, src []byte) string {
	for n != nil && n.Type() == "member_expression" {
		n = n.ChildByFieldName("object")
	}
	if n == nil {
		return ""
	}
	return n.Content(src)
}

func isCapitalized(s string) bool {
	return s != "" && strings.ToUpper(s[:1]) == s[:1] && strings.ToLower(s[:1]) != s[:1]
}

// containsRange reports whether outer's byte span fully contains inner's.
func containsRange(outer, inner *sitter.Node) bool {
	return outer.StartByte() <= inner.StartByte() && outer.EndByte() >= inner.EndByte()
}

// collectCallsDeep walks every descendant of n (including inside nested
// function literals) collecting call_expression nodes for which match
// returns true. Used where the spec does not restrict to render phase
// (effect/memo callback bodies).
func collectCallsDeep(n *sitter.Node, src []byte, match func(full, namespace, member string) bool) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call_expression" {
			full, ns, member := calleeName(n, src)
			if match(full, ns, member) {
				out = append(out, n)
			}
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(n)
	return out
}

// topLevelAssignments finds every assignment_expression directly inside
// body's own statement list (not inside a nested function literal) whose
// left-hand side matches match(lhsText).
func topLevelAssignments(body *sitter.Node, src []byte, match func(lhs *sitter.Node) bool) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "assignment_expression" {
			if lhs := n.ChildByFieldName("left"); lhs != nil && match(lhs) {
				out = append(out, n)
			}
		}
		if isFunctionLiteral(n) {
			return
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt; i++ {
			walk(n.NamedChild(i))
		}
	}
	cnt := int(body.NamedChildCount())
	for i := 0; i < cnt; i++ {
		walk(body.NamedChild(i))
	}
	return out
}

// collectJSXElements walks n collecting every jsx_opening_element /
// jsx_self_closing_element node — the two tree-sitter node shapes that carry
// a tag name and attribute list.
func collectJSXElements(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "jsx_opening_element", "jsx_self_closing_element":
			out = append(out, n)
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(n)
	return out
}

// jsxTagName returns a jsx element's tag text, e.g. "ThemeContext.Provider"
// or "Button".
func jsxTagName(el *sitter.Node, src []byte) string {
	name := el.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Content(src)
}

// jsxAttribute returns the value expression of the named attribute on a jsx
// opening/self-closing element, or nil if absent or not an expression
// container (`{expr}`).
func jsxAttribute(el *sitter.Node, attrName string, src []byte) *sitter.Node {
	cnt := int(el.NamedChildCount())
	for i := 0; i < cnt; i++ {
		attr := el.NamedChild(i)
		if attr.Type() != "jsx_attribute" {
			continue
		}
		nameNode := attr.ChildByFieldName("name")
		if nameNode == nil || nameNode.Content(src) != attrName {
			continue
		}
		val := attr.ChildByFieldName("value")
		if val == nil || val.Type() != "jsx_expression" {
			return nil
		}
		if val.NamedChildCount() == 0 {
			return nil
		}
		return val.NamedChild(0)
	}
	return nil
}

func isFunctionLiteral(n *sitter.Node) bool {
	switch n.Type() {
	case "arrow_function", "function_expression", "function_declaration", "method_definition":
		return true
	}
	return false
}

// topLevelSetterCalls finds every call to `setterName` directly inside
// body's own statement list — not inside any nested function/arrow literal
// — by walking each top-level statement and refusing to descend past a
// function-literal boundary.
func topLevelSetterCalls(body *sitter.Node, src []byte, setterName string) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call_expression" {
			full, _, _ := calleeName(n, src)
			if full == setterName {
				out = append(out, n)
			}
		}
		if isFunctionLiteral(n) {
			return // event handlers / nested functions are not render-phase
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt; i++ {
			walk(n.NamedChild(i))
		}
	}
	cnt := int(body.NamedChildCount())
	for i := 0; i < cnt; i++ {
		walk(body.NamedChild(i))
	}
	return out
}

// localFunctions collects name -> body (statement_block) for every
// function_declaration and `const f = (...) => {...}` / function expression
// declared directly inside body's top-level statement list, used to follow
// transitive setter writes (§4.5 RLD-200).
func localFunctions(body *sitter.Node, src []byte) map[string]*sitter.Node {
	out := map[string]*sitter.Node{}
	cnt := int(body.NamedChildCount())
	for i := 0; i < cnt; i++ {
		stmt := body.NamedChild(i)
		switch stmt.Type() {
		case "function_declaration":
			name := stmt.ChildByFieldName("name")
			fnBody := stmt.ChildByFieldName("body")
			if name != nil && fnBody != nil {
				out[name.Content(src)] = fnBody
			}
		case "lexical_declaration", "variable_declaration":
			dc := int(stmt.NamedChildCount())
			for j := 0; j < dc; j++ {
				decl := stmt.NamedChild(j)
				if decl.Type() != "variable_declarator" {
					continue
				}
				nameNode := decl.ChildByFieldName("name")
				valueNode := decl.ChildByFieldName("value")
				if nameNode == nil || nameNode.Type() != "identifier" || valueNode == nil {
					continue
				}
				if valueNode.Type() != "arrow_function" && valueNode.Type() != "function_expression" {
					continue
				}
				fnBody := valueNode.ChildByFieldName("body")
				if fnBody != nil && fnBody.Type() == "statement_block" {
					out[nameNode.Content(src)] = fnBody
				}
			}
		}
	}
	return out
}

// callsSetterTransitively reports whether fnBody calls setterName directly,
// or calls (bounded by maxDepth, guarded by visited) another local function
// that does.
func callsSetterTransitively(fnBody *sitter.Node, setterName string, locals map[string]*sitter.Node, src []byte, visited map[string]bool, depth, maxDepth int) bool {
	if depth > maxDepth {
		return false
	}
	found := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || found {
			return
		}
		if n.Type() == "call_expression" {
			full, _, _ := calleeName(n, src)
			if full == setterName {
				found = true
				return
			}
			if callee, ok := locals[full]; ok && !visited[full] {
				visited[full] = true
				if callsSetterTransitively(callee, setterName, locals, src, visited, depth+1, maxDepth) {
					found = true
					return
				}
			}
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt && !found; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(fnBody)
	return found
}

// nearestEnclosingIf walks body looking for target, returning the innermost
// if_statement condition whose consequence or alternative contains target,
// and whether target was found on the true (consequence) side.
func nearestEnclosingIf(body, target *sitter.Node) (cond *sitter.Node, onTrue bool, branch *sitter.Node, ok bool) {
	var innermostCond *sitter.Node
	var innermostOnTrue bool
	var innermostBranch *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "if_statement" {
			c := n.ChildByFieldName("consequence")
			a := n.ChildByFieldName("alternative")
			if c != nil && containsRange(c, target) {
				innermostCond = n.ChildByFieldName("condition")
				innermostOnTrue = true
				innermostBranch = n
			} else if a != nil && containsRange(a, target) {
				innermostCond = n.ChildByFieldName("condition")
				innermostOnTrue = false
				innermostBranch = n
			}
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)
	if innermostCond == nil {
		return nil, false, nil, false
	}
	return innermostCond, innermostOnTrue, innermostBranch, true
}

// isOneShotGuardPattern recognizes `if (!flag) { setFlag(true); }` and the
// derived-state diff idiom `if (prop !== prev) setPrev(prop);` directly over
// the AST — used for the render-phase one-shot exemption in §4.5 RLD-100,
// which needs the pattern classified before any CFG even exists.
func isOneShotGuardPattern(ifStmt *sitter.Node, setterName, trackedVar string, src []byte) bool {
	cond := ifStmt.ChildByFieldName("condition")
	if cond == nil {
		return false
	}
	for cond.Type() == "parenthesized_expression" && cond.NamedChildCount() == 1 {
		cond = cond.NamedChild(0)
	}
	switch cond.Type() {
	case "unary_expression":
		if cond.ChildByFieldName("operator").Content(src) == "!" {
			operand := cond.ChildByFieldName("argument")
			return operand != nil && operand.Content(src) == trackedVar
		}
	case "binary_expression":
		op := cond.ChildByFieldName("operator").Content(src)
		left := cond.ChildByFieldName("left")
		right := cond.ChildByFieldName("right")
		if left == nil || right == nil {
			return false
		}
		return (op == "!==" || op == "!=") &&
			(left.Content(src) == trackedVar || right.Content(src) == trackedVar)
	}
	return false
}
