package semantic

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// handleFunctionDeclaration records a top-level named function as a
// Component when its identifier is capitalized, then walks its body with a
// component-scoped hook traversal.
func (e *extractor) handleFunctionDeclaration(n *sitter.Node, scope *model.Scope) {
	nameNode := n.ChildByFieldName("name")
	name := e.text(nameNode)
	body := n.ChildByFieldName("body")
	if isCapitalized(name) {
		e.file.Components = append(e.file.Components, model.Component{
			Name: name, Kind: model.NamedFunction,
			BodyStart: int(bodyStart(n, body)), BodyEnd: int(bodyEnd(n, body)),
			StartLine: e.line(n), EndLine: e.lineEnd(n),
			BodyNode: body,
		})
	}
	if body == nil {
		return
	}
	compScope := model.NewScope(scope.ID+"."+name, componentOrFunctionKind(name), scope, int(body.StartByte()), int(body.EndByte()))
	e.walkComponentBody(body, compScope, name)
}

func bodyStart(n, body *sitter.Node) uint32 {
	if body != nil {
		return body.StartByte()
	}
	return n.StartByte()
}

func bodyEnd(n, body *sitter.Node) uint32 {
	if body != nil {
		return body.EndByte()
	}
	return n.EndByte()
}

func componentOrFunctionKind(name string) string {
	if isCapitalized(name) {
		return "component"
	}
	return "function"
}

func (e *extractor) lineEnd(n *sitter.Node) int { return int(n.EndPoint().Row) + 1 }

// walkComponentBody walks a function/component body's top-level statements,
// recognizing state bindings and hook call sites scoped to `componentName`
// (empty string means module-scope / a plain nested function).
func (e *extractor) walkComponentBody(body *sitter.Node, scope *model.Scope, componentName string) {
	cnt := int(body.NamedChildCount())
	for i := 0; i < cnt; i++ {
		e.walkStmtInComponent(body.NamedChild(i), scope, componentName)
	}
}

func (e *extractor) walkStmtInComponent(n *sitter.Node, scope *model.Scope, componentName string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		e.handleVariableDeclaration(n, scope, componentName)
	case "function_declaration":
		e.handleFunctionDeclaration(n, scope)
		return
	case "expression_statement", "return_statement":
		e.walkExprInComponent(n, scope, componentName)
		return
	case "statement_block":
		child := model.NewScope(blockID(scope, n), "block", scope, int(n.StartByte()), int(n.EndByte()))
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt; i++ {
			e.walkStmtInComponent(n.NamedChild(i), child, componentName)
		}
		return
	default:
		e.walkExprInComponent(n, scope, componentName)
		return
	}
	// Declarations only: walk each declarator's initializer for hook calls,
	// skipping component bodies handleVariableDeclaration already walked.
	cnt := int(n.NamedChildCount())
	for i := 0; i < cnt; i++ {
		child := n.NamedChild(i)
		if child.Type() == "statement_block" || child.Type() == "function_declaration" {
			continue
		}
		if v := child.ChildByFieldName("value"); v != nil && (v.Type() == "arrow_function" || v.Type() == "function_expression") && isCapitalized(e.text(child.ChildByFieldName("name"))) {
			continue
		}
		e.walkStmtInComponent(child, scope, componentName)
	}
}

func (e *extractor) walkExprInComponent(n *sitter.Node, scope *model.Scope, componentName string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "call_expression":
		e.handlePossibleHookCall(n, scope, componentName)
	}
	cnt := int(n.NamedChildCount())
	for i := 0; i < cnt; i++ {
		e.walkExprInComponent(n.NamedChild(i), scope, componentName)
	}
}
