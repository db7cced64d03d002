package propagate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// SetterEscapesImportedCall implements rules.CrossFile: true when
// importedName resolves, through file's import table, to an exported
// function whose body invokes one of its own parameters as a bare call
// somewhere in its top-level statement list. This is the cross-file analogue
// of the local "transitive write through a locally-defined function" check
// in rules/effect.go, but bounded to a single hop: the callee's own imports
// are never re-resolved, since propagate builds no CFG for files it isn't
// directly analyzing.
func (idx *Index) SetterEscapesImportedCall(file *model.ParsedFile, importedName string, setterName string) bool {
	imp, ok := findImportBinding(file, importedName)
	if !ok {
		return false
	}
	target, ok := idx.resolver.Resolve(file.Path, imp.SourceSpecifier)
	if !ok {
		return false
	}
	targetFile, ok := idx.files[target]
	if !ok {
		return false
	}
	ex, ok := matchingExport(targetFile, imp, importedName)
	if !ok {
		return false
	}
	fn := findNamedFunction(targetFile, ex.LocalName)
	if fn == nil {
		return false
	}
	params := fn.ChildByFieldName("parameters")
	body := fn.ChildByFieldName("body")
	if params == nil || body == nil {
		return false
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		name := paramName(params.NamedChild(i), targetFile.SourceText)
		if name == "" {
			continue
		}
		if callsParameterUnconditionally(body, name, targetFile.SourceText) {
			return true
		}
	}
	return false
}

// findNamedFunction locates a top-level function_declaration or
// `const name = (...) => {...}`/function-expression variable declarator
// matching name, walking the file's AST root directly since Export only
// records the name, not the declaring node.
func findNamedFunction(file *model.ParsedFile, name string) *sitter.Node {
	root, _ := file.ASTRoot.(*sitter.Node)
	if root == nil {
		return nil
	}
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || found != nil {
			return
		}
		switch n.Type() {
		case "function_declaration":
			if id := n.ChildByFieldName("name"); id != nil && id.Content(file.SourceText) == name {
				found = n
				return
			}
		case "variable_declarator":
			if id := n.ChildByFieldName("name"); id != nil && id.Content(file.SourceText) == name {
				if val := n.ChildByFieldName("value"); val != nil && (val.Type() == "arrow_function" || val.Type() == "function_expression") {
					found = val
					return
				}
			}
		}
		cnt := int(n.NamedChildCount())
		for i := 0; i < cnt && found == nil; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return found
}

func paramName(p *sitter.Node, src []byte) string {
	switch p.Type() {
	case "identifier":
		return p.Content(src)
	case "required_parameter", "optional_parameter":
		if id := p.ChildByFieldName("pattern"); id != nil && id.Type() == "identifier" {
			return id.Content(src)
		}
	case "parameter":
		if id := p.ChildByFieldName("name"); id != nil {
			return id.Content(src)
		}
	}
	return ""
}

// callsParameterUnconditionally reports whether body's top-level statement
// list (not nested inside any if/loop/function boundary) contains a plain
// expression-statement call to paramName --- the most conservative notion of
// "unconditional" available without building a CFG for the callee.
func callsParameterUnconditionally(body *sitter.Node, paramName string, src []byte) bool {
	if body.Type() != "statement_block" {
		return false
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		expr := stmt.NamedChild(0)
		if expr.Type() != "call_expression" {
			continue
		}
		fn := expr.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" && fn.Content(src) == paramName {
			return true
		}
	}
	return false
}
