package semantic

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// handleExport records Export entries for every shape in §3/§4.3:
// `export default X`, `export const X = ...`, `export function X(){}`,
// `export { A as B }`, and re-exports (`export { X } from "./m"`), carrying
// through the is_memoized_component flag via alias chains.
func (e *extractor) handleExport(n *sitter.Node, scope *model.Scope) {
	line := e.line(n)
	isDefault := containsDefaultKeyword(n)
	src := n.NamedChild(0)
	reExportSource := ""
	if s := n.ChildByFieldName("source"); s != nil {
		reExportSource = strings.Trim(e.text(s), `"'`)
	}

	if src == nil {
		return
	}

	switch src.Type() {
	case "function_declaration", "class_declaration", "lexical_declaration", "variable_declaration":
		// declaration exported in place: descend so the declaration is
		// still recorded as a component/variable, then record the export.
		e.walkStmtInComponent(src, scope, "")
		name := declaredName(src, e.src)
		e.file.Exports = append(e.file.Exports, model.Export{
			LocalName: name, ExportedName: exportedNameOrDefault(name, isDefault), IsDefault: isDefault,
			IsMemoizedComponent: e.isNameMemoized(name), Line: line,
		})
	case "export_clause":
		cnt := int(src.NamedChildCount())
		for i := 0; i < cnt; i++ {
			spec := src.NamedChild(i)
			local := e.text(spec.ChildByFieldName("name"))
			exported := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = e.text(alias)
			}
			e.file.Exports = append(e.file.Exports, model.Export{
				LocalName: local, ExportedName: exported, IsDefault: exported == "default",
				IsMemoizedComponent: e.isNameMemoized(local), Line: line,
			})
			if reExportSource != "" {
				e.file.Imports = append(e.file.Imports, model.Import{
					SourceSpecifier: reExportSource, LocalBindings: []string{local}, Kind: model.ImportReExport, Line: line,
				})
			}
		}
	default:
		// `export default <expr>` where expr is an identifier, a call
		// (e.g. `export default memo(X)`), or an inline component.
		name := ""
		if src.Type() == "identifier" {
			name = e.text(src)
		}
		memoized := e.isNameMemoized(name)
		if src.Type() == "call_expression" && e.isMemoWrapperCall(src) {
			memoized = true
		}
		e.file.Exports = append(e.file.Exports, model.Export{
			LocalName: name, ExportedName: "default", IsDefault: true,
			IsMemoizedComponent: memoized, Line: line,
		})
	}
}

func containsDefaultKeyword(n *sitter.Node) bool {
	cnt := int(n.ChildCount())
	for i := 0; i < cnt; i++ {
		if n.Child(i).Type() == "default" {
			return true
		}
	}
	return false
}

func declaredName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "function_declaration", "class_declaration":
		return n.ChildByFieldName("name").Content(src)
	case "lexical_declaration", "variable_declaration":
		if n.NamedChildCount() > 0 {
			d := n.NamedChild(0)
			if nm := d.ChildByFieldName("name"); nm != nil {
				return nm.Content(src)
			}
		}
	}
	return ""
}

func exportedNameOrDefault(name string, isDefault bool) string {
	if isDefault {
		return "default"
	}
	return name
}

func (e *extractor) isNameMemoized(name string) bool {
	if name == "" {
		return false
	}
	for _, n := range e.file.MemoizedComponentNames {
		if n == name {
			return true
		}
	}
	return false
}
