package semantic

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// handleImport records one import_statement and its alias table entries,
// generalizing analyzer/node.go's handleImportSpec (Go import aliasing) to
// JS's default/named/namespace import-clause shapes.
func (e *extractor) handleImport(n *sitter.Node) {
	source := n.ChildByFieldName("source")
	specifier := strings.Trim(e.text(source), `"'`)
	line := e.line(n)

	clause := n.NamedChild(0)
	if clause == nil || clause.Type() != "import_clause" {
		// bare `import "x"` side-effect import: no bindings.
		e.file.Imports = append(e.file.Imports, model.Import{
			SourceSpecifier: specifier, Kind: model.ImportNamed, Line: line,
		})
		return
	}

	var bindings []string
	kind := model.ImportNamed
	cnt := int(clause.NamedChildCount())
	for i := 0; i < cnt; i++ {
		part := clause.NamedChild(i)
		switch part.Type() {
		case "identifier":
			name := e.text(part)
			bindings = append(bindings, name)
			e.importAlias[name] = specifier
			kind = model.ImportDefault
		case "namespace_import":
			name := e.text(part.NamedChild(0))
			bindings = append(bindings, name)
			e.importAlias[name] = specifier
			kind = model.ImportNamespace
		case "named_imports":
			sub := int(part.NamedChildCount())
			for j := 0; j < sub; j++ {
				spec := part.NamedChild(j)
				aliasNode := spec.ChildByFieldName("alias")
				nameNode := spec.ChildByFieldName("name")
				localName := e.text(nameNode)
				if aliasNode != nil {
					localName = e.text(aliasNode)
				}
				bindings = append(bindings, localName)
				e.importAlias[localName] = specifier
			}
		}
	}
	e.file.Imports = append(e.file.Imports, model.Import{
		SourceSpecifier: specifier, LocalBindings: bindings, Kind: kind, Line: line,
	})
}
