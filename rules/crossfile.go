package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// crossFileSetterEscape is the cross-file half of RLD-200 (§4.7): a tracked
// setter passed as a bare identifier argument into a call to an imported
// name, where e.Cross reports that the imported function is known to invoke
// that parameter unconditionally. Confidence is capped at medium and the
// finding is always a potential issue, never confirmed, since the callee's
// own control flow is resolved best-effort and not through a real CFG.
func (e *Engine) crossFileSetterEscape(file *model.ParsedFile, hook *model.HookCallSite, body *sitter.Node, sv model.StateBinding, dep model.DepEntry) []model.Diagnostic {
	imported := importedNames(file)
	if len(imported) == 0 {
		return nil
	}
	var diags []model.Diagnostic
	for _, call := range collectCallsDeep(body, file.SourceText, func(full, _, _ string) bool { return imported[full] }) {
		if !callPassesIdentifierArg(call, sv.SetterName, file.SourceText) {
			continue
		}
		full, _, _ := calleeName(call, file.SourceText)
		if !e.Cross.SetterEscapesImportedCall(file, full, sv.SetterName) {
			continue
		}
		line, col := pos(call)
		diags = append(diags, diag("RLD-200", model.CategoryCritical, model.SeverityHigh, model.ConfidenceMedium,
			model.PotentialIssue, loc(file, line, col), hook.Kind,
			dep.Text, sv.SetterName,
			"\""+sv.SetterName+"\" is passed into imported function \""+full+"\", which is known to invoke it unconditionally, and \""+dep.Text+"\" is in the dependency list",
			"check how \""+full+"\" uses the callback it receives, or remove "+dep.Text+" from the dependency list"))
	}
	return diags
}

func importedNames(file *model.ParsedFile) map[string]bool {
	out := map[string]bool{}
	for _, imp := range file.Imports {
		for _, b := range imp.LocalBindings {
			out[b] = true
		}
	}
	return out
}

func callPassesIdentifierArg(call *sitter.Node, name string, src []byte) bool {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return false
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		a := args.NamedChild(i)
		if a.Type() == "identifier" && a.Content(src) == name {
			return true
		}
	}
	return false
}
