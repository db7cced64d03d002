package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// unstableGetSnapshot implements RLD-407: the second argument to
// useSyncExternalStore (getSnapshot) is an inline function that constructs a
// new object/array on return (confirmed), or is an identifier classified as
// an unstable function (potential).
func (e *Engine) unstableGetSnapshot(file *model.ParsedFile, hook *model.HookCallSite, stability *stabilityIndex) (model.Diagnostic, bool) {
	call := callNode(hook)
	if call == nil {
		return model.Diagnostic{}, false
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || int(args.NamedChildCount()) < 2 {
		return model.Diagnostic{}, false
	}
	getSnapshot := args.NamedChild(1)
	line, col := pos(getSnapshot)

	switch getSnapshot.Type() {
	case "arrow_function", "function_expression":
		if !returnsFreshReference(getSnapshot, file.SourceText) {
			return model.Diagnostic{}, false
		}
		return diag("RLD-407", model.CategoryCritical, model.SeverityHigh, model.ConfidenceHigh,
			model.ConfirmedInfiniteLoop, loc(file, line, col), model.HookSyncExternalStore,
			"", "",
			"getSnapshot returns a newly constructed value on every call, so every render sees a changed snapshot",
			"return a stable reference, or memoize the constructed value outside getSnapshot"), true
	case "identifier":
		name := getSnapshot.Content(file.SourceText)
		entry, ok := stability.classify(hook.EnclosingComponent, name)
		if !ok || entry.Class != model.UnstableFunction {
			return model.Diagnostic{}, false
		}
		return diag("RLD-407", model.CategoryWarning, model.SeverityMedium, model.ConfidenceMedium,
			model.PotentialIssue, loc(file, line, col), model.HookSyncExternalStore,
			name, "",
			"getSnapshot (\""+name+"\") is classified as an unstable function reference",
			"wrap it in useCallback or hoist it outside the component"), true
	}
	return model.Diagnostic{}, false
}

// returnsFreshReference reports whether an inline getSnapshot function
// returns an object/array literal (directly, or via an array-chain call),
// either as an expression-bodied arrow or via a top-level return statement.
func returnsFreshReference(fn *sitter.Node, src []byte) bool {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return false
	}
	for body.Type() == "parenthesized_expression" && body.NamedChildCount() == 1 {
		body = body.NamedChild(0)
	}
	if body.Type() != "statement_block" {
		return isFreshLiteral(body, src)
	}
	found := false
	cnt := int(body.NamedChildCount())
	for i := 0; i < cnt; i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() != "return_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		if isFreshLiteral(stmt.NamedChild(0), src) {
			found = true
		}
	}
	return found
}

func isFreshLiteral(n *sitter.Node, src []byte) bool {
	switch n.Type() {
	case "object", "array":
		return true
	case "call_expression":
		_, _, member := calleeName(n, src)
		switch member {
		case "map", "filter", "slice", "concat", "flatMap":
			return true
		}
	}
	return false
}
