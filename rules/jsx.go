package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// jsxProviderAndMemoProps implements RLD-404 (context provider unstable
// value, always reported) and RLD-405 (memoization-breaking prop, only for
// memoized recipients) over one component's render body.
func (e *Engine) jsxProviderAndMemoProps(file *model.ParsedFile, comp model.Component, stability *stabilityIndex) []model.Diagnostic {
	body, _ := comp.BodyNode.(*sitter.Node)
	if body == nil {
		return nil
	}
	contexts := map[string]bool{}
	for _, c := range file.CreatedContexts {
		contexts[c] = true
	}

	var diags []model.Diagnostic
	for _, el := range collectJSXElements(body) {
		tag := jsxTagName(el, file.SourceText)
		if tag == "" {
			continue
		}
		if isContextProvider(tag, contexts) {
			diags = append(diags, e.providerDiagnostic(file, comp, el, tag, stability)...)
			continue
		}
		if isHTMLTag(tag) {
			continue
		}
		if e.isMemoizedRecipient(file, tag) {
			diags = append(diags, e.memoPropDiagnostics(file, comp, el, tag, stability)...)
		}
	}
	return diags
}

func isContextProvider(tag string, contexts map[string]bool) bool {
	for i := len(tag) - 1; i >= 0; i-- {
		if tag[i] == '.' {
			return tag[i+1:] == "Provider" && contexts[tag[:i]]
		}
	}
	return false
}

func isHTMLTag(tag string) bool {
	return tag != "" && !isCapitalized(tag) && tag[0] != '.'
}

func (e *Engine) isMemoizedRecipient(file *model.ParsedFile, tag string) bool {
	root := tag
	for i, c := range tag {
		if c == '.' {
			root = tag[:i]
			break
		}
	}
	for _, n := range file.MemoizedComponentNames {
		if n == root {
			return true
		}
	}
	return e.Cross.IsMemoizedComponentRef(file, root)
}

func (e *Engine) providerDiagnostic(file *model.ParsedFile, comp model.Component, el *sitter.Node, tag string, stability *stabilityIndex) []model.Diagnostic {
	value := jsxAttribute(el, "value", file.SourceText)
	if value == nil {
		return nil
	}
	if !isUnstableExpr(value, comp.Name, file.SourceText, stability) {
		return nil
	}
	line, col := pos(el)
	return []model.Diagnostic{diag("RLD-404", model.CategoryPerformance, model.SeverityMedium, model.ConfidenceHigh,
		model.PotentialIssue, loc(file, line, col), model.HookContext,
		tag, "",
		"\""+tag+"\" is provided a new reference on every render, invalidating every consumer",
		"wrap the provider value in useMemo")}
}

func (e *Engine) memoPropDiagnostics(file *model.ParsedFile, comp model.Component, el *sitter.Node, tag string, stability *stabilityIndex) []model.Diagnostic {
	var diags []model.Diagnostic
	cnt := int(el.NamedChildCount())
	for i := 0; i < cnt; i++ {
		attr := el.NamedChild(i)
		if attr.Type() != "jsx_attribute" {
			continue
		}
		nameNode := attr.ChildByFieldName("name")
		if nameNode == nil || nameNode.Content(file.SourceText) == "children" {
			continue
		}
		val := jsxAttribute(el, nameNode.Content(file.SourceText), file.SourceText)
		if val == nil || !isUnstableExpr(val, comp.Name, file.SourceText, stability) {
			continue
		}
		line, col := pos(attr)
		diags = append(diags, diag("RLD-405", model.CategoryPerformance, model.SeverityMedium, model.ConfidenceHigh,
			model.PotentialIssue, loc(file, line, col), "",
			nameNode.Content(file.SourceText), "",
			"prop \""+nameNode.Content(file.SourceText)+"\" passed to memoized component \""+tag+"\" is a new reference every render, defeating its memoization",
			"wrap the value in useMemo/useCallback before passing it down"))
	}
	return diags
}

// isUnstableExpr reports whether expr is an inline unstable literal (object,
// array, or function) or an identifier classified unstable in the given
// component's stability table.
func isUnstableExpr(expr *sitter.Node, component string, src []byte, stability *stabilityIndex) bool {
	switch expr.Type() {
	case "object", "array", "arrow_function", "function_expression":
		return true
	case "identifier":
		entry, ok := stability.classify(component, expr.Content(src))
		if !ok {
			return false
		}
		switch entry.Class {
		case model.UnstableObject, model.UnstableArray, model.UnstableFunction, model.UnstableCall:
			return true
		}
		return false
	case "member_expression":
		root := rootIdentOf(expr, src)
		entry, ok := stability.classify(component, root)
		return ok && entry.Class != model.Stable && entry.Class != model.PrimitiveDerived
	}
	return false
}
