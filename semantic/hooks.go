package semantic

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// hookDepArgIndex is the argument position of the dependency list by hook
// kind; imperative-handle-like hooks take it at index 2, every other
// dependency-bearing hook at index 1.
var hookNameKind = map[string]model.HookKind{
	"useEffect":             model.HookEffect,
	"useLayoutEffect":       model.HookLayoutEffect,
	"useMemo":               model.HookMemo,
	"useCallback":           model.HookCallback,
	"useImperativeHandle":   model.HookImperativeHandle,
	"useSyncExternalStore":  model.HookSyncExternalStore,
	"useReducer":            model.HookReducer,
	"useState":              model.HookState,
	"useRef":                model.HookRef,
	"useContext":            model.HookContext,
}

func hookDepArgIndex(kind model.HookKind) int {
	if kind == model.HookImperativeHandle {
		return 2
	}
	return 1
}

// handlePossibleHookCall records a HookCallSite when call's callee matches
// a recognized hook name (bare or namespaced, e.g. `React.useEffect`).
func (e *extractor) handlePossibleHookCall(n *sitter.Node, scope *model.Scope, componentName string) {
	full, _, member := calleeName(n, e.src)
	kind, ok := hookNameKind[full]
	if !ok {
		kind, ok = hookNameKind[member]
	}
	if !ok {
		return
	}

	args := n.ChildByFieldName("arguments")
	site := model.HookCallSite{
		Kind: kind, EnclosingComponent: componentName,
		Line: e.line(n), Column: e.column(n),
		CallNode: n,
	}

	depIdx := hookDepArgIndex(kind)
	var callback *sitter.Node
	if args != nil {
		argList := namedArgs(args)
		if len(argList) > 0 {
			callback = argList[0]
		}
		if len(argList) > depIdx {
			depNode := argList[depIdx]
			site.HasDepList = true
			site.DepList = e.extractDepList(depNode)
		}
	}
	if callback != nil && (callback.Type() == "arrow_function" || callback.Type() == "function_expression") {
		site.CallbackBodyStart = int(callback.StartByte())
		site.CallbackBodyEnd = int(callback.EndByte())
		body := functionBody(callback)
		if body == nil && callback.Type() == "arrow_function" {
			// expression-bodied arrow: treat the expression itself as the
			// callback body span for CFG purposes.
			if expr := callback.ChildByFieldName("body"); expr != nil {
				site.CallbackBodyStart = int(expr.StartByte())
				site.CallbackBodyEnd = int(expr.EndByte())
			}
		}
		if body != nil {
			site.CallbackBody = body
			// walk the callback body for nested hook calls / setter calls;
			// enclosing component stays the same so RLD rules can attribute
			// correctly, but we mark a synthetic "hook callback" scope so
			// render-phase rules can distinguish "inside a hook callback"
			// from "directly in component body".
			cbScope := model.NewScope(blockID(scope, body), "hook_callback", scope, int(body.StartByte()), int(body.EndByte()))
			e.walkComponentBody(body, cbScope, componentName)
		}
	}

	e.file.Hooks = append(e.file.Hooks, site)
}

func namedArgs(argsNode *sitter.Node) []*sitter.Node {
	cnt := int(argsNode.NamedChildCount())
	out := make([]*sitter.Node, 0, cnt)
	for i := 0; i < cnt; i++ {
		out = append(out, argsNode.NamedChild(i))
	}
	return out
}

// extractDepList reads a dependency-array literal node, preserving each
// element's textual form and root identifier. A present-but-empty array
// yields a non-nil empty slice, distinguishing it from HasDepList=false.
func (e *extractor) extractDepList(arr *sitter.Node) []model.DepEntry {
	if arr == nil || arr.Type() != "array" {
		return nil
	}
	cnt := int(arr.NamedChildCount())
	out := make([]model.DepEntry, 0, cnt)
	for i := 0; i < cnt; i++ {
		el := arr.NamedChild(i)
		out = append(out, model.DepEntry{
			Text:     e.text(el),
			RootName: rootIdentOf(el, e.src),
			Line:     e.line(el),
			Node:     el,
		})
	}
	return out
}
