package semantic

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// stateHookNames / reducerHookNames are the framework's built-in state
// hooks recognized by the `[value, setter] = hook(...)` destructuring
// pattern in §4.2. Custom hooks matching configured stable/unstable
// name/pattern lists are consulted separately in classifyFromCall.
var stateHookNames = map[string]bool{"useState": true}
var reducerHookNames = map[string]bool{"useReducer": true}

// handleVariableDeclaration processes every declarator in a
// lexical/variable declaration: component detection for capitalized
// function-valued identifiers, state-binding recognition for
// `[value, setter] = hook(...)`, created-context recording, and stability
// classification for everything else.
func (e *extractor) handleVariableDeclaration(n *sitter.Node, scope *model.Scope, componentName string) {
	cnt := int(n.NamedChildCount())
	for i := 0; i < cnt; i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		value := decl.ChildByFieldName("value")
		if name == nil {
			continue
		}

		if name.Type() == "array_pattern" && value != nil && value.Type() == "call_expression" {
			if e.tryStateBinding(name, value, componentName) {
				continue
			}
		}

		if name.Type() != "identifier" {
			continue // destructuring from non-hook sources: best-effort skip
		}
		ident := e.text(name)

		if value != nil && (value.Type() == "arrow_function" || value.Type() == "function_expression") && isCapitalized(ident) {
			body := functionBody(value)
			e.file.Components = append(e.file.Components, model.Component{
				Name: ident, Kind: kindFor(value),
				BodyStart: int(value.StartByte()), BodyEnd: int(value.EndByte()),
				StartLine: e.line(n), EndLine: e.lineEnd(value),
				BodyNode: body,
			})
			if body != nil {
				compScope := model.NewScope(scope.ID+"."+ident, "component", scope, int(body.StartByte()), int(body.EndByte()))
				e.walkComponentBody(body, compScope, ident)
			}
			continue
		}

		if value != nil && value.Type() == "call_expression" {
			e.classifyFromCall(ident, value, scope, componentName)
			if e.isCreateContextCall(value) {
				e.file.CreatedContexts = append(e.file.CreatedContexts, ident)
			}
			if e.isMemoWrapperCall(value) {
				e.file.MemoizedComponentNames = append(e.file.MemoizedComponentNames, ident)
			}
			continue
		}

		e.classifyFromExpr(ident, value, scope, componentName)
	}
}

func kindFor(value *sitter.Node) model.ComponentKind {
	if value.Type() == "arrow_function" {
		return model.ArrowVariable
	}
	return model.FunctionExpr
}

func functionBody(value *sitter.Node) *sitter.Node {
	body := value.ChildByFieldName("body")
	if body == nil || body.Type() != "statement_block" {
		return nil // expression-bodied arrow: no block to walk for hooks
	}
	return body
}

// tryStateBinding recognizes `[value, setter] = stateHook(...)` /
// `[value, dispatch] = reducerHook(...)`; returns false if callee isn't a
// recognized state/reducer hook so the caller falls back to generic
// handling.
func (e *extractor) tryStateBinding(pattern, call *sitter.Node, componentName string) bool {
	full, _, _ := calleeName(call, e.src)
	declHook := model.StateBinding{}
	switch {
	case stateHookNames[full]:
		declHook.DeclaringHook = model.DeclaredByState
	case reducerHookNames[full]:
		declHook.DeclaringHook = model.DeclaredByReducer
	default:
		return false
	}
	if int(pattern.NamedChildCount()) < 2 {
		return false
	}
	valueName := e.text(pattern.NamedChild(0))
	setterName := e.text(pattern.NamedChild(1)) // second element is the setter, regardless of surface name
	e.file.StateVars = append(e.file.StateVars, model.StateBinding{
		Name: valueName, SetterName: setterName, DeclaringHook: declHook.DeclaringHook, Component: componentName,
	})
	e.setStability(setterName, componentName, model.SetterFromTrackedHook, "")
	e.setStability(valueName, componentName, model.PrimitiveDerived, "")
	return true
}

// classifyFromCall implements the call-expression branch of §4.2's
// stability table.
func (e *extractor) classifyFromCall(ident string, call *sitter.Node, scope *model.Scope, componentName string) {
	full, namespace, member := calleeName(call, e.src)
	switch {
	case e.opts.WrapperNames[full] || (namespace != "" && e.opts.WrapperNames[member] && e.isWrapperNamespace(namespace)),
		full == "useMemo" || full == "useCallback" || (namespace != "" && (member == "useMemo" || member == "useCallback")):
		e.setStability(ident, componentName, model.MemoizedByWrapper, full)
	case e.opts.StableHooks[full] || matchesAnyPattern(e.opts.StableHookPatterns, full):
		e.setStability(ident, componentName, model.Stable, "")
	case e.opts.UnstableHooks[full] || matchesAnyPattern(e.opts.UnstableHookPatterns, full):
		e.setStability(ident, componentName, model.UnstableObject, "")
	case isArrayChainCall(call, e.src):
		e.setStability(ident, componentName, model.UnstableArray, "")
	case isGetStateDestructure(full):
		e.setStability(ident, componentName, model.Stable, "")
	case full == "":
		e.setStability(ident, componentName, model.UnstableCall, "")
	default:
		if e.opts.UnknownHookStable {
			e.setStability(ident, componentName, model.Stable, "")
		} else {
			e.setStability(ident, componentName, model.UnknownHookReturn, "")
		}
	}
}

func (e *extractor) classifyFromExpr(ident string, value *sitter.Node, scope *model.Scope, componentName string) {
	if value == nil {
		return
	}
	switch value.Type() {
	case "object":
		e.setStability(ident, componentName, model.UnstableObject, "")
	case "array":
		e.setStability(ident, componentName, model.UnstableArray, "")
	case "arrow_function", "function_expression":
		e.setStability(ident, componentName, model.UnstableFunction, "")
	case "member_expression":
		root := rootIdentOf(value, e.src)
		if cls, ok := e.lookupStability(root, componentName); ok {
			e.setStability(ident, componentName, cls.Class, cls.OriginHook)
		}
	default:
		// literals and other syntactically-primitive expressions: treated
		// as primitive-derived, never flagged as unstable.
		e.setStability(ident, componentName, model.PrimitiveDerived, "")
	}
}

func (e *extractor) isWrapperNamespace(namespace string) bool {
	_, ok := e.importAlias[namespace]
	return ok
}

func (e *extractor) isCreateContextCall(call *sitter.Node) bool {
	full, _, member := calleeName(call, e.src)
	return full == "createContext" || member == "createContext"
}

func (e *extractor) isMemoWrapperCall(call *sitter.Node) bool {
	full, namespace, member := calleeName(call, e.src)
	if e.opts.WrapperNames[full] {
		return true
	}
	return namespace != "" && e.opts.WrapperNames[member]
}

func isArrayChainCall(call *sitter.Node, src []byte) bool {
	_, _, member := calleeName(call, src)
	switch member {
	case "map", "filter", "slice", "concat", "flatMap", "sort", "reverse":
		return true
	}
	return false
}

func isGetStateDestructure(full string) bool {
	return strings.HasSuffix(full, ".getState")
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

func (e *extractor) setStability(name, component string, class model.StabilityClass, origin string) {
	e.file.VariableStability = append(e.file.VariableStability, model.StabilityEntry{
		Name: name, Component: component, Class: class, OriginHook: origin,
	})
}

// lookupStability finds the most recently recorded stability entry for
// name, preferring the given component scope and falling back to module
// scope (component == "").
func (e *extractor) lookupStability(name, component string) (model.StabilityEntry, bool) {
	var found model.StabilityEntry
	ok := false
	for _, entry := range e.file.VariableStability {
		if entry.Name != name {
			continue
		}
		if entry.Component == component {
			found, ok = entry, true
		} else if entry.Component == "" && !ok {
			found, ok = entry, true
		}
	}
	return found, ok
}
