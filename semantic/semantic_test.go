package semantic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/inspector"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/semantic"
)

func parse(t *testing.T, path, src string) *model.ParsedFile {
	t.Helper()
	d := inspector.New(nil, semantic.DefaultOptions(), nil)
	file, err := d.ParseSource(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return file
}

func stabilityOf(file *model.ParsedFile, component, name string) (model.StabilityClass, bool) {
	for _, e := range file.VariableStability {
		if e.Name == name && e.Component == component {
			return e.Class, true
		}
	}
	return "", false
}

func TestComponents_NamedFunctionAndArrowVariable(t *testing.T) {
	file := parse(t, "A.jsx", `
function Named() { return null; }
const Arrow = () => { return null; };
const notAComponent = () => 1;
`)
	require.Len(t, file.Components, 2)
	names := map[string]model.ComponentKind{}
	for _, c := range file.Components {
		names[c.Name] = c.Kind
	}
	assert.Equal(t, model.NamedFunction, names["Named"])
	assert.Equal(t, model.ArrowVariable, names["Arrow"])
	_, isComponent := names["notAComponent"]
	assert.False(t, isComponent, "lowercase identifiers are never components")
}

func TestStateBinding_SetterCapturedRegardlessOfSurfaceName(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget() {
  const [count, weirdNameForSetter] = useState(0);
  return null;
}
`)
	require.Len(t, file.StateVars, 1)
	assert.Equal(t, "count", file.StateVars[0].Name)
	assert.Equal(t, "weirdNameForSetter", file.StateVars[0].SetterName)
	assert.Equal(t, model.DeclaredByState, file.StateVars[0].DeclaringHook)
}

func TestStateBinding_ReducerDispatchIsSetter(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget() {
  const [state, dispatch] = useReducer(reducer, {});
  return null;
}
`)
	require.Len(t, file.StateVars, 1)
	assert.Equal(t, "dispatch", file.StateVars[0].SetterName)
	assert.Equal(t, model.DeclaredByReducer, file.StateVars[0].DeclaringHook)
}

func TestStability_ObjectAndArrayLiterals(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget() {
  const cfg = { a: 1 };
  const list = [1, 2, 3];
  return null;
}
`)
	cls, ok := stabilityOf(file, "Widget", "cfg")
	require.True(t, ok)
	assert.Equal(t, model.UnstableObject, cls)

	cls, ok = stabilityOf(file, "Widget", "list")
	require.True(t, ok)
	assert.Equal(t, model.UnstableArray, cls)
}

func TestStability_FunctionExpressionUnstable(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget() {
  const onClick = () => doThing();
  return null;
}
`)
	cls, ok := stabilityOf(file, "Widget", "onClick")
	require.True(t, ok)
	assert.Equal(t, model.UnstableFunction, cls)
}

func TestStability_MemoizationWrapperRecognized(t *testing.T) {
	file := parse(t, "A.jsx", `
import { useCallback } from "react";
function Widget() {
  const onClick = useCallback(() => doThing(), []);
  return null;
}
`)
	cls, ok := stabilityOf(file, "Widget", "onClick")
	require.True(t, ok)
	assert.Equal(t, model.MemoizedByWrapper, cls)
}

func TestStability_KnownStableHookFromConfig(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget() {
  const id = useId();
  return null;
}
`)
	cls, ok := stabilityOf(file, "Widget", "id")
	require.True(t, ok)
	assert.Equal(t, model.Stable, cls)
}

func TestStability_UnknownCustomHookDefaultsStable(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget() {
  const thing = useSomeCustomHook();
  return null;
}
`)
	cls, ok := stabilityOf(file, "Widget", "thing")
	require.True(t, ok)
	assert.Equal(t, model.Stable, cls, "Open Question #1 default: unknown custom hooks are conservatively Stable")
}

func TestStability_ArrayChainCallProducesUnstableArray(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget({ items }) {
  const doubled = items.map(x => x * 2);
  return null;
}
`)
	cls, ok := stabilityOf(file, "Widget", "doubled")
	require.True(t, ok)
	assert.Equal(t, model.UnstableArray, cls)
}

func TestStability_MemberExpressionInheritsRootClass(t *testing.T) {
	file := parse(t, "A.jsx", `
function Widget() {
  const cfg = { a: 1 };
  const nested = cfg.a;
  return null;
}
`)
	// round-trip property (§8): classification of a.b equals classification
	// of the root identifier a.
	cls, ok := stabilityOf(file, "Widget", "cfg")
	require.True(t, ok)
	nestedCls, nok := stabilityOf(file, "Widget", "nested")
	require.True(t, nok)
	assert.Equal(t, cls, nestedCls)
}

func TestCreatedContext_Recorded(t *testing.T) {
	file := parse(t, "A.jsx", `
import { createContext } from "react";
const ThemeContext = createContext(null);
`)
	assert.Contains(t, file.CreatedContexts, "ThemeContext")
}

func TestExports_DefaultMemoWrapperPropagatesFlag(t *testing.T) {
	file := parse(t, "A.jsx", `
import { memo } from "react";
function Widget() { return null; }
export default memo(Widget);
`)
	var found bool
	for _, ex := range file.Exports {
		if ex.IsDefault {
			found = true
			assert.True(t, ex.IsMemoizedComponent)
		}
	}
	assert.True(t, found, "expected a default export")
}

func TestImports_NamedAndNamespaceKinds(t *testing.T) {
	file := parse(t, "A.jsx", `
import { useState, useEffect } from "react";
import * as Utils from "./utils";
import Default from "./default";
`)
	kinds := map[string]model.ImportKind{}
	for _, imp := range file.Imports {
		kinds[imp.SourceSpecifier] = imp.Kind
	}
	assert.Equal(t, model.ImportNamed, kinds["react"])
	assert.Equal(t, model.ImportNamespace, kinds["./utils"])
	assert.Equal(t, model.ImportDefault, kinds["./default"])
}

func TestHookCallSite_DependencyArrayAbsentVsEmpty(t *testing.T) {
	file := parse(t, "A.jsx", `
import { useEffect } from "react";
function Widget() {
  useEffect(() => { doThing(); });
  useEffect(() => { doThing(); }, []);
  return null;
}
`)
	require.Len(t, file.Hooks, 2)
	assert.False(t, file.Hooks[0].HasDepList)
	assert.True(t, file.Hooks[1].HasDepList)
	assert.Empty(t, file.Hooks[1].DepList)
}
