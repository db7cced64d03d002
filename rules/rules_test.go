package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/inspector"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/orchestrator"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/rules"
)

func analyze(t *testing.T, path, src string) []model.Diagnostic {
	t.Helper()
	cfg := config.Default()
	d := inspector.New(nil, orchestrator.SemanticOptions(cfg), nil)
	file, err := d.ParseSource(context.Background(), path, []byte(src))
	require.NoError(t, err)
	engine := rules.New(cfg, nil)
	return engine.Analyze(file)
}

func codes(diags []model.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

// TestScenario_UnconditionalEffectSetter is spec.md §8 scenario 1.
func TestScenario_UnconditionalEffectSetter(t *testing.T) {
	diags := analyze(t, "Counter.jsx", `
import { useState, useEffect } from "react";
function Counter() {
  const [x, setX] = useState(0);
  useEffect(() => {
    setX(x + 1);
  }, [x]);
  return null;
}
`)
	var found *model.Diagnostic
	for i := range diags {
		if diags[i].Code == "RLD-200" {
			found = &diags[i]
		}
	}
	require.NotNil(t, found, "expected RLD-200, got %v", codes(diags))
	assert.Equal(t, model.CategoryCritical, found.Category)
	assert.Equal(t, model.ConfidenceHigh, found.Confidence)
	assert.Equal(t, "x", found.ProblematicDependency)
	assert.Equal(t, "setX", found.SetterFunction)
}

// TestScenario_EqualityGuardSuppresses is spec.md §8 scenario 2.
func TestScenario_EqualityGuardSuppresses(t *testing.T) {
	diags := analyze(t, "Widget.jsx", `
import { useState, useEffect } from "react";
function Widget({ newX }) {
  const [x, setX] = useState(0);
  useEffect(() => {
    if (x !== newX) setX(newX);
  }, [x, newX]);
  return null;
}
`)
	for _, d := range diags {
		assert.NotEqual(t, model.ConfirmedInfiniteLoop, d.Kind, "unexpected confirmed loop: %+v", d)
		assert.NotEqual(t, "RLD-200", d.Code)
		assert.NotEqual(t, "RLD-501", d.Code)
	}
}

// TestScenario_ObjectLiteralInDeps is spec.md §8 scenario 3.
func TestScenario_ObjectLiteralInDeps(t *testing.T) {
	diags := analyze(t, "Fetcher.jsx", `
import { useEffect } from "react";
function Fetcher() {
  const cfg = { url: "/a" };
  useEffect(() => {
    fetch(cfg.url);
  }, [cfg]);
  return null;
}
`)
	var found *model.Diagnostic
	for i := range diags {
		if diags[i].Code == "RLD-400" {
			found = &diags[i]
		}
	}
	require.NotNil(t, found, "expected RLD-400, got %v", codes(diags))
	assert.Equal(t, model.CategoryPerformance, found.Category)
	assert.Equal(t, "cfg", found.ProblematicDependency)
}

// TestScenario_MemoizedChildInlineHandler is spec.md §8 scenario 4.
func TestScenario_MemoizedChildInlineHandler(t *testing.T) {
	diags := analyze(t, "Parent.jsx", `
import { memo } from "react";
const Child = memo(function Child(props) {
  return null;
});
function Parent() {
  return <Child onClick={() => doThing()} />;
}
`)
	var found bool
	for _, d := range diags {
		if d.Code == "RLD-405" {
			found = true
		}
	}
	assert.True(t, found, "expected RLD-405 for memoized child, got %v", codes(diags))
}

func TestScenario_InlineHandlerOnHTMLTagNotFlagged(t *testing.T) {
	diags := analyze(t, "Parent.jsx", `
function Parent() {
  return <button onClick={() => doThing()} />;
}
`)
	for _, d := range diags {
		assert.NotEqual(t, "RLD-405", d.Code)
	}
}

// TestScenario_RenderPhaseSetter is spec.md §8 scenario 6.
func TestScenario_RenderPhaseSetter(t *testing.T) {
	diags := analyze(t, "Bad.jsx", `
import { useState } from "react";
function Bad() {
  const [x, setX] = useState(0);
  setX(1);
  return null;
}
`)
	var found *model.Diagnostic
	for i := range diags {
		if diags[i].Code == "RLD-100" {
			found = &diags[i]
		}
	}
	require.NotNil(t, found, "expected RLD-100, got %v", codes(diags))
	assert.Equal(t, model.CategoryCritical, found.Category)
	assert.Equal(t, model.ConfidenceHigh, found.Confidence)
}

func TestScenario_RenderPhaseOneShotGuardSuppressed(t *testing.T) {
	diags := analyze(t, "Good.jsx", `
import { useState } from "react";
function Good() {
  const [initialized, setInitialized] = useState(false);
  if (!initialized) {
    setInitialized(true);
  }
  return null;
}
`)
	for _, d := range diags {
		assert.NotEqual(t, "RLD-100", d.Code)
		assert.NotEqual(t, "RLD-101", d.Code)
	}
}

func TestMissingDependencyArray_RLD500(t *testing.T) {
	diags := analyze(t, "Widget.jsx", `
import { useState, useEffect } from "react";
function Widget() {
  const [x, setX] = useState(0);
  useEffect(() => {
    setX(x + 1);
  });
  return null;
}
`)
	var found bool
	for _, d := range diags {
		if d.Code == "RLD-500" {
			found = true
			assert.Equal(t, model.ConfirmedInfiniteLoop, d.Kind)
		}
	}
	assert.True(t, found, "expected RLD-500, got %v", codes(diags))
}

func TestEmptyDependencyArray_NoMissingDepDiagnostic(t *testing.T) {
	diags := analyze(t, "Widget.jsx", `
import { useState, useEffect } from "react";
function Widget() {
  const [x, setX] = useState(0);
  useEffect(() => {
    setX(x + 1);
  }, []);
  return null;
}
`)
	for _, d := range diags {
		assert.NotEqual(t, "RLD-500", d.Code)
	}
}

func TestSelfModifyingMemo_RLD420(t *testing.T) {
	diags := analyze(t, "Widget.jsx", `
import { useMemo, useState } from "react";
function Widget() {
  const [list, setList] = useState([]);
  const value = useMemo(() => {
    list.push(1);
    return list;
  }, [list]);
  return value;
}
`)
	var found bool
	for _, d := range diags {
		if d.Code == "RLD-420" {
			found = true
		}
	}
	assert.True(t, found, "expected RLD-420, got %v", codes(diags))
}

func TestUnstableGetSnapshot_InlineLiteral_Confirmed(t *testing.T) {
	diags := analyze(t, "Store.jsx", `
import { useSyncExternalStore } from "react";
function Store() {
  const state = useSyncExternalStore(subscribe, () => ({ value: 1 }));
  return state;
}
`)
	var found *model.Diagnostic
	for i := range diags {
		if diags[i].Code == "RLD-407" {
			found = &diags[i]
		}
	}
	require.NotNil(t, found, "expected RLD-407, got %v", codes(diags))
	assert.Equal(t, model.ConfirmedInfiniteLoop, found.Kind)
}

func TestRenderPhaseRefMutation_RLD600(t *testing.T) {
	diags := analyze(t, "Widget.jsx", `
import { useRef, useState } from "react";
function Widget() {
  const [x, setX] = useState(0);
  const ref = useRef(null);
  ref.current = x;
  return null;
}
`)
	var found bool
	for _, d := range diags {
		if d.Code == "RLD-600" {
			found = true
		}
	}
	assert.True(t, found, "expected RLD-600, got %v", codes(diags))
}

func TestSuppressionMarker_NextLine(t *testing.T) {
	diags := analyze(t, "Bad.jsx", `
import { useState } from "react";
function Bad() {
  const [x, setX] = useState(0);
  // rld-disable-next-line
  setX(1);
  return null;
}
`)
	for _, d := range diags {
		assert.NotEqual(t, "RLD-100", d.Code)
	}
}
