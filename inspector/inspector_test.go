package inspector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/inspector"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/semantic"
)

func TestDriver_ParseSource_UnconditionalEffectSetter(t *testing.T) {
	const src = `
import { useState, useEffect } from "react";

function Counter({ step }) {
  const [x, setX] = useState(0);
  useEffect(() => {
    setX(x + 1);
  }, [x]);
  return null;
}
`
	d := inspector.New(nil, semantic.DefaultOptions(), nil)
	file, err := d.ParseSource(context.Background(), "Counter.jsx", []byte(src))
	require.NoError(t, err)
	require.Len(t, file.Components, 1)
	assert.Equal(t, "Counter", file.Components[0].Name)
	require.Len(t, file.StateVars, 1)
	assert.Equal(t, "setX", file.StateVars[0].SetterName)

	require.Len(t, file.Hooks, 2) // useState is also recorded as a hook call site
	var effect *model.HookCallSite
	for i := range file.Hooks {
		if file.Hooks[i].Kind == model.HookEffect {
			effect = &file.Hooks[i]
		}
	}
	require.NotNil(t, effect)
	assert.True(t, effect.HasDepList)
	require.Len(t, effect.DepList, 1)
	assert.Equal(t, "x", effect.DepList[0].RootName)
}

func TestDriver_ParseSource_CachesByDigest(t *testing.T) {
	d := inspector.New(nil, semantic.DefaultOptions(), nil)
	ctx := context.Background()
	first, err := d.ParseSource(ctx, "a.js", []byte("const x = 1;"))
	require.NoError(t, err)
	second, err := d.ParseSource(ctx, "a.js", []byte("const x = 1;"))
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestDriver_ParseSource_MissingDependencyArray(t *testing.T) {
	const src = `
import { useState, useEffect } from "react";

function Widget() {
  const [x, setX] = useState(0);
  useEffect(() => {
    setX(x + 1);
  });
  return null;
}
`
	d := inspector.New(nil, semantic.DefaultOptions(), nil)
	file, err := d.ParseSource(context.Background(), "Widget.jsx", []byte(src))
	require.NoError(t, err)
	var effect *model.HookCallSite
	for i := range file.Hooks {
		if file.Hooks[i].Kind == model.HookEffect {
			effect = &file.Hooks[i]
		}
	}
	require.NotNil(t, effect)
	assert.False(t, effect.HasDepList)
}
