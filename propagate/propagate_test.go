package propagate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/inspector"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/modgraph"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/propagate"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/semantic"
)

func parse(t *testing.T, path, src string) *model.ParsedFile {
	t.Helper()
	d := inspector.New(nil, semantic.DefaultOptions(), nil)
	file, err := d.ParseSource(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return file
}

func TestIndex_IsMemoizedComponentRef(t *testing.T) {
	row := parse(t, "Row.jsx", `
import { memo } from "react";
function RowImpl({ value }) {
  return <div>{value}</div>;
}
export default memo(RowImpl);
`)
	list := parse(t, "List.jsx", `
import Row from "./Row";
function List({ items, style }) {
  return <Row value={items} extra={style} />;
}
`)

	files := map[string]*model.ParsedFile{"Row.jsx": row, "List.jsx": list}
	resolver := modgraph.NewResolver([]string{"Row.jsx", "List.jsx"}, nil, nil)
	idx := propagate.NewIndex(files, resolver)

	require.True(t, idx.IsMemoizedComponentRef(list, "Row"))
	require.False(t, idx.IsMemoizedComponentRef(list, "List"))
}

func TestIndex_SetterEscapesImportedCall(t *testing.T) {
	hook := parse(t, "useThing.js", `
export function useThing(onReady) {
  onReady();
  return null;
}
`)
	caller := parse(t, "Widget.jsx", `
import { useState, useEffect } from "react";
import { useThing } from "./useThing";
function Widget() {
  const [x, setX] = useState(0);
  useEffect(() => {
    useThing(setX);
  }, []);
  return null;
}
`)

	files := map[string]*model.ParsedFile{"useThing.js": hook, "Widget.jsx": caller}
	resolver := modgraph.NewResolver([]string{"useThing.js", "Widget.jsx"}, nil, nil)
	idx := propagate.NewIndex(files, resolver)

	require.True(t, idx.SetterEscapesImportedCall(caller, "useThing", "setX"))
	require.False(t, idx.SetterEscapesImportedCall(caller, "useState", "setX"))
}
