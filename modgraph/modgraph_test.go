package modgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/modgraph"
)

func TestResolver_Resolve_RelativeWithExtensionSearch(t *testing.T) {
	r := modgraph.NewResolver([]string{"src/App.jsx", "src/utils/format.ts"}, nil, nil)

	target, ok := r.Resolve("src/App.jsx", "./utils/format")
	require.True(t, ok)
	assert.Equal(t, "src/utils/format.ts", target)
}

func TestResolver_Resolve_IndexFile(t *testing.T) {
	r := modgraph.NewResolver([]string{"src/App.jsx", "src/components/index.tsx"}, nil, nil)

	target, ok := r.Resolve("src/App.jsx", "./components")
	require.True(t, ok)
	assert.Equal(t, "src/components/index.tsx", target)
}

func TestResolver_Resolve_AliasPrefix(t *testing.T) {
	r := modgraph.NewResolver([]string{"src/components/Button.tsx"}, modgraph.AliasTable{"@components": "src/components"}, nil)

	target, ok := r.Resolve("src/App.jsx", "@components/Button")
	require.True(t, ok)
	assert.Equal(t, "src/components/Button.tsx", target)
}

func TestResolver_Resolve_BarePackageSpecifierIsExternal(t *testing.T) {
	r := modgraph.NewResolver([]string{"src/App.jsx"}, nil, nil)

	_, ok := r.Resolve("src/App.jsx", "react")
	assert.False(t, ok)
}

func TestResolver_Resolve_ManifestMain(t *testing.T) {
	r := modgraph.NewResolver([]string{"src/App.jsx", "vendor/widget/lib.js"}, nil, map[string]string{"vendor/widget": "lib.js"})

	target, ok := r.Resolve("src/App.jsx", "../vendor/widget")
	require.True(t, ok)
	assert.Equal(t, "vendor/widget/lib.js", target)
}

func TestGraph_FindImportCycles(t *testing.T) {
	files := map[string]*model.ParsedFile{
		"A.jsx": {Path: "A.jsx", Imports: []model.Import{{SourceSpecifier: "./B", LocalBindings: nil, Kind: model.ImportNamed}}},
		"B.jsx": {Path: "B.jsx", Imports: []model.Import{{SourceSpecifier: "./A", LocalBindings: nil, Kind: model.ImportNamed}}},
	}
	resolver := modgraph.NewResolver([]string{"A.jsx", "B.jsx"}, nil, nil)
	g := modgraph.Build(files, resolver, nil)

	diags := g.FindImportCycles()
	require.NotEmpty(t, diags)
	assert.Equal(t, "IMPORT-CYCLE", diags[0].Code)
	assert.Equal(t, []string{"A.jsx", "B.jsx", "A.jsx"}, diags[0].Cycle)
}

func TestGraph_FindCrossFileCycles_ThreeFileSCC(t *testing.T) {
	files := map[string]*model.ParsedFile{
		"A.jsx": {Path: "A.jsx", Imports: []model.Import{{SourceSpecifier: "./B", Kind: model.ImportNamed}}},
		"B.jsx": {Path: "B.jsx", Imports: []model.Import{{SourceSpecifier: "./C", Kind: model.ImportNamed}}},
		"C.jsx": {Path: "C.jsx", Imports: []model.Import{{SourceSpecifier: "./A", Kind: model.ImportNamed}}},
	}
	resolver := modgraph.NewResolver([]string{"A.jsx", "B.jsx", "C.jsx"}, nil, nil)
	g := modgraph.Build(files, resolver, nil)

	sccs := g.StronglyConnectedComponents()
	require.Len(t, sccs, 1)
	assert.ElementsMatch(t, []string{"A.jsx", "B.jsx", "C.jsx"}, sccs[0])

	diags := g.FindCrossFileCycles()
	require.Len(t, diags, 1)
	assert.Equal(t, "CROSS-FILE-CYCLE", diags[0].Code)
}

func TestGraph_FindAdvisoryCycles_RequiresContextOrFunctionBinding(t *testing.T) {
	files := map[string]*model.ParsedFile{
		"A.jsx": {Path: "A.jsx", Imports: []model.Import{{SourceSpecifier: "./B", LocalBindings: []string{"helper"}, Kind: model.ImportNamed}}},
		"B.jsx": {Path: "B.jsx", Imports: []model.Import{{SourceSpecifier: "./A", LocalBindings: []string{"other"}, Kind: model.ImportNamed}}},
	}
	resolver := modgraph.NewResolver([]string{"A.jsx", "B.jsx"}, nil, nil)
	namedBindings := map[string]map[string]bool{"B.jsx": {"helper": true}}
	g := modgraph.Build(files, resolver, namedBindings)

	diags := g.FindAdvisoryCycles()
	require.Len(t, diags, 1)
	assert.Equal(t, "ADVISORY-CONTEXT-OR-FUNCTION-CYCLE", diags[0].Code)
}
