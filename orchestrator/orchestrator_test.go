package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/inspector"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/orchestrator"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestOrchestrator_Run_FindsRenderPhaseWriteAndImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.jsx", `
import "./B";
import { useState } from "react";
function Counter() {
  const [x, setX] = useState(0);
  setX(1);
  return null;
}
`)
	writeFile(t, dir, "B.jsx", `
import "./A";
import { useEffect } from "react";
export function helper() { return 1; }
`)

	driver := inspector.New(nil, orchestrator.SemanticOptions(config.Default()), nil)
	orch := orchestrator.New(driver, config.Default(), nil)

	result, err := orch.Run(context.Background(), orchestrator.Options{Root: dir})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.FilesAnalyzed)
	assert.Equal(t, 0, result.Summary.FilesSkipped)

	var sawRenderPhaseWrite bool
	for _, d := range result.HookDiagnostics {
		if d.Code == "RLD-100" || d.Code == "RLD-101" {
			sawRenderPhaseWrite = true
		}
	}
	assert.True(t, sawRenderPhaseWrite, "expected a render-phase write diagnostic")
	require.NotEmpty(t, result.ImportCycles)
	assert.Equal(t, "IMPORT-CYCLE", result.ImportCycles[0].Code)
}

func TestOrchestrator_Run_SingleFileNoFindings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Good.jsx", `
import { useState } from "react";
function Widget() {
  const [x, setX] = useState(0);
  return null;
}
`)

	driver := inspector.New(nil, orchestrator.SemanticOptions(config.Default()), nil)
	orch := orchestrator.New(driver, config.Default(), nil)

	result, err := orch.Run(context.Background(), orchestrator.Options{Root: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.FilesAnalyzed)
}
