package assemble_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/assemble"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

func diagAt(code string, path string, line int, severity model.Severity, confidence model.Confidence, kind model.DiagnosticKind) model.Diagnostic {
	return model.Diagnostic{
		Code: code, Category: model.CategoryCritical, Severity: severity,
		Confidence: confidence, Kind: kind,
		Location: model.Location{Path: path, Line: line},
	}
}

func TestDedup_KeepsFirstOccurrence(t *testing.T) {
	in := []model.Diagnostic{
		diagAt("RLD-200", "Counter.jsx", 10, model.SeverityHigh, model.ConfidenceHigh, model.ConfirmedInfiniteLoop),
		diagAt("RLD-200", "Counter.jsx", 10, model.SeverityHigh, model.ConfidenceHigh, model.ConfirmedInfiniteLoop),
		diagAt("RLD-200", "Counter.jsx", 11, model.SeverityHigh, model.ConfidenceHigh, model.ConfirmedInfiniteLoop),
	}
	out := assemble.Dedup(in)
	require.Len(t, out, 2)
}

func TestApplyPolicy_DropsPotentialIssuesWhenNotIncluded(t *testing.T) {
	in := []model.Diagnostic{
		diagAt("RLD-200", "a.jsx", 1, model.SeverityHigh, model.ConfidenceHigh, model.ConfirmedInfiniteLoop),
		diagAt("RLD-501", "a.jsx", 2, model.SeverityMedium, model.ConfidenceMedium, model.PotentialIssue),
	}
	cfg := config.Config{}
	out := assemble.ApplyPolicy(in, cfg)
	require.Len(t, out, 1)
	assert.Equal(t, "RLD-200", out[0].Code)

	cfg.IncludePotentialIssues = true
	out = assemble.ApplyPolicy(in, cfg)
	require.Len(t, out, 2)
}

func TestApplyPolicy_MinSeverityAndConfidence(t *testing.T) {
	in := []model.Diagnostic{
		diagAt("RLD-403", "a.jsx", 1, model.SeverityLow, model.ConfidenceLow, model.PotentialIssue),
		diagAt("RLD-400", "a.jsx", 2, model.SeverityMedium, model.ConfidenceHigh, model.PotentialIssue),
	}
	cfg := config.Config{IncludePotentialIssues: true, MinSeverity: "medium", MinConfidence: "medium"}
	out := assemble.ApplyPolicy(in, cfg)
	require.Len(t, out, 1)
	assert.Equal(t, "RLD-400", out[0].Code)
}

func TestSort_OrdersByPathLineColumnCode(t *testing.T) {
	diags := []model.Diagnostic{
		{Code: "RLD-401", Location: model.Location{Path: "b.jsx", Line: 1}},
		{Code: "RLD-400", Location: model.Location{Path: "a.jsx", Line: 5}},
		{Code: "RLD-403", Location: model.Location{Path: "a.jsx", Line: 1}},
	}
	assemble.Sort(diags)
	require.Equal(t, []string{"RLD-403", "RLD-400", "RLD-401"}, []string{diags[0].Code, diags[1].Code, diags[2].Code})
}

func TestRun_SplitsCrossFileCyclesFromImportCycles(t *testing.T) {
	result := assemble.Run(assemble.Result{
		HookDiagnostics: []model.Diagnostic{
			diagAt("RLD-200", "Counter.jsx", 4, model.SeverityHigh, model.ConfidenceHigh, model.ConfirmedInfiniteLoop),
		},
		CycleDiagnostics: []model.Diagnostic{
			{Code: "IMPORT-CYCLE", Category: model.CategoryWarning, Kind: model.PotentialIssue, Location: model.Location{Path: "a.ts"}},
			{Code: "CROSS-FILE-CYCLE", Category: model.CategoryWarning, Kind: model.PotentialIssue, Location: model.Location{Path: "b.ts"}},
		},
		FilesAnalyzed: 2,
		HooksAnalyzed: 1,
	}, config.Config{IncludePotentialIssues: true})

	require.Len(t, result.ImportCycles, 1)
	require.Len(t, result.CrossFileCycles, 1)
	require.Len(t, result.HookDiagnostics, 1)
	assert.Equal(t, 2, result.Summary.FilesAnalyzed)
	assert.Equal(t, 1, result.Summary.CountsByCategory[model.CategoryCritical])
	assert.Equal(t, 2, result.Summary.CountsByCategory[model.CategoryWarning])
}
