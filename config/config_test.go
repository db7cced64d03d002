package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
)

func TestDefault_LoadsEmbeddedPreset(t *testing.T) {
	cfg := config.Default()
	require.NotEmpty(t, cfg.StableHooks)
	assert.Contains(t, cfg.StableHooks, "useRef")
	assert.Contains(t, cfg.MemoWrapperNames, "memo")
	assert.Equal(t, "stable", cfg.UnknownHookPolicy)
	assert.True(t, cfg.IncludePotentialIssues)
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := config.Default()
	a.StableHooks = append(a.StableHooks, "useMyCustomHook")
	b := config.Default()
	assert.NotContains(t, b.StableHooks, "useMyCustomHook", "mutating one Default() call must not leak into the next")
}

func TestMerge_AppendsSliceFields(t *testing.T) {
	base := config.Default()
	override := config.Config{StableHooks: []string{"useMyStableHook"}}
	merged := config.Merge(base, override)
	assert.Contains(t, merged.StableHooks, "useRef")
	assert.Contains(t, merged.StableHooks, "useMyStableHook")
}

func TestMerge_ScalarOverrideWinsWhenSet(t *testing.T) {
	base := config.Default()
	override := config.Config{MinSeverity: "high"}
	merged := config.Merge(base, override)
	assert.Equal(t, "high", merged.MinSeverity)
}

func TestMerge_ScalarBaseSurvivesWhenOverrideUnset(t *testing.T) {
	base := config.Default()
	base.MinSeverity = "medium"
	merged := config.Merge(base, config.Config{})
	assert.Equal(t, "medium", merged.MinSeverity)
}

func TestMerge_BooleanFlagsOrTogether(t *testing.T) {
	base := config.Config{StrictMode: false}
	override := config.Config{StrictMode: true}
	merged := config.Merge(base, override)
	assert.True(t, merged.StrictMode)
}

func TestMerge_CustomFunctionsUnionsWithOverrideWinning(t *testing.T) {
	trueVal := true
	base := config.Config{CustomFunctions: map[string]config.CustomFunction{
		"fromBase": {Stable: &trueVal},
	}}
	falseVal := false
	override := config.Config{CustomFunctions: map[string]config.CustomFunction{
		"fromBase":     {Stable: &falseVal},
		"fromOverride": {Deferred: &trueVal},
	}}
	merged := config.Merge(base, override)
	require.Contains(t, merged.CustomFunctions, "fromBase")
	require.Contains(t, merged.CustomFunctions, "fromOverride")
	assert.Equal(t, &falseVal, merged.CustomFunctions["fromBase"].Stable)
}
