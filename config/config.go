// Package config holds the fully-resolved configuration value the core
// receives from its caller (disk loading and preset auto-detection are out
// of scope — the external interfaces named in the specification).
package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

// CustomFunction describes a caller-recognized function name's behavior
// for stability/deferred classification purposes.
type CustomFunction struct {
	Stable   *bool `yaml:"stable,omitempty"`
	Deferred *bool `yaml:"deferred,omitempty"`
}

// Config enumerates every recognized external-interface option (§6).
type Config struct {
	StableHooks           []string                  `yaml:"stable_hooks"`
	UnstableHooks         []string                  `yaml:"unstable_hooks"`
	StableHookPatterns    []string                  `yaml:"stable_hook_patterns"`
	UnstableHookPatterns  []string                  `yaml:"unstable_hook_patterns"`
	CustomFunctions       map[string]CustomFunction `yaml:"custom_functions"`
	Ignore                []string                  `yaml:"ignore"`
	MinSeverity           string                    `yaml:"min_severity"`
	MinConfidence         string                    `yaml:"min_confidence"`
	IncludePotentialIssues bool                     `yaml:"include_potential_issues"`
	StrictMode            bool                      `yaml:"strict_mode"`
	ProjectRoot           string                    `yaml:"project_root"`
	TSConfigPath          string                    `yaml:"tsconfig_path"`
	MemoWrapperNames      []string                  `yaml:"memo_wrapper_names"`

	// UnknownHookPolicy resolves Open Question #1: whether an unknown
	// custom hook's return value is treated as Stable (the conservative
	// default, matching the teacher's false-negative-leaning posture) or
	// UnknownHookReturn (reported like an unstable call, RLD-403).
	UnknownHookPolicy string `yaml:"unknown_hook_policy"` // "stable" | "unstable"

	// DebugMode turns on the orchestrator's error log of recovered rule
	// panics. It attaches nothing to diagnostics: no rule fills in
	// Diagnostic.DebugRecord.
	DebugMode bool `yaml:"debug_mode"`

	// MaxParallelism caps Phase 1/Phase 3 fan-out; 0 means
	// (logical cores - 1), the spec's default.
	MaxParallelism int `yaml:"max_parallelism"`

	// CrossFileMaxDepth / MaxPaths / MaxPathLength are carried through Merge
	// but read by no analysis package: the propagator's hop bound is the
	// fixed maxHopDepth in package propagate, and cfg.Paths takes its bounds
	// as arguments.
	CrossFileMaxDepth int `yaml:"cross_file_max_depth"`
	MaxPaths          int `yaml:"max_paths"`
	MaxPathLength     int `yaml:"max_path_length"`
}

//go:embed presets/default.yaml
var defaultPresetYAML []byte

// defaultPreset is parsed once at init, mirroring the teacher's convention
// of tagging every model struct for yaml (inspector/graph, analyzer/linage)
// generalized here to actually parsing a bundled document rather than only
// tagging for one.
var defaultPreset Config

func init() {
	if err := yaml.Unmarshal(defaultPresetYAML, &defaultPreset); err != nil {
		panic("config: embedded default preset failed to parse: " + err.Error())
	}
}

// Default returns a copy of the built-in preset: the default stable/
// unstable hook lists, default glob excludes, and conservative policy
// thresholds a caller may extend.
func Default() Config {
	return defaultPreset
}

// Merge layers override on top of a base config: any non-zero-value field
// in override replaces the base's, and slice/map fields are appended
// rather than replaced, so a caller's preset augments rather than discards
// the built-in defaults.
func Merge(base, override Config) Config {
	out := base
	out.StableHooks = append(append([]string{}, base.StableHooks...), override.StableHooks...)
	out.UnstableHooks = append(append([]string{}, base.UnstableHooks...), override.UnstableHooks...)
	out.StableHookPatterns = append(append([]string{}, base.StableHookPatterns...), override.StableHookPatterns...)
	out.UnstableHookPatterns = append(append([]string{}, base.UnstableHookPatterns...), override.UnstableHookPatterns...)
	out.Ignore = append(append([]string{}, base.Ignore...), override.Ignore...)
	if len(override.MemoWrapperNames) > 0 {
		out.MemoWrapperNames = append(append([]string{}, base.MemoWrapperNames...), override.MemoWrapperNames...)
	}
	if override.MinSeverity != "" {
		out.MinSeverity = override.MinSeverity
	}
	if override.MinConfidence != "" {
		out.MinConfidence = override.MinConfidence
	}
	if override.ProjectRoot != "" {
		out.ProjectRoot = override.ProjectRoot
	}
	if override.TSConfigPath != "" {
		out.TSConfigPath = override.TSConfigPath
	}
	if override.UnknownHookPolicy != "" {
		out.UnknownHookPolicy = override.UnknownHookPolicy
	}
	if override.MaxParallelism != 0 {
		out.MaxParallelism = override.MaxParallelism
	}
	if override.CrossFileMaxDepth != 0 {
		out.CrossFileMaxDepth = override.CrossFileMaxDepth
	}
	if override.MaxPaths != 0 {
		out.MaxPaths = override.MaxPaths
	}
	if override.MaxPathLength != 0 {
		out.MaxPathLength = override.MaxPathLength
	}
	out.StrictMode = base.StrictMode || override.StrictMode
	out.DebugMode = base.DebugMode || override.DebugMode
	out.IncludePotentialIssues = base.IncludePotentialIssues || override.IncludePotentialIssues
	if override.CustomFunctions != nil {
		out.CustomFunctions = map[string]CustomFunction{}
		for k, v := range base.CustomFunctions {
			out.CustomFunctions[k] = v
		}
		for k, v := range override.CustomFunctions {
			out.CustomFunctions[k] = v
		}
	}
	return out
}
