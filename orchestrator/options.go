package orchestrator

import (
	"regexp"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/semantic"
)

// SemanticOptions bridges a resolved config.Config into the semantic
// extractor's Options (§4.2/§4.3/§6): the stable/unstable hook lists and
// their pattern equivalents, the memoization-wrapper name list, and the
// unknown-hook policy (Open Question #1) all come from config rather than
// the extractor's own baked-in defaults. Build the inspector.Driver with
// this before handing it to New, since the driver owns semantic.Options at
// construction time.
func SemanticOptions(cfg config.Config) semantic.Options {
	return semantic.Options{
		WrapperNames:         toSet(cfg.MemoWrapperNames),
		StableHooks:          toSet(cfg.StableHooks),
		UnstableHooks:        toSet(cfg.UnstableHooks),
		StableHookPatterns:   compileAll(cfg.StableHookPatterns),
		UnstableHookPatterns: compileAll(cfg.UnstableHookPatterns),
		UnknownHookStable:    cfg.UnknownHookPolicy != "unstable",
	}
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// compileAll silently drops a pattern that fails to compile rather than
// failing the whole config: a malformed regex in stable_hook_patterns/
// unstable_hook_patterns shouldn't be a fatal configuration error (§7
// reserves that for invocation-level problems), just a pattern that never
// matches.
func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			out = append(out, re)
		}
	}
	return out
}
