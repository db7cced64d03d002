// Package assemble implements the diagnostic assembler (spec.md §4.8): it
// merges every rule's output, de-duplicates by (file, line, code), applies
// the severity/confidence/confirmed-only policy filters, and produces the
// final RunResult and its summary counts in the deterministic §5 sort order.
//
// Grounded on analyzer/package.go's AnalyzeAll (a single merge point folding
// every per-file result into one structure) and analyzer/graph_exporter.go's
// sort-before-emit convention, generalized here to spec.md §5's
// (path, line, column, code) ordering.
package assemble

import (
	"sort"
	"strconv"

	"github.com/minio/highwayhash"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/config"
	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// fingerprintKey is fixed and unexported: the fingerprint exists to key a
// de-dup set, not to authenticate anything, so a per-run random key would
// only make results non-reproducible.
var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

var severityRank = map[model.Severity]int{
	model.SeverityLow: 0, model.SeverityMedium: 1, model.SeverityHigh: 2,
}

var confidenceRank = map[model.Confidence]int{
	model.ConfidenceLow: 0, model.ConfidenceMedium: 1, model.ConfidenceHigh: 2,
}

// Dedup drops diagnostics that repeat an earlier (path, line, code) triple,
// keeping the first occurrence. Callers should feed rule outputs in a
// stable order so "first" is deterministic across runs.
func Dedup(diags []model.Diagnostic) []model.Diagnostic {
	seen := map[uint64]bool{}
	out := make([]model.Diagnostic, 0, len(diags))
	for _, d := range diags {
		h := fingerprint(d)
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, d)
	}
	return out
}

func fingerprint(d model.Diagnostic) uint64 {
	data := d.Location.Path + "\x00" + strconv.Itoa(d.Location.Line) + "\x00" + d.Code
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		// fingerprintKey is a fixed 32-byte literal; New64 only rejects a
		// wrong key length, so this never fires in practice.
		panic("assemble: invalid fingerprint key: " + err.Error())
	}
	h.Write([]byte(data))
	return h.Sum64()
}

// ApplyPolicy drops diagnostics that fall below cfg's min_severity/
// min_confidence thresholds, or that are potential issues when
// include_potential_issues is false (§4.8, §6).
func ApplyPolicy(diags []model.Diagnostic, cfg config.Config) []model.Diagnostic {
	minSev, hasSev := severityRank[model.Severity(cfg.MinSeverity)]
	minConf, hasConf := confidenceRank[model.Confidence(cfg.MinConfidence)]
	out := diags[:0]
	for _, d := range diags {
		if !cfg.IncludePotentialIssues && d.Kind == model.PotentialIssue {
			continue
		}
		if hasSev && severityRank[d.Severity] < minSev {
			continue
		}
		if hasConf && confidenceRank[d.Confidence] < minConf {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Sort orders diags per §5: path, then line, then column, then code.
func Sort(diags []model.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Location.Path != b.Location.Path {
			return a.Location.Path < b.Location.Path
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		return a.Code < b.Code
	})
}

// Counts builds the summary's per-category tally over every diagnostic that
// survives policy filtering.
func Counts(buckets ...[]model.Diagnostic) map[model.Category]int {
	counts := map[model.Category]int{}
	for _, bucket := range buckets {
		for _, d := range bucket {
			counts[d.Category]++
		}
	}
	return counts
}

// Result bundles the raw material assemble.Run needs: every hook-rule
// diagnostic gathered across all files, every modgraph cycle diagnostic
// (import, cross-file, and advisory), and the run-level file/hook tallies
// the orchestrator already knows from its own phase bookkeeping.
type Result struct {
	HookDiagnostics []model.Diagnostic
	CycleDiagnostics []model.Diagnostic // IMPORT-CYCLE, CROSS-FILE-CYCLE, ADVISORY-*
	FilesAnalyzed   int
	HooksAnalyzed   int
	FilesSkipped    int
}

// Run merges, de-duplicates, filters, sorts, and tallies one run's
// diagnostics into the final RunResult (spec.md §4.8).
func Run(r Result, cfg config.Config) model.RunResult {
	hook := ApplyPolicy(Dedup(r.HookDiagnostics), cfg)
	Sort(hook)

	var importCycles, crossFileCycles []model.Diagnostic
	for _, d := range ApplyPolicy(Dedup(r.CycleDiagnostics), cfg) {
		if d.Code == "CROSS-FILE-CYCLE" {
			crossFileCycles = append(crossFileCycles, d)
		} else {
			importCycles = append(importCycles, d)
		}
	}
	Sort(importCycles)
	Sort(crossFileCycles)

	return model.RunResult{
		ImportCycles:    importCycles,
		CrossFileCycles: crossFileCycles,
		HookDiagnostics: hook,
		Summary: model.Summary{
			FilesAnalyzed:    r.FilesAnalyzed,
			HooksAnalyzed:    r.HooksAnalyzed,
			FilesSkipped:     r.FilesSkipped,
			CountsByCategory: Counts(hook, importCycles, crossFileCycles),
		},
	}
}
