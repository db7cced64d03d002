package rules

import "github.com/samsmithyeah/react-circular-deps-detector-sub001/model"

// suppressMarked drops diagnostics whose location falls on a
// rld-disable-next-line/same-line marker or inside an rld-disable/
// rld-enable range (§6). Applied per file, immediately after a file's rules
// run, since the suppression table is itself a per-file artifact of the
// parser driver.
func suppressMarked(file *model.ParsedFile, diags []model.Diagnostic) []model.Diagnostic {
	if len(file.SuppressionLines) == 0 && len(file.SuppressionRanges) == 0 {
		return diags
	}
	out := diags[:0]
	for _, d := range diags {
		if file.SuppressionLines[d.Location.Line] {
			continue
		}
		if inSuppressedRange(file, d.Location.Line) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func inSuppressedRange(file *model.ParsedFile, line int) bool {
	for _, r := range file.SuppressionRanges {
		if line >= r[0] && line <= r[1] {
			return true
		}
	}
	return false
}
