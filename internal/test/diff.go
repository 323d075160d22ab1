package test

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line-oriented unified rendering of the differences between
// two texts. Unchanged lines are prefixed with a space, removed lines with
// "-" and added lines with "+".
func Diff(old string, new string, color bool) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	sb := strings.Builder{}
	for _, d := range diffs {
		prefix, start, end := " ", "", ""
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
			if color {
				start, end = "\033[31m", "\033[0m"
			}
		case diffmatchpatch.DiffInsert:
			prefix = "+"
			if color {
				start, end = "\033[32m", "\033[0m"
			}
		default:
			if color {
				start, end = "\033[37m", "\033[0m"
			}
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(start)
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteString(end)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
