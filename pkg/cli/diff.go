package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	removedLine = color.New(color.FgRed)
	addedLine   = color.New(color.FgGreen)
	headerLine  = color.New(color.Bold)
)

// unifiedDiff renders a line diff between the input and the output of one
// file. Identical texts produce an empty string.
func unifiedDiff(path string, before string, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	sb := strings.Builder{}
	sb.WriteString(headerLine.Sprintf("--- %s", path))
	sb.WriteByte('\n')
	sb.WriteString(headerLine.Sprintf("+++ %s", path))
	sb.WriteByte('\n')

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(removedLine.Sprint("-" + line))
			case diffmatchpatch.DiffInsert:
				sb.WriteString(addedLine.Sprint("+" + line))
			default:
				sb.WriteString(" " + line)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
