package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/unprivate/unprivate/internal/fs"
	"github.com/unprivate/unprivate/pkg/api"
)

// RenameMap is the document written by "--map-out"
type RenameMap struct {
	Files []FileRenames `yaml:"files"`
}

type FileRenames struct {
	File    string       `yaml:"file"`
	Renames []api.Rename `yaml:"renames"`
}

func makeRenameMap(units []unit) RenameMap {
	renameMap := RenameMap{Files: []FileRenames{}}
	for _, u := range units {
		if len(u.result.Renames) == 0 {
			continue
		}
		renameMap.Files = append(renameMap.Files, FileRenames{
			File:    u.prettyPath,
			Renames: u.result.Renames,
		})
	}
	return renameMap
}

func writeRenameMap(filesystem fs.FS, path string, units []unit) error {
	contents, err := yaml.Marshal(makeRenameMap(units))
	if err != nil {
		return fmt.Errorf("marshal rename map: %w", err)
	}
	if err := filesystem.WriteFile(path, contents); err != nil {
		return fmt.Errorf("write rename map: %w", err)
	}
	return nil
}

func printRenameTable(w io.Writer, units []unit) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Class", "Private", "Public", "Static"})

	total := 0
	for _, u := range units {
		for _, rename := range u.result.Renames {
			t.AppendRow(table.Row{u.prettyPath, rename.Class, rename.Private, rename.Public, staticMark(rename.Static)})
			total++
		}
	}

	t.AppendFooter(table.Row{"", "", "", "Total", total})
	t.Render()
}

func staticMark(static bool) string {
	if static {
		return "yes"
	}
	return ""
}
