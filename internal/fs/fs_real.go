package fs

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

func RealFS() FS {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	} else if path, err := filepath.EvalSymlinks(cwd); err == nil {
		// Resolve symlinks so relative paths printed in diagnostics match the
		// paths the user passed in
		cwd = path
	}

	return &aferoFS{
		fs:  afero.NewOsFs(),
		cwd: cwd,
		ops: pathOps{
			abs:  filepath.Abs,
			dir:  filepath.Dir,
			base: filepath.Base,
			ext:  filepath.Ext,
			join: filepath.Join,
			rel:  filepath.Rel,
			sep:  string(filepath.Separator),
		},
	}
}
