package fs

import (
	"path"

	"github.com/spf13/afero"
)

// MockFS returns an in-memory file system that always uses "/" as the path
// separator and "/" as the working directory
func MockFS(input map[string]string) FS {
	return MockFSAt("/", input)
}

// MockFSAt is MockFS with "cwd" as the working directory
func MockFSAt(cwd string, input map[string]string) FS {
	cwd = path.Clean(cwd)
	memory := afero.NewMemMapFs()
	for k, v := range input {
		if err := memory.MkdirAll(path.Dir(k), 0755); err != nil {
			panic(err)
		}
		if err := afero.WriteFile(memory, k, []byte(v), 0644); err != nil {
			panic(err)
		}
	}

	return &aferoFS{
		fs:  memory,
		cwd: cwd,
		ops: pathOps{
			abs: func(p string) (string, error) {
				if !path.IsAbs(p) {
					p = path.Join(cwd, p)
				}
				return path.Clean(p), nil
			},
			dir:  path.Dir,
			base: path.Base,
			ext:  path.Ext,
			join: path.Join,
			rel:  relativePath,
			sep:  "/",
		},
	}
}

// Computes "target" relative to "base" for absolute slash-separated paths
func relativePath(base string, target string) (string, error) {
	base = path.Clean(base)
	target = path.Clean(target)
	if base == target {
		return ".", nil
	}
	if base == "/" {
		return target[1:], nil
	}

	baseParts := splitPath(base)
	targetParts := splitPath(target)
	common := 0
	for common < len(baseParts) && common < len(targetParts) && baseParts[common] == targetParts[common] {
		common++
	}

	rel := ""
	for i := common; i < len(baseParts); i++ {
		rel = path.Join(rel, "..")
	}
	for _, part := range targetParts[common:] {
		rel = path.Join(rel, part)
	}
	return rel, nil
}

func splitPath(p string) []string {
	var parts []string
	for p != "/" && p != "." {
		parts = append([]string{path.Base(p)}, parts...)
		p = path.Dir(p)
	}
	return parts
}
