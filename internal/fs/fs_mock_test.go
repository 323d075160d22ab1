package fs

import (
	"reflect"
	"testing"
)

func TestMockFSBasic(t *testing.T) {
	fs := MockFS(map[string]string{
		"/README.md":    "// README.md",
		"/src/index.js": "// src/index.js",
		"/src/util.js":  "// src/util.js",
	})

	// Test a missing file
	_, err := fs.ReadFile("/missing.txt")
	if err == nil {
		t.Fatal("Unexpectedly found /missing.txt")
	}

	// Test an existing file
	readme, err := fs.ReadFile("/README.md")
	if err != nil {
		t.Fatal("Expected to find /README.md")
	}
	if readme != "// README.md" {
		t.Fatalf("Incorrect contents for /README.md: %q", readme)
	}

	// Test reading a directory as a file
	if _, err := fs.ReadFile("/src"); err == nil {
		t.Fatal("Unexpectedly read /src as a file")
	}

	// Test a missing directory
	_, err = fs.ReadDirectory("/missing")
	if err == nil {
		t.Fatal("Unexpectedly found /missing")
	}

	// Test a nested directory
	src, err := fs.ReadDirectory("/src")
	if err != nil {
		t.Fatal("Expected to find /src")
	}
	expected := map[string]Entry{"index.js": {Kind: FileEntry}, "util.js": {Kind: FileEntry}}
	if !reflect.DeepEqual(src, expected) {
		t.Fatalf("Incorrect contents for /src: %v", src)
	}

	// Test the top-level directory
	slash, err := fs.ReadDirectory("/")
	if err != nil {
		t.Fatal("Expected to find /")
	}
	if slash["src"].Kind != DirEntry || slash["README.md"].Kind != FileEntry {
		t.Fatalf("Incorrect contents for /: %v", slash)
	}
}

func TestMockFSWrite(t *testing.T) {
	fs := MockFS(map[string]string{})

	if err := fs.WriteFile("/out/nested/a.js", []byte("a;\n")); err != nil {
		t.Fatal(err)
	}
	if !fs.IsDir("/out/nested") {
		t.Fatal("Expected /out/nested to be created")
	}
	contents, err := fs.ReadFile("/out/nested/a.js")
	if err != nil || contents != "a;\n" {
		t.Fatalf("Incorrect contents for /out/nested/a.js: %q", contents)
	}
}

func TestMockFSRel(t *testing.T) {
	fs := MockFS(map[string]string{})

	expect := func(base string, target string, expected string, expectedOK bool) {
		t.Helper()
		observed, ok := fs.Rel(base, target)
		if observed != expected || ok != expectedOK {
			t.Fatalf("Rel(%q, %q) = %q, %v (expected %q, %v)", base, target, observed, ok, expected, expectedOK)
		}
	}

	expect("/", "/a/b.js", "a/b.js", true)
	expect("/a", "/a/b.js", "b.js", true)
	expect("/a", "/a", ".", true)
	expect("/a/b", "/a/c/d.js", "", false)

	if abs, _ := fs.Abs("a/b.js"); abs != "/a/b.js" {
		t.Fatalf("Incorrect absolute path: %q", abs)
	}
}

func TestCollectFiles(t *testing.T) {
	fs := MockFS(map[string]string{
		"/src/b.js":                  "",
		"/src/a.mjs":                 "",
		"/src/lib/c.cjs":             "",
		"/src/lib/d.ts":              "",
		"/src/node_modules/dep/e.js": "",
		"/src/.cache/f.js":           "",
		"/other.js":                  "",
	})

	files, err := CollectFiles(fs, []string{"/other.js", "/src", "/src/b.js"}, []string{".js", ".mjs", ".cjs"})
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"/other.js", "/src/a.mjs", "/src/b.js", "/src/lib/c.cjs"}
	if !reflect.DeepEqual(files, expected) {
		t.Fatalf("Incorrect files: %v", files)
	}

	if _, err := CollectFiles(fs, []string{"/missing"}, []string{".js"}); err != nil {
		t.Fatalf("Missing files are reported when they are read, not here: %v", err)
	}
}
