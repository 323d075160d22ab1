package main

import (
	"fmt"
	"os"

	"github.com/unprivate/unprivate/internal/fs"
	"github.com/unprivate/unprivate/pkg/api"
)

// Rewrites every file named on the command line with one session, so classes
// in later files can extend classes from earlier ones, then prints the
// combined rename map.
func main() {
	realFS := fs.RealFS()
	session := api.NewSession(0)
	var renames []api.Rename

	for _, path := range os.Args[1:] {
		contents, err := realFS.ReadFile(path)
		if err != nil {
			fmt.Println("[ERROR] ", err)
			os.Exit(1)
		}

		result := session.Transform(contents, api.TransformOptions{
			Sourcefile: path,
			Minify:     true,
		})
		for _, warn := range result.Warnings {
			fmt.Println("[WARN] ", warn.Text)
		}
		for _, err := range result.Errors {
			fmt.Println("[ERROR] ", err.Text)
		}
		if len(result.Errors) > 0 {
			os.Exit(1)
		}

		fmt.Println(string(result.Code))
		renames = append(renames, result.Renames...)
	}

	for _, rename := range renames {
		fmt.Printf("%s %s => %s\n", rename.Class, rename.Private, rename.Public)
	}
}
