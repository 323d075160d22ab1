package main

import (
	"fmt"
	"os"

	"github.com/unprivate/unprivate/internal/fs"
	"github.com/unprivate/unprivate/pkg/cli"
)

func main() {
	rootCmd := cli.NewRootCommand(fs.RealFS())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
