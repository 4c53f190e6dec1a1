package main

import (
	"fmt"
	"os"

	"github.com/upstack-sh/upstack/cmd/upstack/commands"
	"github.com/upstack-sh/upstack/pkg/output"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, output.Sprint(output.ErrorStyle, fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
