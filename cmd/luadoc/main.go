package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "luadoc",
		Short: "Lua source annotator",
	}

	rootCmd.AddCommand(newAnnotateCmd())
	rootCmd.AddCommand(newHeaderCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
