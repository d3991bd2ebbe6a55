package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/luadoc/lua/parser"
	"github.com/dhamidi/luadoc/lua/project"
	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	var outputPath string
	var write bool

	cmd := &cobra.Command{
		Use:   "types [dir]",
		Short: "Collect a project's custom types into a type.lua file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			ctx := project.NewContext()
			root := ctx.DetectProjectRoot(dir)
			ctx.ApplyFrameworks()
			if err := ctx.ScanLuaFiles(); err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			for _, path := range ctx.LuaFiles {
				content, err := os.ReadFile(path)
				if err != nil {
					continue
				}
				tokens := parser.NewCodeTokenizer(string(content)).Tokenize()
				ctx.RegisterAnnotations(parser.NewAnnotationParser(tokens).Parse())
			}

			out, err := ctx.GenerateTypeFile()
			if err != nil {
				return err
			}

			if !write {
				fmt.Println(out)
				return nil
			}

			if outputPath == "" {
				outputPath = filepath.Join(root, "type.lua")
			}
			if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}
			fmt.Printf("Type file saved: %s (%d types)\n", outputPath, ctx.CustomTypesCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default <root>/type.lua)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the file instead of printing it")

	return cmd
}
