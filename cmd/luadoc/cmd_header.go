package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/luadoc/lua/analysis"
	"github.com/dhamidi/luadoc/lua/annotate"
	"github.com/dhamidi/luadoc/lua/parser"
	"github.com/dhamidi/luadoc/lua/project"
	"github.com/spf13/cobra"
)

func newHeaderCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "header <file>...",
		Short: "Generate a header file with annotated function stubs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return fmt.Errorf("stat %s: %w", arg, err)
				}
				if info.IsDir() {
					if !recursive {
						return fmt.Errorf("%s is a directory (use --recursive)", arg)
					}
					err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
						if err != nil {
							return err
						}
						if d.IsDir() || filepath.Ext(path) != ".lua" ||
							strings.HasSuffix(path, ".header.lua") {
							return nil
						}
						return headerFile(path)
					})
					if err != nil {
						return err
					}
					continue
				}
				if err := headerFile(arg); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into directories")

	return cmd
}

func headerFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	header := extractHeader(path, string(content))
	headerPath := strings.TrimSuffix(path, ".lua") + ".header.lua"
	if err := os.WriteFile(headerPath, []byte(header), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", headerPath, err)
	}
	fmt.Printf("Header file saved: %s\n", headerPath)
	return nil
}

// extractHeader renders an annotated stub for every function in the
// file: signature annotations followed by an empty function body.
func extractHeader(path, content string) string {
	ctx := project.NewContext()
	ctx.DetectProjectRoot(filepath.Dir(path))
	ctx.ApplyFrameworks()

	tokens := parser.NewCodeTokenizer(content).Tokenize()
	nodes := parser.NewCodeParser(tokens).Parse()
	analysis.NewTypeAnalyzer(ctx).Analyze(nodes)

	var sb strings.Builder
	sb.WriteString("-- Lua Module Header\n\n")
	writeFunctionStubs(&sb, nodes)
	return sb.String()
}

func writeFunctionStubs(sb *strings.Builder, nodes []parser.Node) {
	annotator := annotate.NewAnnotator(false)
	for _, node := range nodes {
		fn, ok := node.(*parser.FunctionDef)
		if !ok {
			continue
		}
		names := make([]string, len(fn.Params))
		for i, param := range fn.Params {
			names[i] = param.Name
		}
		sb.WriteString(annotator.RenderNode(fn))
		fmt.Fprintf(sb, "\nfunction %s(%s) end\n\n", fn.Name, strings.Join(names, ", "))
		writeFunctionStubs(sb, fn.Body)
	}
}
