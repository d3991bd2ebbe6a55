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

func newAnnotateCmd() *cobra.Command {
	var outputPattern string
	var overwrite bool
	var recursive bool

	cmd := &cobra.Command{
		Use:   "annotate <file>...",
		Short: "Generate ---@ annotations for Lua source files",
		Long: `Parses each input file, infers parameter and return types and
writes an annotated copy. The output pattern may be a directory or
contain {} as a placeholder for the input filename without extension;
by default the result goes next to the input as <name>.annotated.lua.`,
		Args: cobra.MinimumNArgs(1),
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
							strings.HasSuffix(path, ".annotated.lua") {
							return nil
						}
						return annotateFile(path, outputPattern, overwrite)
					})
					if err != nil {
						return err
					}
					continue
				}
				if err := annotateFile(arg, outputPattern, overwrite); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPattern, "output", "o", "", "output directory or filename pattern ({} is the input name without extension)")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "w", false, "write the result back to the input file")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into directories")

	return cmd
}

func annotateFile(path, outputPattern string, overwrite bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	annotated, diags := annotateSource(path, string(content))
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, d)
	}

	outputPath := annotateOutputPath(path, outputPattern, overwrite)
	if err := os.WriteFile(outputPath, []byte(annotated), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	fmt.Printf("Annotated file saved: %s\n", outputPath)
	return nil
}

// annotateSource runs the full pipeline over one file: tokenize,
// parse code and annotations, infer types against the project
// context, then splice each node's annotation block into the source
// directly above the node's first line. Every source line survives
// unchanged.
func annotateSource(path, content string) (string, []parser.Diagnostic) {
	ctx := project.NewContext()
	ctx.DetectProjectRoot(filepath.Dir(path))
	ctx.ApplyFrameworks()
	ctx.ProcessTypeFiles()

	tokens := parser.NewCodeTokenizer(content).Tokenize()

	codeParser := parser.NewCodeParser(tokens)
	nodes := codeParser.Parse()

	annParser := parser.NewAnnotationParser(tokens)
	ctx.RegisterAnnotations(annParser.Parse())

	analysis.NewTypeAnalyzer(ctx).Analyze(nodes)

	blocks := map[int][]string{}
	collectAnnotationBlocks(annotate.NewAnnotator(false), nodes, blocks)

	diags := append(codeParser.Diagnostics(), annParser.Diagnostics()...)
	return spliceAnnotations(content, blocks), diags
}

// collectAnnotationBlocks renders module and function nodes and
// indexes the resulting annotation lines by the node's source line.
// Docs are not re-emitted: the source already carries them.
func collectAnnotationBlocks(a *annotate.Annotator, nodes []parser.Node, blocks map[int][]string) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *parser.ModuleDeclaration:
			if rendered := a.RenderNode(n); rendered != "" {
				blocks[n.Span.Line] = append(blocks[n.Span.Line], strings.Split(rendered, "\n")...)
			}
		case *parser.FunctionDef:
			if rendered := a.RenderNode(n); rendered != "" {
				blocks[n.Span.Line] = append(blocks[n.Span.Line], strings.Split(rendered, "\n")...)
			}
			collectAnnotationBlocks(a, n.Body, blocks)
		case *parser.IfStatement:
			collectAnnotationBlocks(a, n.Then, blocks)
			for _, arm := range n.Elifs {
				collectAnnotationBlocks(a, arm, blocks)
			}
			collectAnnotationBlocks(a, n.Else, blocks)
		case *parser.WhileLoop:
			collectAnnotationBlocks(a, n.Body, blocks)
		case *parser.ForLoop:
			collectAnnotationBlocks(a, n.Body, blocks)
		case *parser.RepeatUntil:
			collectAnnotationBlocks(a, n.Body, blocks)
		case *parser.DoBlock:
			collectAnnotationBlocks(a, n.Body, blocks)
		}
	}
}

// spliceAnnotations writes the source back out line by line,
// inserting each collected block above its line at the line's own
// indentation. A block whose lines already sit directly above the
// node is not inserted again.
func spliceAnnotations(content string, blocks map[int][]string) string {
	lines := strings.Split(content, "\n")
	var sb strings.Builder
	for i, line := range lines {
		if block, ok := blocks[i+1]; ok && !annotatedAbove(lines, i, block) {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			for _, annotation := range block {
				sb.WriteString(indent)
				sb.WriteString(annotation)
				sb.WriteString("\n")
			}
		}
		sb.WriteString(line)
		if i < len(lines)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// annotatedAbove reports whether the block's first line already
// appears in the annotation run immediately preceding line i, which
// makes re-annotating an annotated file a no-op for that node.
func annotatedAbove(lines []string, i int, block []string) bool {
	if len(block) == 0 {
		return false
	}
	first := strings.TrimSpace(block[0])
	for j := i - 1; j >= 0; j-- {
		trimmed := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(trimmed, "---") {
			return false
		}
		if trimmed == first {
			return true
		}
	}
	return false
}

func annotateOutputPath(path, pattern string, overwrite bool) string {
	if overwrite {
		return path
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if pattern == "" {
		return filepath.Join(filepath.Dir(path), stem+".annotated.lua")
	}
	if strings.Contains(pattern, "{}") {
		return strings.ReplaceAll(pattern, "{}", stem)
	}
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		return filepath.Join(pattern, stem+".annotated.lua")
	}
	return pattern
}
