package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/luadoc/lua/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Lua file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			tokens := parser.NewCodeTokenizer(string(content)).Tokenize()

			switch outputFormat {
			case "tokens":
				fmt.Println(parser.FormatTokens(tokens))
			case "ast":
				codeParser := parser.NewCodeParser(tokens)
				nodes := codeParser.Parse()
				fmt.Println(parser.FormatNodes(nodes))
				for _, d := range codeParser.Diagnostics() {
					fmt.Fprintf(os.Stderr, "%s: %s\n", args[0], d)
				}
			case "annotations":
				annParser := parser.NewAnnotationParser(tokens)
				nodes := annParser.Parse()
				fmt.Println(parser.FormatAnnotations(nodes))
				for _, d := range annParser.Diagnostics() {
					fmt.Fprintf(os.Stderr, "%s: %s\n", args[0], d)
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "ast", "output format (tokens, ast, annotations)")

	return cmd
}
