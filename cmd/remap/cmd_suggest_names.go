package main

import (
	"fmt"
	"regexp"

	"github.com/dhamidi/classremap/classfile"
	"github.com/dhamidi/classremap/remap"
	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"
)

// obfuscatedName matches the short, low-entropy identifiers typical of
// an obfuscator's output: one or two letters, optionally followed by
// digits (a, b, z9, aa, ...). It is a heuristic, not a guarantee.
var obfuscatedName = regexp.MustCompile(`^[a-zA-Z]{1,2}[0-9]*$`)

// suggestName turns an obfuscated simple name into a readable
// candidate by joining the member kind and its position ("field_0"),
// then case-converting the result according to style.
func suggestName(kind string, index int, style string) string {
	raw := fmt.Sprintf("%s_%d", kind, index)
	switch style {
	case "snake":
		return strcase.ToSnake(raw)
	case "kebab":
		return strcase.ToKebab(raw)
	case "pascal":
		return strcase.ToCamel(raw)
	case "camel", "":
		return strcase.ToLowerCamel(raw)
	default:
		return raw
	}
}

func newSuggestNamesCmd() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "suggest-names <classfile>...",
		Short: "Propose destination names for obfuscated-looking fields and methods",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				cf, err := classfile.ParseFile(path)
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				tree := remap.FromClassFile(cf)

				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s):\n", path, tree.Name)
				for i, f := range tree.Fields {
					if obfuscatedName.MatchString(f.Name) {
						fmt.Fprintf(cmd.OutOrStdout(), "  field %s %s -> %s\n", f.Name, f.Desc, suggestName("field", i, style))
					}
				}
				for i, m := range tree.Methods {
					if obfuscatedName.MatchString(m.Name) {
						fmt.Fprintf(cmd.OutOrStdout(), "  method %s%s -> %s\n", m.Name, m.Desc, suggestName("method", i, style))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "camel", "naming style: camel, pascal, snake or kebab")

	return cmd
}
