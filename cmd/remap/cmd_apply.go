package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/classremap/classfile"
	"github.com/dhamidi/classremap/remap"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// loadMappingFile reads a minimal line-oriented mapping dictionary:
//
//	class <src> <dst>
//	field <owner> <name> <desc> <dst>
//	method <owner> <name> <desc> <dst>
//
// This is a small ad hoc format for exercising MappingSink from the
// command line; parsing a real mapping format (Tiny, SRG, ProGuard) is
// explicitly out of scope for the rewriting engine itself.
func loadMappingFile(path string) (*remap.SimpleMappingLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	sink := remap.NewSimpleMappingLookup()
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "class":
			if len(fields) != 3 {
				return nil, fmt.Errorf("mapping file %s line %d: expected 'class <src> <dst>'", path, lineNo)
			}
			sink.RemapClass(fields[1], fields[2])
		case "field", "method":
			if len(fields) != 5 {
				return nil, fmt.Errorf("mapping file %s line %d: expected '%s <owner> <name> <desc> <dst>'", path, lineNo, fields[0])
			}
			ref := remap.NewMemberRef(fields[1], fields[2], fields[3])
			if err := sink.RemapMemberChecked(ref, fields[4]); err != nil {
				return nil, fmt.Errorf("mapping file %s line %d: %w", path, lineNo, err)
			}
		default:
			return nil, fmt.Errorf("mapping file %s line %d: unknown entry kind %q", path, lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	return sink, nil
}

// renameReport summarizes the renames a single RewriteClass call
// actually performed, for either the text or the --format=json
// renderer.
type renameReport struct {
	SourcePath  string   `json:"source_path"`
	ClassName   string   `json:"class_name"`
	Renamed     bool     `json:"renamed"`
	Fields      []string `json:"fields_renamed,omitempty"`
	Methods     []string `json:"methods_renamed,omitempty"`
	DescTouched int      `json:"descriptors_touched"`
}

func buildReport(path, originalName string, tree *remap.ClassNode, originalFields, originalMethods map[string]string) *renameReport {
	rep := &renameReport{
		SourcePath: path,
		ClassName:  tree.Name,
		Renamed:    tree.Name != originalName,
	}
	for i, f := range tree.Fields {
		key := fmt.Sprintf("field#%d", i)
		if originalFields[key] != f.Name {
			ft := classfile.ParseFieldDescriptor(f.Desc)
			typeNote := f.Desc
			if ft != nil {
				typeNote = ft.String()
			}
			rep.Fields = append(rep.Fields, fmt.Sprintf("%s -> %s (%s)", originalFields[key], f.Name, typeNote))
		}
		if strings.HasPrefix(f.Desc, "[") || strings.HasPrefix(f.Desc, "L") {
			rep.DescTouched++
		}
	}
	for i, m := range tree.Methods {
		key := fmt.Sprintf("method#%d", i)
		if originalMethods[key] != m.Name {
			md := classfile.ParseMethodDescriptor(m.Desc)
			sig := m.Desc
			if md != nil {
				sig = md.String()
			}
			rep.Methods = append(rep.Methods, fmt.Sprintf("%s -> %s %s", originalMethods[key], m.Name, sig))
		}
	}
	return rep
}

func newApplyCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "apply <mapping-file> <classfile>...",
		Short: "Rewrite classfiles' names against a mapping dictionary and report the changes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := loadMappingFile(args[0])
			if err != nil {
				return err
			}
			rewriter := remap.NewClassRewriter(lookup)

			var reports []*renameReport
			for _, path := range args[1:] {
				cf, err := classfile.ParseFile(path)
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}

				tree := remap.FromClassFile(cf)
				originalName := tree.Name
				originalFields := make(map[string]string, len(tree.Fields))
				for i, f := range tree.Fields {
					originalFields[fmt.Sprintf("field#%d", i)] = f.Name
				}
				originalMethods := make(map[string]string, len(tree.Methods))
				for i, m := range tree.Methods {
					originalMethods[fmt.Sprintf("method#%d", i)] = m.Name
				}

				if err := rewriter.RewriteClass(tree); err != nil {
					return fmt.Errorf("rewrite %s: %w", path, err)
				}

				reports = append(reports, buildReport(path, originalName, tree, originalFields, originalMethods))
			}

			switch format {
			case "", "text":
				printReportsText(cmd, reports)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			default:
				return fmt.Errorf("unknown --format %q (want text or json)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")

	return cmd
}

func printReportsText(cmd *cobra.Command, reports []*renameReport) {
	bold := func(s string) string { return s }
	if colorEnabled() {
		bold = func(s string) string { return output.String(s).Bold().Foreground(termenv.ANSIGreen).String() }
	}
	for _, rep := range reports {
		status := "unchanged"
		if rep.Renamed {
			status = bold("renamed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: class %s (%s)\n", rep.SourcePath, rep.ClassName, status)
		for _, f := range rep.Fields {
			fmt.Fprintf(cmd.OutOrStdout(), "  field  %s\n", f)
		}
		for _, m := range rep.Methods {
			fmt.Fprintf(cmd.OutOrStdout(), "  method %s\n", m)
		}
		if rep.DescTouched > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d field descriptor(s) touched\n", rep.DescTouched)
		}
	}
}
