package main

import (
	"fmt"
	"sort"

	"github.com/dhamidi/classremap/classfile"
	"github.com/dhamidi/classremap/remap"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRealmsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realms <file.class>...",
		Short: "Compute member rename realms for a closed set of classfiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes := make([]*remap.ClassNode, 0, len(args))
			for _, path := range args {
				cf, err := classfile.ParseFile(path)
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				nodes = append(nodes, remap.FromClassFile(cf))
			}

			realms, err := remap.ComputeRealms(nodes)
			if err != nil {
				return fmt.Errorf("compute realms: %w", err)
			}

			// Group by the realm's root so each realm prints once,
			// regardless of how many of its members appear in realms.
			seen := make(map[*remap.MemberRealm]bool)
			var roots []*remap.MemberRealm
			for _, realm := range realms {
				if !seen[realm] {
					seen[realm] = true
					roots = append(roots, realm)
				}
			}
			sort.Slice(roots, func(i, j int) bool {
				return roots[i].RootDefinition.String() < roots[j].RootDefinition.String()
			})

			heading := func(s string) string { return s }
			if colorEnabled() {
				heading = func(s string) string {
					return output.String(s).Bold().Foreground(termenv.ANSICyan).String()
				}
			}

			width, _, err := term.GetSize(int(fileFd(cmd)))
			if err != nil || width <= 0 {
				width = 80
			}

			for _, realm := range roots {
				fmt.Fprintln(cmd.OutOrStdout(), heading(realm.RootDefinition.String()))
				members := make([]string, 0, len(realm.RealmMembers))
				for m := range realm.RealmMembers {
					members = append(members, m)
				}
				sort.Strings(members)
				for _, m := range members {
					line := "  " + m
					if len(line) > width {
						line = line[:width]
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
			}
			return nil
		},
	}
	return cmd
}
