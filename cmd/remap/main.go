package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// output carries the styling decision for the whole process: color
// only when stdout is a real terminal, matching the teacher's own
// habit of checking isatty before committing to ANSI output.
var output = termenv.NewOutput(os.Stdout, termenv.WithColorCache(true))

func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// fileFd returns the file descriptor backing cmd's configured stdout,
// falling back to the process's own stdout when it isn't a *os.File
// (e.g. a bytes.Buffer in a test), in which case term.GetSize simply
// fails and callers fall back to a fixed width.
func fileFd(cmd *cobra.Command) uintptr {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f.Fd()
	}
	return os.Stdout.Fd()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "classremap",
		Short: "Rewrite JVM classfile names and descriptors against a mapping dictionary",
	}

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newRealmsCmd())
	rootCmd.AddCommand(newSuggestNamesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
