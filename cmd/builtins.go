package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccshell/ccsh/core"
)

// builtinsCmd lists the commands handled inside the interpreter itself.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range core.ListBuiltins() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
