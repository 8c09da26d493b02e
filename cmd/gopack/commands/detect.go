package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *CLI) newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [dir]",
		Short: "Print the dependency-management tool a build would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			strat, err := c.app.Detect(abs)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strat.String())
			return nil
		},
	}
}
