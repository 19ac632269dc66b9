package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/io"
)

func (c *CLI) snapshotCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export the resolved project as JSON",
		Long: `Export the resolved project (workspaces, packages and resolutions) as
JSON. The snapshot can be passed to --snapshot of the other commands.`,
		Example: `  licensetower snapshot -o project.json
  licensetower generate-disclaimer --snapshot project.json --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshot(cmd.Context(), cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) runSnapshot(ctx context.Context, cmd *cobra.Command, output string) error {
	s, err := c.openSession(ctx, "")
	if err != nil {
		return err
	}
	if output == "" {
		return io.WriteJSON(s.project, cmd.OutOrStdout())
	}
	if err := io.ExportJSON(s.project, output); err != nil {
		return err
	}
	printFile(cmd.ErrOrStderr(), output)
	return nil
}
