package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/tree"
)

type listOpts struct {
	selectFlags
	json            bool
	excludeMetadata bool
}

func (c *CLI) listCommand() *cobra.Command {
	opts := &listOpts{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dependencies grouped by license",
		Long: `List the project's dependencies grouped by license.

Every package shows the descriptor it was selected through and, unless
--exclude-metadata is set, its repository URL and vendor.`,
		Example: `  # Direct dependencies of all workspaces
  licensetower list

  # Every production dependency as JSON lines
  licensetower list -R --production --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print one JSON document per license")
	cmd.Flags().BoolVar(&opts.excludeMetadata, "exclude-metadata", false, "leave out URL and vendor information")

	return cmd
}

func (c *CLI) runList(ctx context.Context, cmd *cobra.Command, opts *listOpts) error {
	s, selected, err := c.selectPackages(ctx, cmd, &opts.selectFlags)
	if err != nil {
		return err
	}

	root, err := tree.Build(ctx, s.project, s.linker, selected, tree.Options{
		ExcludeMetadata: opts.excludeMetadata,
		JSON:            opts.json,
		Workers:         opts.workers,
	})
	if err != nil {
		return err
	}

	if opts.json {
		return tree.WriteJSON(cmd.OutOrStdout(), root)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), tree.Render(root))
	return err
}
