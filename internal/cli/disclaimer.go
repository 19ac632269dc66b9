package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/deps"
	"github.com/matzehuels/licensetower/pkg/disclaimer"
)

// selectFlags are shared by the commands that select packages.
type selectFlags struct {
	recursive  bool
	production bool
	snapshot   string
	workers    int
}

func (f *selectFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "R", false, "include transitive dependencies")
	cmd.Flags().BoolVar(&f.production, "production", false, "exclude development dependencies")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "load the project from a JSON snapshot instead of yarn.lock")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "packages read in parallel (default 8)")
}

// applyConfig fills unset flags from the config file.
func (f *selectFlags) applyConfig(cmd *cobra.Command, cfg Config) {
	applyBool(cmd.Flags(), "recursive", &f.recursive, cfg.Recursive)
	applyBool(cmd.Flags(), "production", &f.production, cfg.Production)
	applyInt(cmd.Flags(), "workers", &f.workers, cfg.Workers)
}

// selectPackages opens the project and runs the selector.
func (c *CLI) selectPackages(ctx context.Context, cmd *cobra.Command, f *selectFlags) (*session, []deps.Selected, error) {
	s, err := c.openSession(ctx, f.snapshot)
	if err != nil {
		return nil, nil, err
	}
	f.applyConfig(cmd, s.config)

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	selected, err := deps.SortedPackages(ctx, s.project, deps.Options{
		Recursive:  f.recursive,
		Production: f.production,
	})
	if err != nil {
		return nil, nil, err
	}
	prog.done(fmt.Sprintf("Selected %d packages", len(selected)))
	return s, selected, nil
}

type disclaimerOpts struct {
	selectFlags
	stdout     bool
	outputFile string
	outputCSV  string
	outputDir  string
}

func (c *CLI) disclaimerCommand() *cobra.Command {
	opts := &disclaimerOpts{}

	cmd := &cobra.Command{
		Use:   "generate-disclaimer",
		Short: "Generate the license disclaimer for the project's dependencies",
		Long: `Generate the license disclaimer for the project's dependencies.

By default only direct dependencies of every workspace are included. With
--recursive the disclaimer includes transitive dependencies; with
--production development dependencies are left out.`,
		Example: `  # Print the disclaimer of direct dependencies
  licensetower generate-disclaimer --stdout

  # Production dependencies, transitively, to a file and a CSV summary
  licensetower generate-disclaimer -R --production --outputFile NOTICE.txt --outputCsv licenses.csv

  # One file per package
  licensetower generate-disclaimer -R --outputDir third_party/licenses`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDisclaimer(cmd.Context(), cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write the combined disclaimer to stdout")
	cmd.Flags().StringVar(&opts.outputFile, "outputFile", "", "write the combined disclaimer to a file")
	cmd.Flags().StringVar(&opts.outputCSV, "outputCsv", "", "write a CSV summary to a file")
	cmd.Flags().StringVar(&opts.outputDir, "outputDir", "", "write one npm-license.txt per package below a directory")

	return cmd
}

func (c *CLI) runDisclaimer(ctx context.Context, cmd *cobra.Command, opts *disclaimerOpts) error {
	s, selected, err := c.selectPackages(ctx, cmd, &opts.selectFlags)
	if err != nil {
		return err
	}
	out := s.config.Output
	applyBool(cmd.Flags(), "stdout", &opts.stdout, out.Stdout)
	applyString(cmd.Flags(), "outputFile", &opts.outputFile, out.File)
	applyString(cmd.Flags(), "outputCsv", &opts.outputCSV, out.CSV)
	applyString(cmd.Flags(), "outputDir", &opts.outputDir, out.Dir)

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	res, err := disclaimer.Generate(ctx, s.project, s.linker, selected, disclaimer.Options{
		Workers: opts.workers,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d disclaimers", len(res.Entries)))

	if opts.outputDir != "" {
		if _, err := disclaimer.EntryPaths(opts.outputDir, res.Entries); err != nil {
			return err
		}
	}

	status := cmd.ErrOrStderr()
	wrote := false

	if opts.outputCSV != "" {
		var buf bytes.Buffer
		if err := disclaimer.WriteCSV(&buf, res.Entries); err != nil {
			return err
		}
		if err := disclaimer.WriteFile(opts.outputCSV, buf.Bytes()); err != nil {
			return err
		}
		printFile(status, opts.outputCSV)
		wrote = true
	}

	if opts.outputDir != "" {
		if err := disclaimer.WriteEntries(opts.outputDir, res.Entries); err != nil {
			return err
		}
		printFile(status, opts.outputDir)
		wrote = true
	}

	all := disclaimer.Concat(res.Disclaimers)
	if opts.outputFile != "" {
		if err := disclaimer.WriteFile(opts.outputFile, []byte(all)); err != nil {
			return err
		}
		printFile(status, opts.outputFile)
		wrote = true
	}

	if opts.stdout {
		if _, err := io.WriteString(cmd.OutOrStdout(), all); err != nil {
			return err
		}
		wrote = true
	}

	if !wrote {
		printWarning(status, "No output selected; use --stdout, --outputFile, --outputCsv or --outputDir")
	}
	return nil
}
