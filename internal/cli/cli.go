// Package cli implements the licensetower command-line interface.
//
// The commands load a resolved Yarn project (from yarn.lock or a JSON
// snapshot), select its dependencies and report their licenses:
//   - generate-disclaimer: write the combined disclaimer, a CSV summary or
//     one file per package
//   - list: show dependencies grouped by license
//   - snapshot: export the loaded project as JSON
//   - completion: shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
	"github.com/matzehuels/licensetower/pkg/observability"
)

// appName is the application name used for the config file and display.
const appName = "licensetower"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cwd        string
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Licensetower reports the licenses of a project's dependencies",
		Long:          `Licensetower reads a resolved Yarn project and produces license disclaimers, CSV summaries and license trees for its dependencies.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			hooks := newLogHooks(c.Logger)
			observability.SetSelectionHooks(hooks)
			observability.SetAggregationHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cwd, "cwd", ".", "directory to run in (must be inside a workspace)")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: <project>/"+configFilename+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.disclaimerCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.completionCommand())

	return root
}
