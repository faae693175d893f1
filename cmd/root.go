// Package cmd implements the p4x command line: read-only queries over the
// p4 engine with JSON or YAML output.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/EmundoT/p4-plumbing/internal/config"
	"github.com/EmundoT/p4-plumbing/pkg/p4"
)

// rootOptions holds the persistent flags and builds the engine on first use.
type rootOptions struct {
	configPath string
	client     string
	port       string
	user       string
	format     string
	logLevel   string

	getenv func(string) string
	runner p4.Runner // replaces the exec runner when set
	engine *p4.P4
}

// NewRootCmd creates the p4x command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{getenv: os.Getenv})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "p4x",
		Short: "Structured output for the Perforce command-line client",
		Long: `p4x runs p4 and turns its text output into JSON or YAML records.

Connection settings come from the profile (--config, default
$XDG_CONFIG_HOME/p4x/p4x.yml), then P4X_* environment variables,
then the -c/-p/-u flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the p4x profile")
	flags.StringVarP(&opts.client, "client", "c", "", "Client workspace (p4 -c)")
	flags.StringVarP(&opts.port, "port", "p", "", "Server address (p4 -p)")
	flags.StringVarP(&opts.user, "user", "u", "", "User name (p4 -u)")
	flags.StringVar(&opts.format, "format", formatJSON, "Output format: json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "", "Engine log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newOpenedCmd(opts),
		newWhereCmd(opts),
		newHaveCmd(opts),
		newFilesCmd(opts),
		newFilelogCmd(opts),
		newFstatCmd(opts),
		newChangesCmd(opts),
		newDescribeCmd(opts),
		newDiffCmd(opts),
		newDiff2Cmd(opts),
		newPrintCmd(opts),
		newClientsCmd(opts),
		newLabelsCmd(opts),
		newBranchesCmd(opts),
		newChangeCmd(opts),
		newClientCmd(opts),
		newRawCmd(opts),
		newVersionCmd(opts),
		newCompletionCmd(),
	)
	return cmd
}

// connect loads the profile, applies environment and flag overrides, sets the
// engine log level and returns the configured engine.
func (o *rootOptions) connect() (*p4.P4, error) {
	if o.engine != nil {
		return o.engine, nil
	}
	if err := checkFormat(o.format); err != nil {
		return nil, err
	}
	profile, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	profile.ApplyEnv(o.getenv)
	if o.logLevel != "" {
		profile.LogLevel = o.logLevel
	}
	level, err := profile.Level()
	if err != nil {
		return nil, err
	}
	p4.SetLogLevel(level)

	engine, err := profile.NewP4()
	if err != nil {
		return nil, err
	}
	engine.Conn = engine.Conn.Merge(p4.Connection{Client: o.client, Port: o.port, User: o.user})
	if o.runner != nil {
		engine.Runner = o.runner
	}
	o.engine = engine
	return engine, nil
}

// Execute runs p4x with args. An interrupt cancels the running p4 process.
func Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
