// Package app provides the command-line interface implementation for
// readywait. Commands are organized hierarchically with a root command and
// subcommands, cobra-style.
package app

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/readywait/internal/config"
)

const (
	// cliName is the name of the CLI application
	cliName = "readywait"

	// cliDescription is the short description shown in help text
	cliDescription = "readywait - wait for a just-started HTTP service to become ready"
)

// GlobalOptions holds options that are common to all commands
type GlobalOptions struct {
	// ConfigPath points at an optional readywait.yaml
	ConfigPath string

	// Verbose enables per-probe debug output
	Verbose bool
}

// NewReadywaitCommand creates the root readywait command with all
// subcommands.
func NewReadywaitCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `readywait polls one or more candidate URLs of a service that was just
asked to start, until one of them answers 2xx or a deadline elapses.

Candidates are tried in the order given; when several are up in the same
polling round, the earliest one in the list wins. An optional content
signature soft-verifies that the right service answered.

Typical use is right after launching a container or local process:

  my-runtime run ... && readywait wait http://127.0.0.1:3000/ http://127.0.0.1:8080/`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "",
		"path to a readywait.yaml (flags override it)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"verbose output")

	cmd.AddCommand(
		NewWaitCommand(opts),
		NewServeCommand(opts),
		NewVersionCommand(opts),
	)

	return cmd
}

// loadConfig resolves the effective configuration: environment defaults,
// then the optional config file on top.
func loadConfig(opts *GlobalOptions) (config.Config, error) {
	cfg := config.FromEnv()
	if opts.ConfigPath != "" {
		return cfg.WithFile(opts.ConfigPath)
	}
	return cfg, nil
}
