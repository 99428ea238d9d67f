package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/graystore/internal/dispatch"
	"github.com/nerrad567/graystore/internal/storeapi"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	bind       string
}

// newRootCommand builds the CLI. With no subcommand it serves.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "graystore",
		Short:         "Content-addressed store over JSON/HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, nil)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default $GRAYSTORE_CONFIG or ./configs/graystore.yaml)")
	cmd.Flags().StringVar(&opts.bind, "bind", "", "bind URI, e.g. http://0.0.0.0:9000 (default from config)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newRoutesCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, nil)
		},
	}
	cmd.Flags().StringVar(&opts.bind, "bind", "", "bind URI, e.g. http://0.0.0.0:9000 (default from config)")
	return cmd
}

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print every action path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			routes := dispatch.New(storeapi.Routes(storeapi.Default())).Routes()
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(routes, "\n"))
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "graystore %s (commit %s, built %s)\n", version, commit, date)
			return err
		},
	}
}
