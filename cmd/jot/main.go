package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/jot/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "jot: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "jot",
		Short:         "A terminal todo list",
		Long:          `jot lists and creates todos on a todo API, interactively or from the command line.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/jot/config.toml)")
	flags.StringVar(&opts.APIURL, "api-url", "", "todo API base URL (overrides config and JOT_API_URL)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/jot/prefs.toml)")

	root.AddCommand(newListCmd(&opts), newAddCmd(&opts), newLogsCmd(&opts))
	return root
}

func newListCmd(opts *app.Options) *cobra.Command {
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch > 0 {
				return app.Watch(cmd.Context(), *opts, watch)
			}
			return app.List(cmd.Context(), *opts)
		},
	}
	cmd.Flags().DurationVarP(&watch, "watch", "w", 0, "refresh the list at this interval until interrupted")
	return cmd
}

func newAddCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <description>...",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Add(cmd.Context(), *opts, strings.Join(args, " "))
		},
	}
}

func newLogsCmd(opts *app.Options) *cobra.Command {
	var (
		lines int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Logs(*opts, lines, raw)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print JSON lines as written")
	return cmd
}
