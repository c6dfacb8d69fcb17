package app

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/five82/jot/internal/config"
	"github.com/five82/jot/internal/logtail"
)

// Logs prints the last n lines of the jot log. With raw set the JSON lines
// are printed as written; otherwise they are formatted, and tinted when
// stdout is a terminal.
func Logs(opts Options, n int, raw bool) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lines, err := logtail.Read(cfg.LogFile, n)
	if err != nil {
		return err
	}

	out := opts.Out
	color := false
	if out == nil {
		out = os.Stdout
		color = isatty.IsTerminal(os.Stdout.Fd())
	}

	if len(lines) == 0 {
		fmt.Fprintf(out, "No log entries in %s\n", cfg.LogFile)
		return nil
	}
	if !raw {
		lines = logtail.FormatLines(lines, color)
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
