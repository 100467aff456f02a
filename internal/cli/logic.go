package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/topfiles/internal/topfiles"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func logic(ctx context.Context, options topfiles.Options, stdout, stderr io.Writer) error {
	enableProgress := options.Output == "table" &&
		!options.Debug &&
		isTerminal(stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(topfiles.Progress)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(p topfiles.Progress) {
			msg := fmt.Sprintf("Scanning… %s files in %s directories, %s",
				humanize.Comma(p.Files), humanize.Comma(p.Dirs),
				humanize.IBytes(uint64(p.Bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	stats, err := topfiles.Run(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	// An interrupted scan still has a valid partial report.
	if stats == nil {
		return err
	}

	if printErr := report(stats, options, stdout); printErr != nil {
		return printErr
	}

	return err
}

func report(stats *topfiles.Stats, options topfiles.Options, w io.Writer) error {
	switch options.Output {
	case "json":
		return PrintJSON(stats, w, options.ShowErrors)
	case "paths":
		return PrintPaths(stats, w)
	case "table":
		return PrintTable(stats, w, options.Units, options.ShowErrors)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}
