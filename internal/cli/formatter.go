package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/idelchi/topfiles/internal/topfiles"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Size unit systems.
const (
	// UnitsClassic divides by 1024 and labels bytes, KB, MB and GB.
	UnitsClassic = "classic"
	// UnitsIEC uses binary prefixes (KiB, MiB, ...).
	UnitsIEC = "iec"
	// UnitsSI uses decimal prefixes (kB, MB, ...).
	UnitsSI = "si"
)

//nolint:gochecknoglobals // Display constants
var (
	colorAccent = lipgloss.Color("#88C0D0")
	colorDim    = lipgloss.Color("#7A8291")
)

// ClassicSize scales size down by 1024 while it exceeds 1024, up to GB.
func ClassicSize(size int64) (float64, string) {
	units := []string{"bytes", "KB", "MB", "GB"}

	value := float64(size)
	index := 0

	for value > 1024 && index < len(units)-1 {
		value /= 1024
		index++
	}

	return value, units[index]
}

// FormatSize renders size in the given unit system.
func FormatSize(size int64, units string) string {
	switch units {
	case UnitsIEC:
		return humanize.IBytes(uint64(size)) //nolint:gosec // Sizes are never negative
	case UnitsSI:
		return humanize.Bytes(uint64(size)) //nolint:gosec // Sizes are never negative
	default:
		value, unit := ClassicSize(size)

		return fmt.Sprintf("%.2f %s", value, unit)
	}
}

// PrintJSON outputs the report in JSON format. Error records are only
// included when showErrors is set.
func PrintJSON(stats *topfiles.Stats, writer io.Writer, showErrors bool) error {
	view := *stats
	if !showErrors {
		view.Errors = nil
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPaths outputs one path per line, largest first.
func PrintPaths(stats *topfiles.Stats, writer io.Writer) error {
	for _, f := range stats.TopFiles {
		if _, err := fmt.Fprintln(writer, f.Path); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(stats *topfiles.Stats, writer io.Writer, units string, showErrors bool) error {
	r := lipgloss.NewRenderer(writer)
	heading := r.NewStyle().Bold(true).Foreground(colorAccent)
	dim := r.NewStyle().Foreground(colorDim)

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, heading.Render(fmt.Sprintf("Top %d largest files:", stats.TopN)))

	if len(stats.TopFiles) == 0 {
		fmt.Fprintln(w, dim.Render("  no files found"))
	}

	for i, f := range stats.TopFiles {
		pct := 0.0
		if stats.TotalBytes > 0 {
			pct = 100.0 * float64(f.Size) / float64(stats.TotalBytes)
		}

		fmt.Fprintf(w, "  %d) '%s'\t%s\t(%.1f%%)\n", i+1, f.Path, FormatSize(f.Size, units), pct)
	}

	// Stats summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, heading.Render("Summary:"))
	fmt.Fprintf(w, "Files found:\t%s\n", humanize.Comma(stats.FileCount))
	fmt.Fprintf(w, "Directories visited:\t%s\n", humanize.Comma(stats.DirCount))
	fmt.Fprintf(w, "Errors:\t%s\n", humanize.Comma(stats.ErrorCount))
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", FormatSize(stats.TotalBytes, units), stats.TotalBytes)
	fmt.Fprintf(w, "Elapsed:\t%v\n", stats.Elapsed)

	if showErrors && len(stats.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading.Render("Errors:"))

		for _, rec := range stats.Errors {
			fmt.Fprintf(w, "  [%s]\t%s\n", rec.Kind, rec.Cause)
		}
	}

	return w.Flush()
}
