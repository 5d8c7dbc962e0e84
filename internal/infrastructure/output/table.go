package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/reglet-dev/profilecache/internal/application/dto"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// TableFormatter formats profiles as a human-readable table.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// FormatProfiles writes one row per profile.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) FormatProfiles(views []dto.ProfileView) error {
	if len(views) == 0 {
		fmt.Fprintln(f.writer, "No profiles.")
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
	// Cells stay uncolored: tabwriter measures escape codes as text.
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tEMAIL\tLAST LOGIN\tID")
	for _, v := range views {
		lastLogin := v.LastLogin.Format(time.RFC3339)
		if !v.HasLastLogin {
			lastLogin += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Username, v.Email, lastLogin, v.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))

	return nil
}

// FormatReport writes the created profiles, then the failures, then a summary line.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) FormatReport(report dto.ReportView) error {
	if err := f.FormatProfiles(report.Profiles); err != nil {
		return err
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, f.colorize("Rejected:", colorBold))
		for _, failure := range report.Failures {
			fmt.Fprintf(f.writer, "  %s #%d %s: %s\n",
				f.colorize("✗", colorRed), failure.Index, failure.Username, failure.Error)
		}
	}

	fmt.Fprintln(f.writer)
	summary := fmt.Sprintf("%d total, %d created, %d failed", report.Total, report.Created, report.Failed)
	if report.Failed == 0 {
		fmt.Fprintln(f.writer, f.colorize(summary, colorGreen))
	} else {
		fmt.Fprintln(f.writer, f.colorize(summary, colorRed))
	}

	return nil
}
