package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/export"
	"github.com/Tiliavir/cafe-core/internal/timetrack"
)

var (
	exportFormat string
	exportKind   string
	exportDate   string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the presence report or the entry log",
	Args:  cobra.NoArgs,
	RunE:  withApp(runExport),
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, xlsx")
	exportCmd.Flags().StringVar(&exportKind, "kind", "presence", "What to export: presence, entries")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Day (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, _ []string, a *app) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if format.Binary() && exportOut == "" {
		return fmt.Errorf("--out is required for %s", format)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	switch exportKind {
	case "presence":
		rep, err := buildReport(a, exportDate)
		if err != nil {
			return err
		}
		err = export.Presence(w, format, rep, a.loc)
		if err != nil {
			return err
		}
	case "entries":
		entries := timetrack.SortEntries(a.events.AllEntries())
		if exportDate != "" {
			day, err := resolveDate(a, exportDate)
			if err != nil {
				return err
			}
			entries = timetrack.SortEntries(a.events.EntriesOnDate(day))
		}
		if err := export.Entries(w, format, entries, a.loc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown export kind %q (want presence or entries)", exportKind)
	}

	if exportOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOut)
	}
	return nil
}
