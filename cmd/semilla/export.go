// Export command writes a portable bundle of the full history.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/semilla-app/semilla/internal/export"
	"github.com/semilla-app/semilla/pkg/types"
)

var (
	exportFormat        string
	exportOut           string
	exportFromYear      int
	exportToYear        int
	exportIncludeLocked bool
	exportKeepHistory   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full history as a portable bundle",
	Long: `Export snapshots all three layers, computes per-layer checksums, and
writes a self-contained bundle. JSON bundles round-trip through "semilla
check"; HTML bundles are a single readable page; ZIP bundles carry both
plus a media manifest.

Locked chapters are excluded by default and reported as a warning; pass
--include-locked to keep them. By default each record is collapsed to
its latest version; pass --keep-history for the full chains.

Example:
  semilla export
  semilla export --format zip --out /tmp/historia.zip
  semilla export --from-year 2020 --to-year 2022 --keep-history`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseExportFormat(exportFormat)
		if err != nil {
			return err
		}

		a, closeFn, err := openApp()
		if err != nil {
			return err
		}
		defer closeFn()

		opts := types.ExportOptions{
			IncludeLockedChapters:  exportIncludeLocked,
			PreserveVersionHistory: exportKeepHistory,
		}
		if exportFromYear != 0 || exportToYear != 0 {
			r, err := yearRange(exportFromYear, exportToYear)
			if err != nil {
				return err
			}
			opts.YearRange = r
		}

		data, result := a.export.Snapshot(cmd.Context(), a.ownerID, opts)
		if !result.Success {
			for _, e := range result.Errors {
				fmt.Fprintln(os.Stderr, "error:", e)
			}
			return fmt.Errorf("export snapshot failed")
		}

		outPath := exportOut
		if outPath == "" {
			outPath = export.SuggestedFilename(format, time.Now())
		}
		if dir := filepath.Dir(outPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		var size int64
		switch format {
		case export.FormatJSON:
			size, err = export.WriteJSON(f, data)
		case export.FormatHTML:
			size, err = export.WriteHTML(f, data)
		case export.FormatZIP:
			size, err = export.WriteZIP(f, data)
		}
		if err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output file: %w", err)
		}

		result.Filename = outPath
		result.SizeBytes = size

		if flagJSON {
			return printJSON(result)
		}

		fmt.Printf("Exported %s (%d bytes)\n", outPath, size)
		for key, n := range result.ItemCounts {
			fmt.Printf("  %s: %d\n", key, n)
		}
		for _, w := range result.Warnings {
			fmt.Println("  warning:", w)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "bundle format (json, html, zip)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: semilla-export-<date>.<ext>)")
	exportCmd.Flags().IntVar(&exportFromYear, "from-year", 0, "include years from this one on")
	exportCmd.Flags().IntVar(&exportToYear, "to-year", 0, "include years up to this one")
	exportCmd.Flags().BoolVar(&exportIncludeLocked, "include-locked", false, "keep chapters whose unlock gate has not passed")
	exportCmd.Flags().BoolVar(&exportKeepHistory, "keep-history", false, "preserve full version history")
}

// parseExportFormat validates the --format flag.
func parseExportFormat(s string) (string, error) {
	switch s {
	case export.FormatJSON, export.FormatHTML, export.FormatZIP:
		return s, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, html or zip)", s)
	}
}

// yearRange builds the inclusive year filter, defaulting open ends.
func yearRange(from, to int) (*types.YearRange, error) {
	if from == 0 {
		from = 1
	}
	if to == 0 {
		to = 9999
	}
	if from > to {
		return nil, fmt.Errorf("--from-year %d is after --to-year %d", from, to)
	}
	return &types.YearRange{From: from, To: to}, nil
}
