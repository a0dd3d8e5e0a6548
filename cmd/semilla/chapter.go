// Chapter commands: list narrative chapters with their unlock status.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/semilla-app/semilla/internal/records"
	"github.com/semilla-app/semilla/pkg/types"
)

var chapterShowLocked bool

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Work with narrative chapters",
}

var chapterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chapters with unlock status",
	Long: `List fetches the owner's chapters. Content of locked chapters is
redacted unless --show-locked is set.

Example:
  semilla chapter list
  semilla chapter list --show-locked --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := openApp()
		if err != nil {
			return err
		}
		defer closeFn()

		opts := records.ChapterReadOptions{
			BirthDate:            a.child.BirthDate,
			IncludeLockedContent: chapterShowLocked,
		}
		chapters, err := a.stores.Chapters.List(cmd.Context(), a.ownerID, opts)
		if err != nil {
			return fmt.Errorf("list chapters: %w", err)
		}

		if flagJSON {
			return printJSON(chapters)
		}

		printChapterTable(chapters, a.child.BirthDate)
		return nil
	},
}

func init() {
	chapterListCmd.Flags().BoolVar(&chapterShowLocked, "show-locked", false, "include content of locked chapters")
	chapterCmd.AddCommand(chapterListCmd)
}

// printChapterTable prints chapters in a human-readable table format.
func printChapterTable(chapters []types.Chapter, birthDate types.Time) {
	if len(chapters) == 0 {
		fmt.Println("No chapters found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tVERSIONS")
	fmt.Fprintln(w, "--\t-----\t------\t--------")
	now := time.Now()
	for _, ch := range chapters {
		fields := ch.Current()
		status := records.UnlockStatusFor(fields, birthDate, now)

		state := "unlocked"
		if status.IsLocked {
			state = "locked"
			if status.UnlocksOn != nil {
				state = "locked until " + status.UnlocksOn.Format("2006-01-02")
			}
		}

		title := fields.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		shortID := ch.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", shortID, title, state, ch.CurrentVersion)
	}
	w.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}
	fmt.Printf("Total: %d chapter(s)\n", len(chapters))
}
