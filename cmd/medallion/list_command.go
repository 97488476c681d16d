package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"medallion/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var incompleteOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the game library and achievement progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			if eng.Len() == 0 {
				if err := eng.Reload(cmd.Context()); err != nil {
					return err
				}
			}

			headers := []string{"App ID", "Name", "Type", "Achievements", "Blocked"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft}
			var rows [][]string
			for _, rec := range eng.Games() {
				if incompleteOnly && !rec.HasIncomplete() {
					continue
				}
				rows = append(rows, []string{
					strconv.FormatUint(uint64(rec.AppID), 10),
					rec.Name,
					string(rec.Category),
					formatProgress(rec),
					formatBlocked(rec.UnlockBlocked),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			fmt.Fprintf(cmd.OutOrStdout(), "%d games\n", len(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&incompleteOnly, "incomplete", false, "Only show games with locked achievements remaining")
	return cmd
}

func formatProgress(rec library.GameRecord) string {
	if !rec.HasProgress() {
		return "?"
	}
	return fmt.Sprintf("%d/%d", rec.AchievementUnlocked, rec.AchievementTotal)
}

func formatBlocked(blocked bool) string {
	if blocked {
		return "yes"
	}
	return ""
}
