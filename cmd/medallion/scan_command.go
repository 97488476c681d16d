package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medallion/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Refresh achievement progress for the library",
		Long: `Scan walks the library and refreshes each game's achievement counts
through the configured sources. The default mode only touches games whose
progress is still unknown; --full rescans everything.`,
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

			mode := scanner.ModeAuto
			if full {
				mode = scanner.ModeFull
			}
			if err := eng.Scan(cmd.Context(), mode); err != nil {
				return err
			}

			known := 0
			for _, rec := range eng.Games() {
				if rec.HasProgress() {
					known++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scanned; %d of %d games have known progress\n", known, eng.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Rescan every game, not just those with unknown progress")
	return cmd
}
