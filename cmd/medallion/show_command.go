package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <app-id>",
		Short: "Show one game's record, enriched with store metadata",
		Args:  cobra.ExactArgs(1),
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

			appID, err := parseAppID(args[0])
			if err != nil {
				return err
			}

			rec, enrichErr := eng.Enrich(cmd.Context(), appID)
			if rec.AppID == 0 {
				return enrichErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "App ID:       %d\n", rec.AppID)
			fmt.Fprintf(out, "Name:         %s\n", rec.Name)
			fmt.Fprintf(out, "Type:         %s\n", rec.Category)
			fmt.Fprintf(out, "Achievements: %s\n", formatProgress(rec))
			if rec.ImageRef != "" {
				fmt.Fprintf(out, "Artwork:      %s\n", rec.ImageRef)
			}
			if rec.UnlockBlocked {
				fmt.Fprintln(out, "Blocked:      yes")
			}
			if enrichErr != nil {
				fmt.Fprintf(out, "Store metadata unavailable: %v\n", enrichErr)
			}
			return nil
		},
	}
}
