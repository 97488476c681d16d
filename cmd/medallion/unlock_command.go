package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newUnlockCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock-all [app-id]",
		Short: "Unlock achievements through the companion process",
		Long: `With no argument, unlock-all walks the whole library one game at a
time, skipping games marked blocked. With an app id, it unlocks that game
only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				appID, err := parseAppID(args[0])
				if err != nil {
					return err
				}
				result, err := eng.UnlockApp(cmd.Context(), appID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"App %d: unlocked %d (skipped %d protected), now %d/%d\n",
					appID, result.Changed, result.SkippedProtected, result.Unlocked, result.Total)
				return nil
			}

			if eng.Len() == 0 {
				if err := eng.Reload(cmd.Context()); err != nil {
					return err
				}
			}
			summary, err := eng.UnlockAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Attempted %d games: %d achievements unlocked, %d protected, %d blocked, %d failures\n",
				summary.Attempted, summary.Changed, summary.SkippedProtected,
				summary.SkippedBlocked, summary.Failures)
			return nil
		},
	}
	return cmd
}

func newBlockCommand(ctx *commandContext) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "block <app-id>",
		Short: "Protect a game from unlock-all passes",
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
			if err := eng.SetUnlockBlocked(appID, !clear); err != nil {
				return err
			}
			if clear {
				fmt.Fprintf(cmd.OutOrStdout(), "App %d unblocked\n", appID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "App %d blocked from unlocking\n", appID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the block instead of setting it")
	return cmd
}

func parseAppID(value string) (uint32, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid app id %q", value)
	}
	return uint32(id), nil
}
