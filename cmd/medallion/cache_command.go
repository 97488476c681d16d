package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the shared status database",
	}

	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheSyncCommand(ctx))
	cacheCmd.AddCommand(newCachePathCommand(ctx))

	return cacheCmd
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the persisted status entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}

			entries := eng.Cache().Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Status database is empty.")
				return nil
			}

			headers := []string{"App ID", "Name", "Type", "Achievements", "Incomplete", "Blocked"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
			var rows [][]string
			for _, entry := range entries {
				progress := "?"
				if entry.HasProgress {
					progress = fmt.Sprintf("%d/%d", entry.Unlocked, entry.Total)
				}
				rows = append(rows, []string{
					strconv.FormatUint(uint64(entry.AppID), 10),
					entry.Name,
					entry.Type,
					progress,
					formatBlocked(entry.HasIncomplete),
					formatBlocked(entry.UnlockBlocked),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func newCacheSyncCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pick up status database changes written by the companion process",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			if err := eng.OnActivate(force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status database synced; %d entries\n", eng.Cache().Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Let disk rows override progress held by this session")
	return cmd
}

func newCachePathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the status database location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.StatusCache.Path)
			return nil
		},
	}
}
