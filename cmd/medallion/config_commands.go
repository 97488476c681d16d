package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"medallion/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Print the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, exists, err := config.Load(strings.TrimSpace(configPath))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration file: %s\n", resolved)
			} else {
				fmt.Fprintln(out, "No configuration file found; showing defaults.")
			}
			fmt.Fprintf(out, "Steam ID:        %d\n", cfg.Account.SteamID)
			fmt.Fprintf(out, "Web API key:     %s\n", presence(cfg.HasWebAPIKey()))
			fmt.Fprintf(out, "Session cookies: %s\n", presence(cfg.HasSessionCookies()))
			fmt.Fprintf(out, "Unlocker:        %s\n", valueOrNone(cfg.Unlocker.Binary))
			fmt.Fprintf(out, "Status cache:    %s\n", cfg.StatusCache.Path)
			fmt.Fprintf(out, "Data directory:  %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Log directory:   %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Scan workers:    %d\n", cfg.Scanner.Concurrency)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if err := config.WriteSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set steam_id, then api_key (or export STEAM_API_KEY) for the richest source.")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", "", "Write the sample to this path instead of the default location")
	return cmd
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not set"
}

func valueOrNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
