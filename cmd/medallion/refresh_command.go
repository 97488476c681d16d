package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"medallion/internal/engine"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var static bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Reload the owned-game list from the configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}

			if static {
				if err := eng.LoadStatic(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d games from the built-in catalog\n", eng.Len())
				return nil
			}

			if err := eng.Reload(cmd.Context()); err != nil {
				if errors.Is(err, engine.ErrExhausted) {
					return fmt.Errorf("%w (try --static to load the built-in catalog)", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d games\n", eng.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "Load the built-in app catalog instead of contacting any source")
	return cmd
}
