package commands

import (
	"github.com/spf13/cobra"

	"bonnetje/internal/app"
)

func runCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Subscribe and print every receipt (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runDaemon(cmd)
		},
	}
}

func (o *options) runDaemon(cmd *cobra.Command) error {
	w, err := o.wire(cmd, false)
	if err != nil {
		return err
	}
	if err := app.RunDaemon(cmd.Context(), w); err != nil {
		w.Logger.Error("daemon stopped", "err", err)
		return err
	}
	w.Logger.Info("stopped")
	return nil
}
