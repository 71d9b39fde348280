package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bonnetje/internal/domain"
)

// print <message...>: render one receipt on the local printer.
func printCmd(o *options) *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "print <message...>",
		Short: "Print a receipt locally without the broker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := o.wire(cmd, true)
			if err != nil {
				return err
			}
			r := domain.Receipt{Author: author, Message: strings.Join(args, " ")}
			if err := w.Jobs.Print(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "printed")
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", domain.UnknownAuthor, "author printed in large type")
	return cmd
}
