package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bonnetje/internal/domain"
	"bonnetje/internal/payload"
)

// publish <message...>: send a receipt to the configured topic.
func publishCmd(o *options) *cobra.Command {
	var (
		author string
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "publish <message...>",
		Short: "Publish a receipt for the daemon to print",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := o.wire(cmd, false)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")

			body := []byte(text)
			if !raw {
				body, err = payload.Encode(domain.Receipt{Author: author, Message: text})
				if err != nil {
					return err
				}
			}

			pub, err := w.Publisher(cmd.Context())
			if err != nil {
				return err
			}
			defer pub.Close()

			topic := w.Config.MQTT.Topic
			if err := pub.Publish(cmd.Context(), topic, body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published to %s\n", topic)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", domain.UnknownAuthor, "receipt author")
	cmd.Flags().BoolVar(&raw, "raw", false, "send the message text as-is instead of a JSON receipt")
	return cmd
}
