package app

import (
	"context"
	"fmt"
)

// RunDaemon subscribes and prints receipts until ctx is cancelled or the
// broker connection fails.
func RunDaemon(ctx context.Context, w *Wire) error {
	w.Logger.Info("starting",
		"broker", w.Config.Bus().Broker(),
		"topic", w.Config.MQTT.Topic,
		"printer", fmt.Sprintf("%04x:%04x", w.Config.Printer.VendorID, w.Config.Printer.ProductID),
	)
	return w.Subscriber().Run(ctx)
}
