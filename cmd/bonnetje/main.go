package main

import (
	"os"

	"bonnetje/cmd/bonnetje/commands"
	"bonnetje/internal/app"
	"bonnetje/internal/domain"
	"bonnetje/internal/printer/usbport"
)

func main() {
	deps := app.Deps{
		NewPrinter: func(c app.PrinterConfig) domain.PortOpener {
			return usbport.New(c.VendorID, c.ProductID, c.WriteTimeout)
		},
	}
	if err := commands.Execute(deps); err != nil {
		os.Exit(1)
	}
}
