package app

import (
	"context"
	"errors"
	"log/slog"

	"bonnetje/internal/bus"
	"bonnetje/internal/clock"
	"bonnetje/internal/domain"
	"bonnetje/internal/escpos"
	"bonnetje/internal/services/job"
	"bonnetje/internal/services/render"
)

// Deps supplies the hardware and network edges. NewPrinter is required; the
// USB implementation lives in the binary so this package builds without cgo.
// A nil Dial or Clock selects the Paho client or the system clock.
type Deps struct {
	NewPrinter func(PrinterConfig) domain.PortOpener
	Dial       bus.Dialer
	Clock      clock.Clock
}

// Wire bundles the services and clients the commands use.
type Wire struct {
	Config Config
	Logger *slog.Logger
	Jobs   *job.Service
	Dial   bus.Dialer
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, logger *slog.Logger, deps Deps) (*Wire, error) {
	codePage, err := escpos.LookupCodePage(cfg.Printer.CodePage)
	if err != nil {
		return nil, err
	}

	if deps.NewPrinter == nil {
		return nil, errors.New("no printer driver configured")
	}
	opener := deps.NewPrinter(cfg.Printer)
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real()
	}
	dial := deps.Dial
	if dial == nil {
		dial = bus.PahoDialer
	}

	renderer := render.New(clk, cfg.Printer.TimestampLayout)

	return &Wire{
		Config: cfg,
		Logger: logger,
		Jobs:   job.New(opener, codePage, renderer, logger),
		Dial:   dial,
	}, nil
}

// Subscriber builds the daemon's receive loop.
func (w *Wire) Subscriber() *bus.Subscriber {
	return bus.NewSubscriber(w.Config.Bus(), w.Jobs, w.Dial, w.Logger)
}

// Publisher connects a publisher with the daemon's broker settings.
func (w *Wire) Publisher(ctx context.Context) (*bus.Publisher, error) {
	return bus.DialPublisher(ctx, w.Config.Bus(), w.Dial)
}
