package domain

import "context"

// Port is a raw byte link to the printer hardware, held for one job.
type Port interface {
	Write(ctx context.Context, b []byte) error
	Close() error
}

// PortOpener acquires exclusive access to the printer.
type PortOpener interface {
	OpenPort(ctx context.Context) (Port, error)
}

// PrintSession is an initialized printer accepting receipt commands.
// Every command is sent to the device immediately.
type PrintSession interface {
	Smoothing(ctx context.Context, on bool) error
	Justify(ctx context.Context, j Justification) error
	Size(ctx context.Context, width, height uint8) error
	ResetSize(ctx context.Context) error
	WriteLine(ctx context.Context, text string) error
	Feed(ctx context.Context, lines uint8) error
	PrintCut(ctx context.Context) error
}

// ReceiptRenderer issues the receipt slip on a ready session.
type ReceiptRenderer interface {
	Render(ctx context.Context, s PrintSession, r Receipt) error
}

// MessageHandler runs the print pipeline for one bus message.
type MessageHandler interface {
	Handle(ctx context.Context, msg RawMessage) error
}

// Publisher sends a payload to the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
