package printer

import (
	"context"
	"errors"
	"fmt"

	"bonnetje/internal/domain"
	"bonnetje/internal/escpos"
)

// State is the lifecycle position of a Session.
type State int

const (
	Disconnected State = iota
	Opened
	Initialized
	Printing
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Opened:
		return "opened"
	case Initialized:
		return "initialized"
	case Printing:
		return "printing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var errNotReady = errors.New("session not initialized")

// Session is one exclusive printer connection.
type Session struct {
	port     domain.Port
	codePage escpos.CodePage
	state    State
}

// Open acquires the printer. Failures wrap domain.ErrDeviceUnavailable.
func Open(ctx context.Context, opener domain.PortOpener, cp escpos.CodePage) (*Session, error) {
	port, err := opener.OpenPort(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeviceUnavailable, err)
	}
	return &Session{port: port, codePage: cp, state: Opened}, nil
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State { return s.state }

// Initialize resets the printer and selects the code table.
// Failures wrap domain.ErrDeviceInit.
func (s *Session) Initialize(ctx context.Context) error {
	if s.state != Opened {
		return fmt.Errorf("%w: initialize in state %s", domain.ErrDeviceInit, s.state)
	}
	cmd := escpos.Init()
	cmd = append(cmd, s.codePage.Select()...)
	if err := s.port.Write(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeviceInit, err)
	}
	s.state = Initialized
	return nil
}

// Close releases the device. It is safe to call more than once.
func (s *Session) Close() error {
	if s.state == Closed {
		return nil
	}
	s.state = Closed
	return s.port.Close()
}

func (s *Session) send(ctx context.Context, name string, b []byte) error {
	if s.state != Initialized && s.state != Printing {
		return fmt.Errorf("%w: %s: %w (state %s)", domain.ErrRender, name, errNotReady, s.state)
	}
	s.state = Printing
	if err := s.port.Write(ctx, b); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrRender, name, err)
	}
	return nil
}

func (s *Session) Smoothing(ctx context.Context, on bool) error {
	return s.send(ctx, "smoothing", escpos.Smoothing(on))
}

func (s *Session) Justify(ctx context.Context, j domain.Justification) error {
	b, err := escpos.Justify(j)
	if err != nil {
		return fmt.Errorf("%w: justify: %w", domain.ErrRender, err)
	}
	return s.send(ctx, "justify", b)
}

func (s *Session) Size(ctx context.Context, width, height uint8) error {
	b, err := escpos.Size(width, height)
	if err != nil {
		return fmt.Errorf("%w: size: %w", domain.ErrRender, err)
	}
	return s.send(ctx, "size", b)
}

func (s *Session) ResetSize(ctx context.Context) error {
	return s.send(ctx, "reset size", escpos.ResetSize())
}

func (s *Session) WriteLine(ctx context.Context, text string) error {
	return s.send(ctx, "write", s.codePage.Line(text))
}

func (s *Session) Feed(ctx context.Context, lines uint8) error {
	return s.send(ctx, "feed", escpos.Feed(lines))
}

func (s *Session) PrintCut(ctx context.Context) error {
	return s.send(ctx, "print and cut", escpos.Cut())
}

var _ domain.PrintSession = (*Session)(nil)

// Do opens and initializes a session, runs fn on it and closes it whether or
// not any step failed. A close error is reported alongside fn's error.
func Do(ctx context.Context, opener domain.PortOpener, cp escpos.CodePage, fn func(domain.PrintSession) error) (err error) {
	s, err := Open(ctx, opener, cp)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close printer: %w", cerr))
		}
	}()

	if err := s.Initialize(ctx); err != nil {
		return err
	}
	return fn(s)
}
