package job

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"bonnetje/internal/crypto"
	"bonnetje/internal/domain"
	"bonnetje/internal/escpos"
	"bonnetje/internal/payload"
	"bonnetje/internal/printer"
)

// maxLoggedPayload bounds the payload bytes copied into log lines.
const maxLoggedPayload = 64

// Service prints one receipt per message.
type Service struct {
	opener   domain.PortOpener
	codePage escpos.CodePage
	renderer domain.ReceiptRenderer
	logger   *slog.Logger
}

// New constructs a job Service.
func New(
	opener domain.PortOpener,
	codePage escpos.CodePage,
	renderer domain.ReceiptRenderer,
	logger *slog.Logger,
) *Service {
	return &Service{
		opener:   opener,
		codePage: codePage,
		renderer: renderer,
		logger:   logger,
	}
}

// Handle prints msg. The returned error is always recoverable.
func (s *Service) Handle(ctx context.Context, msg domain.RawMessage) error {
	log := s.logger.With(
		"job", crypto.Fingerprint(msg.Payload),
		"topic", msg.Topic,
	)
	log.Info("message received", "payload", Truncate(msg.Payload))

	receipt, err := payload.Interpret(msg.Payload)
	if err != nil {
		log.Warn("skipping message",
			"kind", Kind(err),
			"payload", Truncate(msg.Payload),
			"err", err,
		)
		return err
	}

	if err := s.print(ctx, log, receipt); err != nil {
		log.Error("print job failed",
			"kind", Kind(err),
			"payload", Truncate(msg.Payload),
			"err", err,
		)
		return err
	}
	return nil
}

// Print renders r without a bus message, for operator test prints.
func (s *Service) Print(ctx context.Context, r domain.Receipt) error {
	log := s.logger.With("job", "local")
	if err := s.print(ctx, log, r); err != nil {
		log.Error("print job failed", "kind", Kind(err), "err", err)
		return err
	}
	return nil
}

func (s *Service) print(ctx context.Context, log *slog.Logger, r domain.Receipt) error {
	// Cutting is irreversible; once a job starts it runs to the end even if
	// the daemon is shutting down.
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	err := printer.Do(ctx, s.opener, s.codePage, func(ps domain.PrintSession) error {
		return s.renderer.Render(ctx, ps, r)
	})
	if err != nil {
		return err
	}
	log.Info("receipt printed",
		"author", r.Author,
		"duration", time.Since(start),
	)
	return nil
}

var _ domain.MessageHandler = (*Service)(nil)

// Kind names the failure class of a pipeline error for logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidEncoding):
		return "encoding"
	case errors.Is(err, domain.ErrDeviceUnavailable):
		return "device_unavailable"
	case errors.Is(err, domain.ErrDeviceInit):
		return "device_init"
	case errors.Is(err, domain.ErrRender):
		return "render"
	case errors.Is(err, domain.ErrConnectivity):
		return "connectivity"
	default:
		return "unknown"
	}
}

// Truncate shortens a payload for logging, keeping whole UTF-8 sequences
// where possible.
func Truncate(b []byte) string {
	if len(b) <= maxLoggedPayload {
		return string(b)
	}
	cut := maxLoggedPayload
	for i := 0; i < utf8.UTFMax && cut > 0 && !utf8.RuneStart(b[cut]); i++ {
		cut--
	}
	return string(b[:cut]) + "…"
}
