package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bonnetje/internal/clock"
	"bonnetje/internal/domain"
)

// FormatTimestamp prints date, time and UTC offset with the fraction of a
// second in groups of three digits, e.g. "2024-05-01 14:03:07.120 +02:00".
// Whole seconds have no fraction.
func FormatTimestamp(t time.Time) string {
	var frac string
	switch ns := t.Nanosecond(); {
	case ns == 0:
	case ns%1_000_000 == 0:
		frac = fmt.Sprintf(".%03d", ns/1_000_000)
	case ns%1_000 == 0:
		frac = fmt.Sprintf(".%06d", ns/1_000)
	default:
		frac = fmt.Sprintf(".%09d", ns)
	}
	return t.Format("2006-01-02 15:04:05") + frac + t.Format(" -07:00")
}

// Step is one device command of the slip.
type Step struct {
	Name string
	Do   func(ctx context.Context, s domain.PrintSession) error
}

// Service renders receipts.
type Service struct {
	clock  clock.Clock
	layout string
}

// New constructs a renderer stamping slips with c formatted by layout.
// An empty layout selects FormatTimestamp.
func New(c clock.Clock, layout string) *Service {
	return &Service{clock: c, layout: layout}
}

// Steps lists the slip for r in print order. The timestamp is read when its
// step runs.
func (s *Service) Steps(r domain.Receipt) []Step {
	return []Step{
		{"smoothing", func(ctx context.Context, p domain.PrintSession) error { return p.Smoothing(ctx, true) }},
		{"justify center", func(ctx context.Context, p domain.PrintSession) error { return p.Justify(ctx, domain.JustifyCenter) }},
		{"size 2x2", func(ctx context.Context, p domain.PrintSession) error { return p.Size(ctx, 2, 2) }},
		{"author", func(ctx context.Context, p domain.PrintSession) error { return p.WriteLine(ctx, r.Author) }},
		{"reset size", func(ctx context.Context, p domain.PrintSession) error { return p.ResetSize(ctx) }},
		{"feed 2", func(ctx context.Context, p domain.PrintSession) error { return p.Feed(ctx, 2) }},
		{"message", func(ctx context.Context, p domain.PrintSession) error { return p.WriteLine(ctx, r.Message) }},
		{"feed 2", func(ctx context.Context, p domain.PrintSession) error { return p.Feed(ctx, 2) }},
		{"size 1x1", func(ctx context.Context, p domain.PrintSession) error { return p.Size(ctx, 1, 1) }},
		{"timestamp", func(ctx context.Context, p domain.PrintSession) error { return p.WriteLine(ctx, s.Timestamp()) }},
		{"print and cut", func(ctx context.Context, p domain.PrintSession) error { return p.PrintCut(ctx) }},
	}
}

// Timestamp formats the current local time for the slip footer.
func (s *Service) Timestamp() string {
	now := s.clock.Now()
	if s.layout == "" {
		return FormatTimestamp(now)
	}
	return now.Format(s.layout)
}

// Render runs every step of r on p, stopping at the first failure.
// Failures wrap domain.ErrRender.
func (s *Service) Render(ctx context.Context, p domain.PrintSession, r domain.Receipt) error {
	for i, step := range s.Steps(r) {
		if err := step.Do(ctx, p); err != nil {
			if !errors.Is(err, domain.ErrRender) {
				err = fmt.Errorf("%w: %w", domain.ErrRender, err)
			}
			return fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
	}
	return nil
}

var _ domain.ReceiptRenderer = (*Service)(nil)
