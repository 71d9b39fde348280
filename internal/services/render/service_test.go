package render_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bonnetje/internal/clock"
	"bonnetje/internal/domain"
	"bonnetje/internal/escpos"
	"bonnetje/internal/printer"
	"bonnetje/internal/printer/printertest"
	"bonnetje/internal/services/render"
)

// recorder is a PrintSession logging each command; failOn makes that
// 1-based call fail.
type recorder struct {
	calls  []string
	failOn int
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if r.failOn == len(r.calls) {
		return errors.New("paper out")
	}
	return nil
}

func (r *recorder) Smoothing(_ context.Context, on bool) error {
	return r.record(fmt.Sprintf("smoothing(%t)", on))
}

func (r *recorder) Justify(_ context.Context, j domain.Justification) error {
	return r.record("justify(" + j.String() + ")")
}

func (r *recorder) Size(_ context.Context, w, h uint8) error {
	return r.record(fmt.Sprintf("size(%d,%d)", w, h))
}

func (r *recorder) ResetSize(context.Context) error { return r.record("reset_size") }

func (r *recorder) WriteLine(_ context.Context, text string) error {
	return r.record("writeln(" + text + ")")
}

func (r *recorder) Feed(_ context.Context, n uint8) error {
	return r.record(fmt.Sprintf("feeds(%d)", n))
}

func (r *recorder) PrintCut(context.Context) error { return r.record("print_cut") }

var at = time.Date(2024, 5, 1, 14, 3, 7, 120000000, time.FixedZone("CEST", 2*60*60))

func TestRender_SlipSequence(t *testing.T) {
	svc := render.New(clock.Fixed(at), "")
	rec := &recorder{}

	err := svc.Render(context.Background(), rec, domain.Receipt{Author: "Bob", Message: "Hi"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"smoothing(true)",
		"justify(center)",
		"size(2,2)",
		"writeln(Bob)",
		"reset_size",
		"feeds(2)",
		"writeln(Hi)",
		"feeds(2)",
		"size(1,1)",
		"writeln(2024-05-01 14:03:07.120 +02:00)",
		"print_cut",
	}, rec.calls)
}

func TestRender_StopsAtFirstFailure(t *testing.T) {
	svc := render.New(clock.Fixed(at), "")
	rec := &recorder{failOn: 4}

	err := svc.Render(context.Background(), rec, domain.Receipt{Author: "Bob", Message: "Hi"})
	require.ErrorIs(t, err, domain.ErrRender)
	assert.Contains(t, err.Error(), "step 4 (author)")
	assert.Len(t, rec.calls, 4)
}

func TestFormatTimestamp_FractionInGroupsOfThree(t *testing.T) {
	zone := time.FixedZone("", -5*60*60)
	cases := []struct {
		ns   int
		want string
	}{
		{0, "2024-05-01 14:03:07 -05:00"},
		{120_000_000, "2024-05-01 14:03:07.120 -05:00"},
		{120_400_000, "2024-05-01 14:03:07.120400 -05:00"},
		{120_000_500, "2024-05-01 14:03:07.120000500 -05:00"},
		{5_000_000, "2024-05-01 14:03:07.005 -05:00"},
	}
	for _, tc := range cases {
		got := render.FormatTimestamp(time.Date(2024, 5, 1, 14, 3, 7, tc.ns, zone))
		assert.Equal(t, tc.want, got)
	}
}

func TestRender_CustomLayout(t *testing.T) {
	svc := render.New(clock.Fixed(at), time.Kitchen)
	assert.Equal(t, "2:03PM", svc.Timestamp())
}

func TestRender_EscPosBytes(t *testing.T) {
	ctx := context.Background()
	opener := &printertest.Opener{}
	svc := render.New(clock.Fixed(at), "2006-01-02 15:04")

	err := printer.Do(ctx, opener, escpos.CodePage{}, func(s domain.PrintSession) error {
		return svc.Render(ctx, s, domain.Receipt{Author: "Bob", Message: "Hi"})
	})
	require.NoError(t, err)

	var want []byte
	want = append(want, 0x1b, '@')
	want = append(want, 0x1d, 'b', 1)
	want = append(want, 0x1b, 'a', 1)
	want = append(want, 0x1d, '!', 0x11)
	want = append(want, "Bob\n"...)
	want = append(want, 0x1d, '!', 0)
	want = append(want, 0x1b, 'd', 2)
	want = append(want, "Hi\n"...)
	want = append(want, 0x1b, 'd', 2)
	want = append(want, 0x1d, '!', 0)
	want = append(want, "2024-05-01 14:03\n"...)
	want = append(want, 0x1d, 'V', 'A', 0)

	port := opener.Ports()[0]
	assert.Equal(t, want, port.Bytes())
	assert.Equal(t, 1, port.Closed())
}
