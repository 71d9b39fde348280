package job_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bonnetje/internal/clock"
	"bonnetje/internal/domain"
	"bonnetje/internal/escpos"
	"bonnetje/internal/printer/printertest"
	"bonnetje/internal/services/job"
	"bonnetje/internal/services/render"
)

const topic = "bonprinter/bonnetje"

var at = time.Date(2024, 5, 1, 14, 3, 7, 0, time.UTC)

func newService(t *testing.T, opener *printertest.Opener) (*job.Service, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := job.New(opener, escpos.CodePage{}, render.New(clock.Fixed(at), "2006-01-02 15:04"), logger)
	return svc, &logs
}

func slip(author, message string) []byte {
	var b []byte
	b = append(b, 0x1b, '@', 0x1d, 'b', 1, 0x1b, 'a', 1, 0x1d, '!', 0x11)
	b = append(b, author+"\n"...)
	b = append(b, 0x1d, '!', 0, 0x1b, 'd', 2)
	b = append(b, message+"\n"...)
	b = append(b, 0x1b, 'd', 2, 0x1d, '!', 0)
	b = append(b, "2024-05-01 14:03\n"...)
	return append(b, 0x1d, 'V', 'A', 0)
}

func TestHandle_StructuredPayload(t *testing.T) {
	opener := &printertest.Opener{}
	svc, logs := newService(t, opener)

	err := svc.Handle(context.Background(), domain.RawMessage{
		Topic:   topic,
		Payload: []byte(`{"author":"Ann","message":"Thanks!"}`),
	})
	require.NoError(t, err)

	ports := opener.Ports()
	require.Len(t, ports, 1)
	assert.Equal(t, slip("Ann", "Thanks!"), ports[0].Bytes())
	assert.Equal(t, 1, ports[0].Closed())
	assert.Contains(t, logs.String(), "receipt printed")
	assert.Contains(t, logs.String(), "author=Ann")
}

func TestHandle_FallbackPayload(t *testing.T) {
	opener := &printertest.Opener{}
	svc, _ := newService(t, opener)

	err := svc.Handle(context.Background(), domain.RawMessage{Topic: topic, Payload: []byte("not json")})
	require.NoError(t, err)

	assert.Equal(t, slip("Unknown", "not json"), opener.Ports()[0].Bytes())
}

func TestHandle_DeviceUnavailableIsRecoverable(t *testing.T) {
	opener := &printertest.Opener{OpenErr: errors.New("LIBUSB_ERROR_BUSY")}
	svc, logs := newService(t, opener)
	msg := domain.RawMessage{Topic: topic, Payload: []byte(`{"author":"Ann","message":"first"}`)}

	err := svc.Handle(context.Background(), msg)
	require.ErrorIs(t, err, domain.ErrDeviceUnavailable)
	assert.True(t, domain.Recoverable(err))
	assert.Contains(t, logs.String(), "print job failed")
	assert.Contains(t, logs.String(), "kind=device_unavailable")
	assert.Contains(t, logs.String(), "LIBUSB_ERROR_BUSY")

	opener.OpenErr = nil
	msg.Payload = []byte(`{"author":"Ann","message":"second"}`)
	require.NoError(t, svc.Handle(context.Background(), msg))
	assert.Equal(t, slip("Ann", "second"), opener.Ports()[0].Bytes())
}

func TestHandle_InitFailureClosesSession(t *testing.T) {
	opener := &printertest.Opener{FailAt: 1}
	svc, _ := newService(t, opener)

	err := svc.Handle(context.Background(), domain.RawMessage{Topic: topic, Payload: []byte("x")})
	require.ErrorIs(t, err, domain.ErrDeviceInit)
	assert.Equal(t, 1, opener.Ports()[0].Closed())
}

func TestHandle_MidRenderFailureClosesSession(t *testing.T) {
	opener := &printertest.Opener{FailAt: 5}
	svc, logs := newService(t, opener)

	err := svc.Handle(context.Background(), domain.RawMessage{Topic: topic, Payload: []byte("x")})
	require.ErrorIs(t, err, domain.ErrRender)

	port := opener.Ports()[0]
	assert.Len(t, port.Writes(), 5)
	assert.Equal(t, 1, port.Closed())
	assert.Contains(t, logs.String(), "kind=render")
}

func TestHandle_InvalidEncodingSkipsWithoutOpening(t *testing.T) {
	opener := &printertest.Opener{}
	svc, logs := newService(t, opener)

	err := svc.Handle(context.Background(), domain.RawMessage{Topic: topic, Payload: []byte{0xff, 0xfe}})
	require.ErrorIs(t, err, domain.ErrInvalidEncoding)
	assert.Empty(t, opener.Ports())
	assert.Contains(t, logs.String(), "skipping message")
}

func TestHandle_EachReceiptGetsItsOwnSession(t *testing.T) {
	opener := &printertest.Opener{}
	svc, _ := newService(t, opener)
	ctx := context.Background()

	require.NoError(t, svc.Handle(ctx, domain.RawMessage{Topic: topic, Payload: []byte(`{"author":"A","message":"1"}`)}))
	require.NoError(t, svc.Handle(ctx, domain.RawMessage{Topic: topic, Payload: []byte(`{"author":"B","message":"2"}`)}))

	ports := opener.Ports()
	require.Len(t, ports, 2)
	assert.NotSame(t, ports[0], ports[1])
	assert.Equal(t, slip("A", "1"), ports[0].Bytes())
	assert.Equal(t, slip("B", "2"), ports[1].Bytes())
	assert.Equal(t, 1, ports[0].Closed())
	assert.Equal(t, 1, ports[1].Closed())
}

func TestHandle_StartedJobIgnoresCancellation(t *testing.T) {
	opener := &printertest.Opener{}
	svc, _ := newService(t, opener)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, svc.Handle(ctx, domain.RawMessage{Topic: topic, Payload: []byte("late")}))
	assert.Equal(t, slip("Unknown", "late"), opener.Ports()[0].Bytes())
}

func TestPrint(t *testing.T) {
	opener := &printertest.Opener{}
	svc, _ := newService(t, opener)

	require.NoError(t, svc.Print(context.Background(), domain.Receipt{Author: "ops", Message: "test print"}))
	assert.Equal(t, slip("ops", "test print"), opener.Ports()[0].Bytes())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", job.Truncate([]byte("short")))

	long := strings.Repeat("a", 100)
	assert.Equal(t, strings.Repeat("a", 64)+"…", job.Truncate([]byte(long)))

	// A two-byte rune straddling the limit is dropped whole.
	straddle := strings.Repeat("a", 63) + "é" + "tail"
	assert.Equal(t, strings.Repeat("a", 63)+"…", job.Truncate([]byte(straddle)))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", job.Kind(nil))
	assert.Equal(t, "encoding", job.Kind(domain.ErrInvalidEncoding))
	assert.Equal(t, "device_init", job.Kind(domain.ErrDeviceInit))
	assert.Equal(t, "connectivity", job.Kind(domain.ErrConnectivity))
	assert.Equal(t, "unknown", job.Kind(errors.New("other")))
}
