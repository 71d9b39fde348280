package domain

import "errors"

// Error kinds. Wrap one of these so callers can classify with errors.Is.
var (
	// ErrConnectivity is fatal: the broker is unreachable, refused the
	// credentials, or dropped the connection.
	ErrConnectivity = errors.New("bus connectivity")

	// ErrInvalidEncoding marks a non-JSON payload that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("payload is not valid UTF-8")

	// ErrDeviceUnavailable marks a printer that could not be opened.
	ErrDeviceUnavailable = errors.New("printer unavailable")

	// ErrDeviceInit marks a failed startup handshake on an opened printer.
	ErrDeviceInit = errors.New("printer initialization failed")

	// ErrRender marks a device command that failed mid-receipt.
	ErrRender = errors.New("printer command failed")
)

// Recoverable reports whether the job loop may skip the failed message and
// keep running.
func Recoverable(err error) bool {
	return err != nil && !errors.Is(err, ErrConnectivity)
}
