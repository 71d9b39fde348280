// Package printer owns the lifecycle of one printer connection for exactly one
// print job.
//
// The receipt printer drops its USB connection after every cut and the driver
// cannot reattach an existing handle, so a Session is opened fresh for each
// receipt and released on every exit path. Use Do for scoped acquisition.
//
// States:
//
//	Disconnected -> Opened -> Initialized -> Printing -> Closed
//
// Commands are written to the device immediately; the first failing command
// leaves the session in Printing and every later command still reaches the
// device, so callers stop at the first error.
package printer
