// Package render turns a receipt into the fixed ESC/POS command sequence of a
// receipt slip.
//
// The sequence is an ordered list of steps executed against one initialized
// PrintSession. The first failing step aborts the rest; releasing the session
// is the caller's job.
package render
