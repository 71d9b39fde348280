// Package usbport opens the receipt printer over USB with libusb (cgo).
//
// It is kept apart from package printer so the session logic and its tests
// build without libusb.
package usbport
