package escpos

import (
	"fmt"

	"bonnetje/internal/domain"
)

const (
	esc = 0x1b
	gs  = 0x1d
	lf  = 0x0a
)

// MaxScale is the largest character magnification for GS !.
const MaxScale = 8

// Init resets the printer to its power-on state (ESC @).
func Init() []byte { return []byte{esc, '@'} }

// Smoothing toggles edge smoothing for enlarged characters (GS b n).
func Smoothing(on bool) []byte {
	var n byte
	if on {
		n = 1
	}
	return []byte{gs, 'b', n}
}

// Justify sets line alignment (ESC a n).
func Justify(j domain.Justification) ([]byte, error) {
	if j > domain.JustifyRight {
		return nil, fmt.Errorf("escpos: invalid justification %d", j)
	}
	return []byte{esc, 'a', byte(j)}, nil
}

// Size sets character magnification (GS ! n). Width and height range 1..8.
func Size(width, height uint8) ([]byte, error) {
	if width < 1 || width > MaxScale || height < 1 || height > MaxScale {
		return nil, fmt.Errorf("escpos: text scale %dx%d out of range 1..%d", width, height, MaxScale)
	}
	return []byte{gs, '!', (width-1)<<4 | (height - 1)}, nil
}

// ResetSize restores normal character size.
func ResetSize() []byte { return []byte{gs, '!', 0} }

// Feed prints the buffer and feeds n lines (ESC d n).
func Feed(n uint8) []byte { return []byte{esc, 'd', n} }

// Cut feeds to the cutter and performs a full cut (GS V A 0).
func Cut() []byte { return []byte{gs, 'V', 'A', 0} }

// SelectCodeTable selects character code table n (ESC t n).
func SelectCodeTable(n byte) []byte { return []byte{esc, 't', n} }
