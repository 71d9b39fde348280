// Package escpos encodes the ESC/POS commands used to print a receipt.
//
// Every function returns the exact byte sequence for one command; nothing is
// buffered here. Text lines are passed through unchanged as UTF-8 unless a
// CodePage is selected, in which case they are transcoded and unrepresentable
// runes become '?'.
package escpos
