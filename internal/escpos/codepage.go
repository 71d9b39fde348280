package escpos

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// CodePage transcodes text for the printer's character table.
// The zero value is raw UTF-8 passthrough.
type CodePage struct {
	Name  string
	Table byte
	cm    *charmap.Charmap
}

var codePages = map[string]CodePage{
	"cp437":      {Name: "cp437", Table: 0, cm: charmap.CodePage437},
	"cp850":      {Name: "cp850", Table: 2, cm: charmap.CodePage850},
	"cp858":      {Name: "cp858", Table: 19, cm: charmap.CodePage858},
	"iso8859-15": {Name: "iso8859-15", Table: 40, cm: charmap.ISO8859_15},
}

// LookupCodePage resolves a configured code page name. An empty name selects
// raw UTF-8.
func LookupCodePage(name string) (CodePage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "utf8" || name == "utf-8" {
		return CodePage{}, nil
	}
	cp, ok := codePages[name]
	if !ok {
		return CodePage{}, fmt.Errorf("escpos: unsupported code page %q", name)
	}
	return cp, nil
}

// Raw reports whether text is sent untranslated.
func (c CodePage) Raw() bool { return c.cm == nil }

// Select returns the table selection command, or nil for raw UTF-8.
func (c CodePage) Select() []byte {
	if c.Raw() {
		return nil
	}
	return SelectCodeTable(c.Table)
}

// Line encodes text followed by a line feed.
func (c CodePage) Line(text string) []byte {
	if c.Raw() {
		out := make([]byte, 0, len(text)+1)
		out = append(out, text...)
		return append(out, lf)
	}
	out := make([]byte, 0, len(text)+1)
	for _, r := range text {
		b, ok := c.cm.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return append(out, lf)
}
