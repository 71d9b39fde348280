package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"bonnetje/internal/domain"
)

const (
	keyAuthor  = "author"
	keyMessage = "message"
)

var errNotReceipt = errors.New("not a receipt object")

// Interpret decodes b into a Receipt, falling back to the raw text when b is
// not a complete receipt object. It fails when b is not valid UTF-8, whether
// or not it would otherwise decode.
func Interpret(b []byte) (domain.Receipt, error) {
	if !utf8.Valid(b) {
		return domain.Receipt{}, fmt.Errorf("receipt payload: %w", domain.ErrInvalidEncoding)
	}
	if r, err := decode(b); err == nil {
		return r, nil
	}
	return domain.Receipt{
		Author:  domain.UnknownAuthor,
		Message: string(b),
	}, nil
}

// decode accepts exactly one JSON object whose "author" and "message" keys
// (exact case, each at most once) hold strings. Other keys are ignored.
func decode(b []byte) (domain.Receipt, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return domain.Receipt{}, errNotReceipt
	}

	fields := make(map[string]json.RawMessage, 2)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return domain.Receipt{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return domain.Receipt{}, errNotReceipt
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return domain.Receipt{}, err
		}
		if key != keyAuthor && key != keyMessage {
			continue
		}
		if _, dup := fields[key]; dup {
			return domain.Receipt{}, fmt.Errorf("duplicate field %q", key)
		}
		fields[key] = raw
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return domain.Receipt{}, errNotReceipt
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Receipt{}, errNotReceipt
	}

	author, err := stringField(fields, keyAuthor)
	if err != nil {
		return domain.Receipt{}, err
	}
	message, err := stringField(fields, keyMessage)
	if err != nil {
		return domain.Receipt{}, err
	}
	return domain.Receipt{Author: author, Message: message}, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	// A JSON null would leave s untouched without an error.
	if len(raw) == 0 || raw[0] != '"' {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// Encode is the inverse of a successful Interpret.
func Encode(r domain.Receipt) ([]byte, error) {
	return json.Marshal(r)
}
