// Package payload turns raw bus payloads into receipts.
//
// A payload is expected to be a JSON object with string fields "author" and
// "message". Anything else (malformed JSON, a missing or null field, a field of
// the wrong type) falls back to a receipt by UnknownAuthor whose message is
// the payload text itself. Partial decodes never leak into the fallback: one
// bad field discards the whole object.
package payload
