package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// fingerprintSize is 10 bytes (20 hex chars).
const fingerprintSize = 10

// Fingerprint returns a short hex digest of a payload, used to correlate the
// log lines of one print job.
func Fingerprint(payload []byte) string {
	h, err := blake2b.New(fingerprintSize, nil)
	if err != nil {
		// Only reachable with an invalid size or an oversized key.
		panic(err)
	}
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
