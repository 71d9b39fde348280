package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bonnetje/internal/crypto"
)

func TestFingerprint(t *testing.T) {
	a := crypto.Fingerprint([]byte(`{"author":"Ann","message":"Thanks!"}`))
	b := crypto.Fingerprint([]byte(`{"author":"Ann","message":"Thanks!"}`))
	c := crypto.Fingerprint([]byte("not json"))

	assert.Len(t, a, 20)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, crypto.Fingerprint(nil), 20)
}
