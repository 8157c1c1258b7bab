package payment_test

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"hajj_backend/internal/payment"

	"github.com/stretchr/testify/assert"
)

func TestSignatureKey_MatchesMidtransFormula(t *testing.T) {
	sum := sha512.Sum512([]byte("12-1700000000" + "200" + "1500000.00" + "server-key"))
	expected := hex.EncodeToString(sum[:])

	got := payment.SignatureKey("12-1700000000", "200", "1500000.00", "server-key")

	assert.Equal(t, expected, got)
	assert.Len(t, got, 128)
}

func TestVerifySignature(t *testing.T) {
	sig := payment.SignatureKey("7-1700000000", "201", "1000.00", "server-key")

	t.Run("valid", func(t *testing.T) {
		assert.True(t, payment.VerifySignature("7-1700000000", "201", "1000.00", "server-key", sig))
	})

	t.Run("uppercase hex", func(t *testing.T) {
		assert.True(t, payment.VerifySignature("7-1700000000", "201", "1000.00", "server-key", strings.ToUpper(sig)))
	})

	t.Run("wrong server key", func(t *testing.T) {
		assert.False(t, payment.VerifySignature("7-1700000000", "201", "1000.00", "other-key", sig))
	})

	t.Run("tampered amount", func(t *testing.T) {
		assert.False(t, payment.VerifySignature("7-1700000000", "201", "1.00", "server-key", sig))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, payment.VerifySignature("7-1700000000", "201", "1000.00", "server-key", ""))
	})
}
