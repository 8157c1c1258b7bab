package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingReference(t *testing.T) {
	pattern := regexp.MustCompile(`^BK-[0-9A-F]{10}$`)
	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		ref := NewBookingReference()
		assert.Regexp(t, pattern, ref)
		assert.False(t, seen[ref], "повтор ссылки %s", ref)
		seen[ref] = true
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.False(t, TransactionStatusPending.IsTerminal())
	assert.True(t, TransactionStatusSuccess.IsTerminal())
	assert.True(t, TransactionStatusFailed.IsTerminal())
}

func TestPaymentGateway_MidtransSettings(t *testing.T) {
	gw := &PaymentGateway{Name: GatewayNameMidtrans}
	_, err := gw.MidtransSettings()
	assert.Error(t, err, "пустой config")

	gw.Config = []byte(`{"server_key":"SB-Mid-server-x","is_3ds":true}`)
	s, err := gw.MidtransSettings()
	assert.NoError(t, err)
	assert.Equal(t, "SB-Mid-server-x", s.ServerKey)
	assert.True(t, s.Is3DS)

	gw.Config = []byte(`{"server_key":`)
	_, err = gw.MidtransSettings()
	assert.Error(t, err)
}
