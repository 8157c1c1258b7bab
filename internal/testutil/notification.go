package testutil

import (
	"encoding/json"
	"testing"

	"hajj_backend/internal/payment"

	"github.com/stretchr/testify/require"
)

// Notification - тело уведомления Midtrans для тестов
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type,omitempty"`
	SignatureKey      string `json:"signature_key"`
}

// SignedPayload подписывает уведомление тестовым server key и сериализует его
func SignedPayload(t *testing.T, n Notification) []byte {
	t.Helper()
	if n.StatusCode == "" {
		n.StatusCode = "200"
	}
	if n.GrossAmount == "" {
		n.GrossAmount = "1000.00"
	}
	n.SignatureKey = payment.SignatureKey(n.OrderID, n.StatusCode, n.GrossAmount, TestServerKey)
	raw, err := json.Marshal(n)
	require.NoError(t, err)
	return raw
}
