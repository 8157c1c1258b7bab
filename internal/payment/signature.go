package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SignatureKey считает подпись уведомления Midtrans:
// hex(SHA512(order_id + status_code + gross_amount + server_key)).
func SignatureKey(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	if signature == "" {
		return false
	}
	expected := SignatureKey(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}
