package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CallbackSignature is the hex HMAC-SHA256 of "orderId|code".
func CallbackSignature(secret, orderID, code string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + code))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback reports whether signature authenticates the callback. An
// empty secret rejects everything.
func VerifyCallback(secret, orderID, code, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	want := CallbackSignature(secret, orderID, code)
	return hmac.Equal([]byte(want), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
