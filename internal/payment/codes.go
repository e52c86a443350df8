package payment

import "strings"

// Verification is the interpretation of a gateway result code.
type Verification struct {
	Code    string
	Success bool
	Label   string
}

var successCodes = map[string]string{
	"0":   "success",
	"800": "postponed_pending_approval",
	"801": "card_check_only",
	"802": "approved_without_charge",
}

// Verify maps a result code to success or failure. Unknown codes fail.
func Verify(code string) Verification {
	code = strings.TrimSpace(code)
	if label, ok := successCodes[code]; ok {
		return Verification{Code: code, Success: true, Label: label}
	}
	return Verification{Code: code, Success: false, Label: "declined"}
}
