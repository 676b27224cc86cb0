package mpesa

import (
	"regexp"
	"strings"

	"chai-duka/internal/model"
)

// Accepted Kenyan mobile formats: 07XXXXXXXX, 01XXXXXXXX, 2547XXXXXXXX,
// 2541XXXXXXXX, with an optional leading +.
var phonePattern = regexp.MustCompile(`^(?:\+?254|0)((?:7|1)\d{8})$`)

// NormalizePhone validates a Kenyan mobile number and returns it in the
// 254XXXXXXXXX form the gateway expects. Validation happens before any
// network call is made.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))

	match := phonePattern.FindStringSubmatch(cleaned)
	if match == nil {
		return "", model.ErrInvalidPhone
	}

	return "254" + match[1], nil
}
