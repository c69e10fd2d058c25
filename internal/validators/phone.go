package validators

import "strings"

// IsPhoneValid accepts 8 to 15 digits, with an optional leading "+" and
// spaces, dots or dashes as separators.
func IsPhoneValid(phone string) bool {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")

	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}
