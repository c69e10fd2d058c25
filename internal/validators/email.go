package validators

import (
	"net/mail"
	"strings"
)

// IsEmailSyntaxValid checks the address shape without any network lookup.
func IsEmailSyntaxValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
