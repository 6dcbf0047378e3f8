package session

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/inkwell/pkg/core"
)

// MinPasswordLength is the shortest password Signup accepts, in characters.
const MinPasswordLength = 6

// ValidateEmail checks that identifier looks like an email address:
// a non-empty local part and domain around an '@', and no whitespace.
// The server remains the authority on whether the address is valid.
func ValidateEmail(identifier string) error {
	at := strings.LastIndexByte(identifier, '@')
	if at <= 0 || at == len(identifier)-1 {
		return fmt.Errorf("%w: please enter a valid email", core.ErrInvalidInput)
	}
	if strings.IndexFunc(identifier, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: email must not contain spaces", core.ErrInvalidInput)
	}
	return nil
}

// ValidatePassword applies the signup rules: both entries match and are at
// least MinPasswordLength characters long.
func ValidatePassword(secret, confirmation string) error {
	if secret != confirmation {
		return core.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(secret) < MinPasswordLength {
		return core.ErrPasswordTooShort
	}
	return nil
}
