package validators

import (
	"errors"
	"unicode"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordInvalid  = errors.New("password contains invalid characters")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
	ErrPasswordNumeric  = errors.New("password can't be entirely numeric")
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > 255 {
		return ErrPasswordTooLong
	}

	numeric := true
	for _, r := range p {
		if unicode.IsControl(r) {
			return ErrPasswordInvalid
		}

		if !unicode.IsDigit(r) {
			numeric = false
		}
	}

	if numeric {
		return ErrPasswordNumeric
	}

	return nil
}
