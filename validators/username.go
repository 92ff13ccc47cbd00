package validators

import (
	"errors"
	"regexp"
)

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username must be 150 characters or fewer")
	ErrUsernameInvalid = errors.New("username may contain only letters, numbers, and @/./+/-/_ characters")

	ErrPhoneTooLong = errors.New("phone number must be 20 characters or fewer")
	ErrPhoneInvalid = errors.New("phone number may contain only digits, spaces, and +()- characters")
)

var (
	usernameRe = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
	phoneRe    = regexp.MustCompile(`^\+?[0-9 ()\-]*$`)
)

func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len([]rune(u)) > 150 {
		return ErrUsernameTooLong
	}

	if !usernameRe.MatchString(u) {
		return ErrUsernameInvalid
	}

	return nil
}

// PhoneValidator accepts an empty value since the phone number is optional
func PhoneValidator(p string) error {
	if len(p) > 20 {
		return ErrPhoneTooLong
	}

	if !phoneRe.MatchString(p) {
		return ErrPhoneInvalid
	}

	return nil
}
