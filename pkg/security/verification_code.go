package security

import (
	"automarket/internal/model"
	"errors"
	"time"

	"github.com/google/uuid"
)

type VerificationCodeOpts struct {
	UserID uint
	Now    time.Time
	TTL    time.Duration
}

// NewVerificationCode builds an unsaved email verification record holding a
// random UUIDv4 code valid for o.TTL
func NewVerificationCode(o *VerificationCodeOpts) (*model.EmailVerification, error) {
	if o == nil {
		return nil, errors.New("no verification options provided")
	}

	if o.UserID == 0 {
		return nil, errors.New("no user ID provided")
	}

	if o.TTL <= 0 {
		return nil, errors.New("no expiry provided")
	}

	code, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	return &model.EmailVerification{
		UserID:    o.UserID,
		Code:      code.String(),
		CreatedAt: o.Now,
		ExpiresAt: o.Now.Add(o.TTL),
	}, nil
}

// IsVerificationCode reports whether s looks like a code made by NewVerificationCode
func IsVerificationCode(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
