package model

import "time"

// EmailVerification is a one time code sent to a freshly registered user.
// The record is deleted once the code is consumed
type EmailVerification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index;not null"`
	Code      string    `gorm:"size:36;uniqueIndex;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index;not null"`
}

// IsExpired reports whether the code can no longer be used at now
func (e *EmailVerification) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
