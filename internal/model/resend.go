package model

import "time"

// ResendRequest tracks verification email resends of a single user
type ResendRequest struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	UserID      uint      `gorm:"uniqueIndex;not null"`
	LastResend  time.Time
	Cooldown    time.Time // no resend before this
	WindowStart time.Time
	Count       int  // resends since WindowStart
	Blocked     bool // daily limit reached, lifted when the window rolls over
}

// Allow reports whether a resend may go out at now and records it if so.
// The window is one day long and holds at most limit resends
func (r *ResendRequest) Allow(now time.Time, cooldown time.Duration, limit int) bool {
	if now.Sub(r.WindowStart) >= 24*time.Hour {
		r.WindowStart = now
		r.Count = 0
		r.Blocked = false
	}

	if r.Blocked || now.Before(r.Cooldown) {
		return false
	}

	r.Count++
	r.LastResend = now
	r.Cooldown = now.Add(cooldown)
	r.Blocked = r.Count >= limit

	return true
}
