// Package model defines database models
package model

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PhoneNumber  string    `gorm:"size:20" json:"phone_number"`
	IsActive     bool      `gorm:"not null;default:false" json:"-"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	Verifications []EmailVerification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Resends       []ResendRequest     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Listings      []CarListing        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites     []Favorite          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Profile is the user as exposed on /profile. Email and IsVerified are read only
type Profile struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	IsVerified  bool   `json:"is_verified"`
}

func (u *User) Profile() Profile {
	return Profile{
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsVerified:  u.IsVerified,
	}
}
