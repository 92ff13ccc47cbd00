package model

import "time"

type Brand struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"size:255;uniqueIndex;not null" json:"name" mapstructure:"name"`
	OriginCountry   string    `gorm:"size:255" json:"origin_country" mapstructure:"origin_country"`
	EstablishedYear int       `json:"established_year" mapstructure:"established_year"`
	LogoURL         string    `json:"logo_url" mapstructure:"logo_url"`
	Description     string    `gorm:"type:text" json:"description" mapstructure:"description"`
	Website         string    `json:"website" mapstructure:"website"`
	Headquarters    string    `gorm:"size:255" json:"headquarters" mapstructure:"headquarters"`
	CreatedAt       time.Time `json:"-" mapstructure:"-"`
	UpdatedAt       time.Time `json:"-" mapstructure:"-"`
}

type Location struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	City        string    `gorm:"size:255;index;not null" json:"city" mapstructure:"city"`
	Region      string    `gorm:"size:255" json:"region" mapstructure:"region"`
	Country     string    `gorm:"size:255" json:"country" mapstructure:"country"`
	PostalCode  string    `gorm:"size:20" json:"postal_code" mapstructure:"postal_code"`
	TimeZone    string    `gorm:"size:50" json:"time_zone" mapstructure:"time_zone"`
	Description string    `gorm:"type:text" json:"description" mapstructure:"description"`
	CreatedAt   time.Time `json:"-" mapstructure:"-"`
	UpdatedAt   time.Time `json:"-" mapstructure:"-"`
}
