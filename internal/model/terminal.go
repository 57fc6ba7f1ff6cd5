package model

import "time"

// Terminal is the reference record for a port terminal, including the
// highlight color the dashboard uses for its rows.
type Terminal struct {
	ID        int64     `gorm:"primaryKey"`
	Code      string    `gorm:"uniqueIndex;size:32;not null"`
	Name      string    `gorm:"size:128;not null"`
	Color     string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// DefaultTerminals seeds the two facilities with their fixed dashboard
// colors (dark blue for Multirio, orange for Rio Brasil Terminal).
func DefaultTerminals() []Terminal {
	return []Terminal{
		{Code: "MULTIRIO", Name: "Multirio", Color: "#00397F"},
		{Code: "RIO_BRASIL", Name: "Rio Brasil Terminal", Color: "#F37529"},
	}
}
