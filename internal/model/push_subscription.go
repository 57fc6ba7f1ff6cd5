package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription is bound to the terminals whose next-window alerts it
// wants to receive.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Terminals []*Terminal `gorm:"many2many:subscription_terminal_mapping;"`
}
