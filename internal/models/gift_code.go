package models

import "time"

type GiftCode struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code           string     `gorm:"uniqueIndex;size:32;not null" json:"code"`
	Coins          int64      `gorm:"not null" json:"coins"`
	MaxRedemptions int        `gorm:"not null;default:1" json:"maxRedemptions"`
	Redeemed       int        `gorm:"not null;default:0" json:"redeemed"`
	Active         bool       `gorm:"not null" json:"active"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// GiftCodeRedemption makes a code redeemable at most once per user.
type GiftCodeRedemption struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	GiftCodeID int64 `gorm:"uniqueIndex:idx_gift_redemption;not null"`
	UserID     int64 `gorm:"uniqueIndex:idx_gift_redemption;not null"`
	CreatedAt  time.Time
}
