package models

import "time"

// Prize is a catalog item. Cost is the price tier whose wheel it appears on.
type Prize struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string    `gorm:"size:128;not null" json:"title"`
	Cost           int       `gorm:"index;not null" json:"cost"`
	ImageURL       *string   `gorm:"size:512" json:"imageUrl,omitempty"`
	Active         bool      `gorm:"index;not null" json:"active"`
	VisibleInStore bool      `gorm:"not null" json:"visibleInStore"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
