package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

// Win records the outcome of one settled spin. PrizeID is nil for coin bonus,
// spin again and placeholder outcomes.
type Win struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"userId"`
	PrizeID   *int64    `gorm:"index" json:"prizeId,omitempty"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	ImageURL  *string   `gorm:"size:512" json:"imageUrl,omitempty"`
	Kind      string    `gorm:"size:16;not null" json:"kind"`
	Tier      int       `gorm:"not null" json:"tier"`
	CoinDelta int64     `gorm:"not null;default:0" json:"coinDelta"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func GetRecentWins(tx *gorm.DB, limit int) ([]Win, error) {
	var wins []Win
	err := tx.Preload("User").
		Order("id desc").
		Limit(limit).
		Find(&wins).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}
	return wins, nil
}
