package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

// FreeSpin counts prepaid spins a user holds for one tier. They come from
// "spin again" outcomes and are used before any coins are charged.
type FreeSpin struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID int64 `gorm:"uniqueIndex:idx_free_spin_user_tier;not null" json:"-"`
	Tier   int   `gorm:"uniqueIndex:idx_free_spin_user_tier;not null" json:"tier"`
	Spins  int   `gorm:"not null;default:0" json:"spins"`
}

func GrantFreeSpin(tx *gorm.DB, userID int64, tier int) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "tier"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"spins": gorm.Expr("free_spins.spins + 1")}),
	}).Create(&FreeSpin{UserID: userID, Tier: tier, Spins: 1}).Error
	if err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}

// UseFreeSpinIfAvailable atomically takes one free spin for the tier and
// reports whether there was one to take.
func UseFreeSpinIfAvailable(tx *gorm.DB, userID int64, tier int) (bool, error) {
	res := tx.Model(&FreeSpin{}).
		Where("user_id = ? AND tier = ? AND spins > 0", userID, tier).
		UpdateColumn("spins", gorm.Expr("spins - 1"))
	if res.Error != nil {
		return false, logger.WrapError(res.Error, "")
	}
	return res.RowsAffected > 0, nil
}

func GetUserFreeSpins(tx *gorm.DB, userID int64) ([]FreeSpin, error) {
	var spins []FreeSpin
	err := tx.Where("user_id = ? AND spins > 0", userID).Order("tier").Find(&spins).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}
	return spins, nil
}
