package models

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// BalanceLedgerEntry is append-only. The sum of a user's deltas equals the
// balance change since the account was seeded.
type BalanceLedgerEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"userId"`
	Delta     int64     `gorm:"not null" json:"delta"`
	Reason    string    `gorm:"size:64;not null" json:"reason"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// ChangeUserBalance adds delta to the balance with a single UPDATE and
// appends the ledger entry. Negative deltas never take the balance below zero
// and fail with ErrInsufficientBalance instead.
func ChangeUserBalance(tx *gorm.DB, userID int64, delta int64, reason string) error {
	query := tx.Model(&User{}).Where("id = ?", userID)
	if delta < 0 {
		query = query.Where("balance >= ?", -delta)
	}

	res := query.UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return logger.WrapError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		exists, err := CheckIfUserExistsByID(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientBalance
	}

	entry := BalanceLedgerEntry{
		UserID:    userID,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}

func GetUserBalance(tx *gorm.DB, userID int64) (int64, error) {
	var balance int64
	err := tx.Model(&User{}).Select("balance").Where("id = ?", userID).Scan(&balance).Error
	if err != nil {
		return 0, logger.WrapError(err, "")
	}
	return balance, nil
}

func GetUserLedger(tx *gorm.DB, userID int64, limit int) ([]BalanceLedgerEntry, error) {
	var entries []BalanceLedgerEntry
	err := tx.Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}
	return entries, nil
}
