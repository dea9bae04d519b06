package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nickname   string    `gorm:"uniqueIndex;size:64" json:"nickname"`
	TelegramID *int64    `gorm:"uniqueIndex" json:"-"`
	Balance    int64     `gorm:"not null;default:0" json:"balance"`
	IsAdmin    bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
}

func GetUser(tx *gorm.DB, userID int64) (*User, error) {
	var user User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CheckIfUserExistsByID(tx *gorm.DB, userID int64) (bool, error) {
	var exists bool
	err := tx.Model(&User{}).
		Select("count(*) > 0").
		Where("id = ?", userID).
		Scan(&exists).Error
	if err != nil {
		return true, logger.WrapError(err, "")
	}

	return exists, nil
}

// GetOrCreateTelegramUser returns the user linked to telegramID, creating it
// with the given nickname on first login.
func GetOrCreateTelegramUser(tx *gorm.DB, telegramID int64, nickname string) (*User, error) {
	var user User
	err := tx.Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, logger.WrapError(err, "")
	}

	var taken bool
	err = tx.Model(&User{}).Select("count(*) > 0").Where("nickname = ?", nickname).Scan(&taken).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}
	if taken {
		nickname = fmt.Sprintf("%s_%d", nickname, telegramID)
	}

	user = User{TelegramID: &telegramID, Nickname: nickname}
	if err = tx.Create(&user).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}

	return &user, nil
}
