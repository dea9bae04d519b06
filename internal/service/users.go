package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/middleware"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

const userLedgerLimit = 50

type UsersService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUsersService(db *gorm.DB) *UsersService {
	return &UsersService{db: db, now: time.Now}
}

type UserProfile struct {
	*models.User
	FreeSpins []models.FreeSpin `json:"freeSpins"`
}

func (u *UsersService) GetUser(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		respondError(c, ErrUnauthorized)
		return
	}

	var profile UserProfile
	err = u.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		profile.User, err = models.GetUser(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		} else if err != nil {
			return logger.WrapError(err, "")
		}

		profile.FreeSpins, err = models.GetUserFreeSpins(tx, userID)
		return err
	})
	if err != nil {
		respondError(c, storageError(err))
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (u *UsersService) GetUserLedger(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		respondError(c, ErrUnauthorized)
		return
	}

	entries, err := models.GetUserLedger(u.db.WithContext(c.Request.Context()), userID, userLedgerLimit)
	if err != nil {
		respondError(c, storageError(err))
		return
	}

	c.JSON(http.StatusOK, entries)
}

type GiftRedemption struct {
	Code    string `json:"code"`
	Coins   int64  `json:"coins"`
	Balance int64  `json:"balance"`
}

// RedeemGiftCode credits the code's coins once per user while the code has
// redemptions left.
func (u *UsersService) RedeemGiftCode(ctx context.Context, userID int64, code string) (*GiftRedemption, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrGiftCodeInvalid
	}

	var redemption GiftRedemption
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gift models.GiftCode
		err := tx.Where("code = ?", code).First(&gift).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGiftCodeInvalid
		} else if err != nil {
			return logger.WrapError(err, "")
		}

		if !gift.Active || (gift.ExpiresAt != nil && u.now().After(*gift.ExpiresAt)) {
			return ErrGiftCodeInvalid
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.GiftCodeRedemption{GiftCodeID: gift.ID, UserID: userID})
		if res.Error != nil {
			return logger.WrapError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return ErrGiftCodeUsed
		}

		res = tx.Model(&models.GiftCode{}).
			Where("id = ? AND redeemed < max_redemptions", gift.ID).
			UpdateColumn("redeemed", gorm.Expr("redeemed + 1"))
		if res.Error != nil {
			return logger.WrapError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return ErrGiftCodeUsed
		}

		err = models.ChangeUserBalance(tx, userID, gift.Coins, "gift:"+gift.Code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		} else if err != nil {
			return err
		}

		balance, err := models.GetUserBalance(tx, userID)
		if err != nil {
			return err
		}

		redemption = GiftRedemption{Code: gift.Code, Coins: gift.Coins, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	logger.Info("User %d redeemed gift code %s for %d coins", userID, redemption.Code, redemption.Coins)
	return &redemption, nil
}

type RedeemGiftInput struct {
	Code string `json:"code" binding:"required,max=32"`
}

func (u *UsersService) RedeemGift(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		respondError(c, ErrUnauthorized)
		return
	}

	var input RedeemGiftInput
	if err = c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	redemption, err := u.RedeemGiftCode(c.Request.Context(), userID, input.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, redemption)
}
