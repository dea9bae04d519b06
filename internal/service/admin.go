package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models/fortune_wheel"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

const adminGrantReason = "admin:grant"

// AdminService backs the catalog and economy endpoints behind AdminMiddleware.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type PrizeInput struct {
	Title          string  `json:"title" binding:"required,max=128"`
	Cost           int     `json:"cost" binding:"required"`
	ImageURL       *string `json:"imageUrl" binding:"omitempty,url,max=512"`
	Active         *bool   `json:"active"`
	VisibleInStore *bool   `json:"visibleInStore"`
}

func (in PrizeInput) apply(p *models.Prize) error {
	if _, ok := fortune_wheel.ParseTier(in.Cost); !ok {
		return ErrInvalidTier
	}
	p.Title = in.Title
	p.Cost = in.Cost
	p.ImageURL = in.ImageURL
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.VisibleInStore != nil {
		p.VisibleInStore = *in.VisibleInStore
	}
	return nil
}

func (a *AdminService) ListPrizes(c *gin.Context) {
	var prizes []models.Prize
	err := a.db.WithContext(c.Request.Context()).Order("cost, id").Find(&prizes).Error
	if err != nil {
		respondError(c, storageError(logger.WrapError(err, "")))
		return
	}
	c.JSON(http.StatusOK, prizes)
}

func (a *AdminService) CreatePrize(c *gin.Context) {
	var input PrizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	prize := models.Prize{Active: true, VisibleInStore: true}
	if err := input.apply(&prize); err != nil {
		respondError(c, err)
		return
	}

	if err := a.db.WithContext(c.Request.Context()).Create(&prize).Error; err != nil {
		respondError(c, storageError(logger.WrapError(err, "")))
		return
	}

	c.JSON(http.StatusCreated, prize)
}

func (a *AdminService) UpdatePrize(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, ErrPrizeNotFound)
		return
	}

	var input PrizeInput
	if err = c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	var prize models.Prize
	err = a.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&prize, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPrizeNotFound
		} else if err != nil {
			return logger.WrapError(err, "")
		}

		if err = input.apply(&prize); err != nil {
			return err
		}

		if err = tx.Save(&prize).Error; err != nil {
			return logger.WrapError(err, "")
		}
		return nil
	})
	if err != nil {
		respondError(c, storageError(err))
		return
	}

	c.JSON(http.StatusOK, prize)
}

func (a *AdminService) DeletePrize(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, ErrPrizeNotFound)
		return
	}

	res := a.db.WithContext(c.Request.Context()).Delete(&models.Prize{}, id)
	if res.Error != nil {
		respondError(c, storageError(logger.WrapError(res.Error, "")))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, ErrPrizeNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

type BalanceInput struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"max=64"`
}

// ChangeBalance grants (or with a negative delta, deducts) coins. A deduction
// never takes the balance below zero.
func (a *AdminService) ChangeBalance(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, ErrUserNotFound)
		return
	}

	var input BalanceInput
	if err = c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = adminGrantReason
	}

	var balance int64
	err = a.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		err := models.ChangeUserBalance(tx, userID, input.Delta, reason)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		} else if err != nil {
			return err
		}

		balance, err = models.GetUserBalance(tx, userID)
		return err
	})
	if err != nil {
		respondError(c, storageError(err))
		return
	}

	logger.Info("Admin changed balance of user %d by %+d (%s)", userID, input.Delta, reason)
	c.JSON(http.StatusOK, gin.H{"userId": userID, "balance": balance})
}

type GiftCodeInput struct {
	Code           string     `json:"code" binding:"required,alphanum,max=32"`
	Coins          int64      `json:"coins" binding:"required,gt=0"`
	MaxRedemptions int        `json:"maxRedemptions" binding:"gte=0"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

func (a *AdminService) CreateGiftCode(c *gin.Context) {
	var input GiftCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if input.MaxRedemptions == 0 {
		input.MaxRedemptions = 1
	}

	gift := models.GiftCode{
		Code:           input.Code,
		Coins:          input.Coins,
		MaxRedemptions: input.MaxRedemptions,
		Active:         true,
		ExpiresAt:      input.ExpiresAt,
	}

	err := a.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var exists bool
		err := tx.Model(&models.GiftCode{}).
			Select("count(*) > 0").
			Where("code = ?", gift.Code).
			Scan(&exists).Error
		if err != nil {
			return logger.WrapError(err, "")
		}
		if exists {
			return ErrGiftCodeExists
		}

		if err = tx.Create(&gift).Error; err != nil {
			return logger.WrapError(err, "")
		}
		return nil
	})
	if err != nil {
		respondError(c, storageError(err))
		return
	}

	c.JSON(http.StatusCreated, gift)
}
