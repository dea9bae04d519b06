package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/middleware"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

type Token struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

type LoginService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
}

func NewLoginService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *LoginService {
	return &LoginService{db: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// TelegramAuth signs in the Telegram user validated by
// ValidateTelegramInitDataMiddleware, creating the account on first visit.
func (l *LoginService) TelegramAuth(c *gin.Context) {
	tgUser, err := middleware.GetTelegramUserFromGinContext(c)
	if err != nil {
		respondError(c, ErrUnauthorized)
		return
	}

	nickname := tgUser.Username
	if nickname == "" {
		nickname = fmt.Sprintf("tg%d", tgUser.ID)
	}

	var user *models.User
	err = l.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		user, err = models.GetOrCreateTelegramUser(tx, tgUser.ID, nickname)
		return err
	})
	if err != nil {
		respondError(c, storageError(err))
		return
	}

	l.issueToken(c, user)
}

func (l *LoginService) issueToken(c *gin.Context, user *models.User) {
	access, err := middleware.TokenNew(l.jwtSecret, user.ID, l.tokenTTL, middleware.TokenAccess)
	if err != nil {
		logger.Error("%v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Token{
		AccessToken: access,
		ExpiresIn:   int64(l.tokenTTL.Seconds()),
		User:        user,
	})
}
