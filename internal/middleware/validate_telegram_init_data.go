package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

const (
	ContextTelegramUserKey = "telegram_user"
	InitDataExpiration     = 24 * time.Hour
	TelegramInitDataHeader = "X-Telegram-Init-Data"
)

// ValidateTelegramInitDataMiddleware checks the Mini App init data signature
// against botToken and stores the Telegram user in the context.
func ValidateTelegramInitDataMiddleware(botToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if botToken == "" {
			c.AbortWithStatusJSON(500, gin.H{"code": "INTERNAL", "error": "Telegram login is not configured"})
			return
		}

		var initData string
		if c.IsWebsocket() {
			initData = c.Query("init_data")
		} else {
			initData = c.GetHeader(TelegramInitDataHeader)
		}

		if initData == "" {
			c.AbortWithStatusJSON(400, gin.H{"code": "BAD_REQUEST", "error": "Missing Telegram init data"})
			return
		}

		if err := initdata.Validate(initData, botToken, InitDataExpiration); err != nil {
			c.AbortWithStatusJSON(401, gin.H{"code": "UNAUTHORIZED", "error": err.Error()})
			return
		}

		parsedData, err := initdata.Parse(initData)
		if err != nil {
			c.AbortWithStatusJSON(400, gin.H{"code": "BAD_REQUEST", "error": "Failed to parse Telegram init data"})
			return
		}

		if parsedData.User.ID == 0 {
			c.AbortWithStatusJSON(400, gin.H{"code": "BAD_REQUEST", "error": "User ID is zero"})
			return
		}

		c.Set(ContextTelegramUserKey, parsedData.User)
		c.Next()
	}
}

func GetTelegramUserFromGinContext(c *gin.Context) (initdata.User, error) {
	userAny, ok := c.Get(ContextTelegramUserKey)
	if !ok {
		return initdata.User{}, logger.WrapError(errors.New("telegram user not in GIN context"), "")
	}

	user, ok := userAny.(initdata.User)
	if !ok {
		return initdata.User{}, logger.WrapError(errors.New("unable to cast telegram user"), "")
	}
	return user, nil
}
