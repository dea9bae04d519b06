package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

const ContextUserIDKey = "user_id"

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(401, gin.H{"code": "UNAUTHORIZED", "error": "User not authorized"})
}

// AuthMiddleware admits requests carrying a valid access token of a user that
// still exists.
func AuthMiddleware(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := GetTokenFromAuthorizationHeader(c)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		userID, tokenType, err := TokenCheck(token, jwtSecret)
		if err != nil {
			if !errors.Is(err, jwt.ErrTokenExpired) {
				logger.Debug("Rejected token: %v", err)
			}
			abortUnauthorized(c)
			return
		}
		if tokenType != TokenAccess {
			abortUnauthorized(c)
			return
		}

		// check if user in database
		exists, err := models.CheckIfUserExistsByID(db.WithContext(c.Request.Context()), userID)
		if err != nil {
			logger.Error("%v", err)
			c.AbortWithStatusJSON(503, gin.H{"code": "STORAGE_UNAVAILABLE", "error": "Service temporarily unavailable"})
			return
		}
		if !exists {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserIDFromGinContext(c)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := models.GetUser(db.WithContext(c.Request.Context()), userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortUnauthorized(c)
			return
		} else if err != nil {
			logger.Error("%v", err)
			c.AbortWithStatusJSON(503, gin.H{"code": "STORAGE_UNAVAILABLE", "error": "Service temporarily unavailable"})
			return
		}

		if !user.IsAdmin {
			c.AbortWithStatusJSON(403, gin.H{"code": "FORBIDDEN", "error": "Admin only"})
			return
		}
		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (int64, error) {
	userIDAny, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, logger.WrapError(errors.New("user_id not in GIN context"), "")
	}

	userID, ok := userIDAny.(int64)
	if !ok {
		return 0, logger.WrapError(errors.New("unable to cast user_id value to int64"), "")
	}

	return userID, nil
}
