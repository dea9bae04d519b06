package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

var (
	ErrInvalidTier         = errors.New("invalid tier")
	ErrBusy                = errors.New("another spin is in progress")
	ErrInsufficientBalance = models.ErrInsufficientBalance
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrUnauthorized        = errors.New("unauthorized")

	ErrGiftCodeInvalid = errors.New("gift code is invalid or expired")
	ErrGiftCodeUsed    = errors.New("gift code already redeemed")
	ErrGiftCodeExists  = errors.New("gift code already exists")
	ErrPrizeNotFound   = errors.New("prize not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Machine readable codes returned next to the human message.
const (
	CodeInvalidTier        = "INVALID_TIER"
	CodeBusy               = "BUSY"
	CodeNotEnoughCoins     = "NOT_ENOUGH_COINS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeGiftCodeInvalid    = "GIFT_CODE_INVALID"
	CodeGiftCodeUsed       = "GIFT_CODE_USED"
	CodeGiftCodeExists     = "GIFT_CODE_EXISTS"
	CodeNotFound           = "NOT_FOUND"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInternal           = "INTERNAL"
)

var errorResponses = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{ErrInvalidTier, http.StatusBadRequest, CodeInvalidTier, "Unknown spin price"},
	{ErrBusy, http.StatusConflict, CodeBusy, "Someone else is spinning, try again in a moment"},
	{ErrInsufficientBalance, http.StatusPaymentRequired, CodeNotEnoughCoins, "Not enough coins"},
	{ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, "User not authorized"},
	{ErrGiftCodeInvalid, http.StatusNotFound, CodeGiftCodeInvalid, "Gift code is invalid or expired"},
	{ErrGiftCodeUsed, http.StatusConflict, CodeGiftCodeUsed, "Gift code already redeemed"},
	{ErrGiftCodeExists, http.StatusConflict, CodeGiftCodeExists, "Gift code already exists"},
	{ErrPrizeNotFound, http.StatusNotFound, CodeNotFound, "Prize not found"},
	{ErrUserNotFound, http.StatusNotFound, CodeNotFound, "User not found"},
	{ErrStorageUnavailable, http.StatusServiceUnavailable, CodeStorageUnavailable, "Service temporarily unavailable"},
}

// storageError marks an infrastructure failure. Domain errors pass through.
func storageError(err error) error {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			return err
		}
	}
	return errors.Join(ErrStorageUnavailable, err)
}

// errorResponse maps err to its status, code and message.
func errorResponse(err error) (int, string, string) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			return r.status, r.code, r.message
		}
	}
	return http.StatusInternalServerError, CodeInternal, "Internal error"
}

func respondError(c *gin.Context, err error) {
	status, code, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%v", err)
	}
	c.JSON(status, gin.H{"code": code, "error": message})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": CodeBadRequest, "error": err.Error()})
}
