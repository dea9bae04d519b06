package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrInvalidTier, http.StatusBadRequest, CodeInvalidTier},
		{ErrBusy, http.StatusConflict, CodeBusy},
		{ErrInsufficientBalance, http.StatusPaymentRequired, CodeNotEnoughCoins},
		{ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{fmt.Errorf("spin: %w", ErrBusy), http.StatusConflict, CodeBusy},
		{storageError(errors.New("connection refused")), http.StatusServiceUnavailable, CodeStorageUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			status, code, message := errorResponse(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestStorageError(t *testing.T) {
	assert.Equal(t, ErrBusy, storageError(ErrBusy), "domain errors pass through")

	cause := logger.WrapError(errors.New("dial tcp: refused"), "")
	err := storageError(cause)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
}
