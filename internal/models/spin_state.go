package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

const GlobalSpinStateID = "global"

type SpinStatus string

const (
	SpinStatusIdle     SpinStatus = "IDLE"
	SpinStatusSpinning SpinStatus = "SPINNING"
)

// ErrSpinStateConflict is returned when the row changed since it was read.
var ErrSpinStateConflict = errors.New("spin state changed concurrently")

// SpinState is the single shared record of the wheel. While IDLE the spin
// fields describe the last finished spin.
type SpinState struct {
	ID              string     `gorm:"primaryKey;size:16"`
	Status          SpinStatus `gorm:"size:16;not null"`
	SpinStartAt     *time.Time
	DurationMs      int64
	Tier            int
	UserName        string  `gorm:"size:64"`
	ResultTitle     string  `gorm:"size:128"`
	ResultImage     *string `gorm:"size:512"`
	ResultKind      string  `gorm:"size:16"`
	ResultCoinDelta int64
	Version         int64 `gorm:"not null;default:0"`
	UpdatedAt       time.Time
}

// IsStale reports whether a SPINNING state outlived its duration plus grace.
func (s *SpinState) IsStale(now time.Time, grace time.Duration) bool {
	if s.Status != SpinStatusSpinning {
		return false
	}
	if s.SpinStartAt == nil {
		return true
	}
	deadline := s.SpinStartAt.Add(time.Duration(s.DurationMs)*time.Millisecond + grace)
	return now.After(deadline)
}

// GetOrCreateSpinState loads the singleton, inserting an IDLE row on first use.
func GetOrCreateSpinState(tx *gorm.DB) (*SpinState, error) {
	initial := SpinState{ID: GlobalSpinStateID, Status: SpinStatusIdle}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&initial).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	var state SpinState
	if err = tx.First(&state, "id = ?", GlobalSpinStateID).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}
	return &state, nil
}

// SaveSpinState writes state only if nobody bumped the version since it was
// read, then advances the version.
func SaveSpinState(tx *gorm.DB, state *SpinState) error {
	res := tx.Model(&SpinState{}).
		Where("id = ? AND version = ?", state.ID, state.Version).
		Updates(map[string]interface{}{
			"status":            state.Status,
			"spin_start_at":     state.SpinStartAt,
			"duration_ms":       state.DurationMs,
			"tier":              state.Tier,
			"user_name":         state.UserName,
			"result_title":      state.ResultTitle,
			"result_image":      state.ResultImage,
			"result_kind":       state.ResultKind,
			"result_coin_delta": state.ResultCoinDelta,
			"version":           state.Version + 1,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return logger.WrapError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return ErrSpinStateConflict
	}

	state.Version++
	return nil
}
