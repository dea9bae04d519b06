package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

// SpinStateView is the public shape of the shared wheel state. While IDLE,
// Result carries the popup of the last finished spin, if any.
type SpinStateView struct {
	Status     models.SpinStatus `json:"status"`
	By         string            `json:"by,omitempty"`
	Tier       int               `json:"tier,omitempty"`
	StartedAt  *int64            `json:"startedAt,omitempty"`
	DurationMs int64             `json:"durationMs,omitempty"`
	Result     *SpinPopup        `json:"result,omitempty"`
}

func newSpinStateView(state *models.SpinState) SpinStateView {
	view := SpinStateView{Status: state.Status}

	if state.Status == models.SpinStatusSpinning {
		view.By = state.UserName
		view.Tier = state.Tier
		view.DurationMs = state.DurationMs
		if state.SpinStartAt != nil {
			ms := state.SpinStartAt.UnixMilli()
			view.StartedAt = &ms
		}
		return view
	}

	if state.ResultTitle != "" {
		view.Result = &SpinPopup{
			By:        state.UserName,
			Tier:      state.Tier,
			Title:     state.ResultTitle,
			ImageURL:  state.ResultImage,
			Kind:      state.ResultKind,
			CoinDelta: state.ResultCoinDelta,
		}
	}
	return view
}

// GetSpinState returns the shared wheel state. A SPINNING state that outlived
// its duration plus grace was left by a crashed settlement and is reset to
// IDLE before being returned.
func (s *FortuneWheelService) GetSpinState(ctx context.Context) (*SpinStateView, error) {
	var view SpinStateView

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := models.GetOrCreateSpinState(tx)
		if err != nil {
			return err
		}

		if state.IsStale(s.now(), s.grace) {
			logger.Warn("Resetting stale spin by %s started at %v", state.UserName, state.SpinStartAt)

			state.Status = models.SpinStatusIdle
			state.ResultTitle, state.ResultImage, state.ResultKind, state.ResultCoinDelta = "", nil, "", 0
			err = models.SaveSpinState(tx, state)
			if errors.Is(err, models.ErrSpinStateConflict) {
				// Someone else moved it on; report what they wrote.
				if state, err = models.GetOrCreateSpinState(tx); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}

		view = newSpinStateView(state)
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	return &view, nil
}
