package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models/fortune_wheel"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/spinlock"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/redis"
)

const (
	DefaultSpinDuration = 6 * time.Second
	DefaultSpinGrace    = 4 * time.Second

	rewardLedgerReason = "spin:reward"
)

// SpinOutcome is what the user won on one spin.
type SpinOutcome struct {
	Title     string  `json:"title"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Kind      string  `json:"kind"`
	CoinDelta int64   `json:"coinDelta"`
	PrizeID   *int64  `json:"prizeId,omitempty"`
}

type SpinResult struct {
	DurationMs   int64       `json:"durationMs"`
	Result       SpinOutcome `json:"result"`
	Balance      int64       `json:"balance"`
	FreeSpinUsed bool        `json:"freeSpinUsed"`
}

type FortuneWheelOptions struct {
	SpinDuration time.Duration
	SpinGrace    time.Duration
	Rand         fortune_wheel.Rand
	Now          func() time.Time
	// Cache keeps the recent wins feed between spins. Optional.
	Cache        *redis.RedisService
}

// FortuneWheelService settles spins. One spin runs at a time system-wide,
// enforced by the locker.
type FortuneWheelService struct {
	db       *gorm.DB
	locker   spinlock.Locker
	events   SpinEvents
	rnd      fortune_wheel.Rand
	now      func() time.Time
	duration time.Duration
	grace    time.Duration
	cache    *redis.RedisService
}

func NewFortuneWheelService(db *gorm.DB, locker spinlock.Locker, events SpinEvents, opts FortuneWheelOptions) *FortuneWheelService {
	s := &FortuneWheelService{
		db:       db,
		locker:   locker,
		events:   events,
		rnd:      opts.Rand,
		now:      opts.Now,
		duration: opts.SpinDuration,
		grace:    opts.SpinGrace,
		cache:    opts.Cache,
	}
	if s.rnd == nil {
		s.rnd = fortune_wheel.DefaultRand
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.duration <= 0 {
		s.duration = DefaultSpinDuration
	}
	if s.grace <= 0 {
		s.grace = DefaultSpinGrace
	}
	return s
}

// lockTTL outlives the longest legitimate spin.
func (s *FortuneWheelService) lockTTL() time.Duration {
	return s.duration + s.grace
}

// SettleSpin charges userID for one spin at tier, draws the outcome and
// applies every effect in a single transaction. The global lock is held for
// the whole settlement and released on every path. Once the lock is held the
// spin runs to completion even if ctx is cancelled.
func (s *FortuneWheelService) SettleSpin(ctx context.Context, userID int64, tierValue int) (*SpinResult, error) {
	tier, ok := fortune_wheel.ParseTier(tierValue)
	if !ok {
		return nil, ErrInvalidTier
	}

	holder := uuid.NewString()
	acquired, err := s.locker.Acquire(ctx, holder, s.lockTTL())
	if err != nil {
		return nil, storageError(err)
	}
	if !acquired {
		return nil, ErrBusy
	}
	defer func() {
		// The request context may already be cancelled here.
		if err := s.locker.Release(context.Background(), holder); err != nil {
			logger.Error("Failed to release spin lock %s: %v", holder, err)
		}
	}()

	var (
		result    *SpinResult
		startedAt time.Time
		popup     SpinPopup
	)

	err = s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		user, err := models.GetUser(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		} else if err != nil {
			return logger.WrapError(err, "")
		}

		freeSpinUsed, err := models.UseFreeSpinIfAvailable(tx, userID, int(tier))
		if err != nil {
			return err
		}
		if !freeSpinUsed {
			if user.Balance < tier.Cost() {
				return ErrInsufficientBalance
			}
			err = models.ChangeUserBalance(tx, userID, -tier.Cost(), fmt.Sprintf("spin:%d", tier))
			if err != nil {
				return err
			}
		}

		state, err := models.GetOrCreateSpinState(tx)
		if err != nil {
			return err
		}
		startedAt = s.now()
		state.Status = models.SpinStatusSpinning
		state.SpinStartAt = &startedAt
		state.DurationMs = s.duration.Milliseconds()
		state.Tier = int(tier)
		state.UserName = user.Nickname
		state.ResultTitle, state.ResultImage, state.ResultKind, state.ResultCoinDelta = "", nil, "", 0
		if err = models.SaveSpinState(tx, state); err != nil {
			return err
		}

		entries, err := fortune_wheel.LoadWheel(tx, tier, s.rnd)
		if err != nil {
			return err
		}
		entry, err := fortune_wheel.WeightedRandomSelection(entries, s.rnd)
		if err != nil {
			return logger.WrapError(err, "")
		}

		if entry.CoinPayout > 0 {
			if err = models.ChangeUserBalance(tx, userID, entry.CoinPayout, rewardLedgerReason); err != nil {
				return err
			}
		}
		if entry.Kind == fortune_wheel.KindSpinAgain {
			if err = models.GrantFreeSpin(tx, userID, int(tier)); err != nil {
				return err
			}
		}

		win := models.Win{
			UserID:    userID,
			PrizeID:   entry.PrizeID,
			Title:     entry.Label,
			ImageURL:  entry.ImageURL,
			Kind:      string(entry.Kind),
			Tier:      int(tier),
			CoinDelta: entry.CoinPayout,
			CreatedAt: startedAt,
		}
		if err = tx.Create(&win).Error; err != nil {
			return logger.WrapError(err, "")
		}

		state.Status = models.SpinStatusIdle
		state.ResultTitle = entry.Label
		state.ResultImage = entry.ImageURL
		state.ResultKind = string(entry.Kind)
		state.ResultCoinDelta = entry.CoinPayout
		if err = models.SaveSpinState(tx, state); err != nil {
			return err
		}

		balance, err := models.GetUserBalance(tx, userID)
		if err != nil {
			return err
		}

		outcome := SpinOutcome{
			Title:     entry.Label,
			ImageURL:  entry.ImageURL,
			Kind:      string(entry.Kind),
			CoinDelta: entry.CoinPayout,
			PrizeID:   entry.PrizeID,
		}
		popup = SpinPopup{
			By:        user.Nickname,
			Tier:      int(tier),
			Title:     outcome.Title,
			ImageURL:  outcome.ImageURL,
			Kind:      outcome.Kind,
			CoinDelta: outcome.CoinDelta,
			PrizeID:   outcome.PrizeID,
		}
		result = &SpinResult{
			DurationMs:   s.duration.Milliseconds(),
			Result:       outcome,
			Balance:      balance,
			FreeSpinUsed: freeSpinUsed,
		}
		return nil
	})
	if errors.Is(err, models.ErrSpinStateConflict) {
		return nil, ErrBusy
	} else if err != nil {
		return nil, storageError(err)
	}

	s.publish(ctx, SpinEvent{
		Type:       SpinEventStart,
		By:         popup.By,
		Tier:       popup.Tier,
		StartedAt:  startedAt.UnixMilli(),
		DurationMs: result.DurationMs,
	})
	s.publish(ctx, SpinEvent{Type: SpinEventResult, Popup: &popup})
	s.invalidateRecentWins(context.WithoutCancel(ctx))

	logger.Info("User %d spun tier %d: %s (%s, %+d coins)",
		userID, tier, popup.Title, popup.Kind, popup.CoinDelta)

	return result, nil
}

// publish never fails the spin, which has already committed.
func (s *FortuneWheelService) publish(ctx context.Context, event SpinEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.Error("Failed to publish %s event: %v", event.Type, err)
	}
}
