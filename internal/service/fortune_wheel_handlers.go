package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/middleware"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models/fortune_wheel"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/redis"
)

const (
	recentWinsLimit    = 20
	recentWinsCacheKey = "wheel:recent-wins"
	recentWinsCacheTTL = time.Minute
)

type SpinInput struct {
	Tier int `json:"tier"`
}

// SpinFortuneWheel settles one spin for the authorized user.
func (s *FortuneWheelService) SpinFortuneWheel(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		respondError(c, ErrUnauthorized)
		return
	}

	var input SpinInput
	if err = c.ShouldBindJSON(&input); err != nil {
		respondError(c, ErrInvalidTier)
		return
	}

	result, err := s.SettleSpin(c.Request.Context(), userID, input.Tier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *FortuneWheelService) GetFortuneWheelState(c *gin.Context) {
	view, err := s.GetSpinState(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetFortuneWheelInfo previews a tier's wheel with each entry's chance.
// Bonus prizes are sampled afresh on every call, as they are on every spin.
func (s *FortuneWheelService) GetFortuneWheelInfo(c *gin.Context) {
	value, err := strconv.Atoi(c.Query("tier"))
	if err != nil {
		respondError(c, ErrInvalidTier)
		return
	}
	tier, ok := fortune_wheel.ParseTier(value)
	if !ok {
		respondError(c, ErrInvalidTier)
		return
	}

	entries, err := fortune_wheel.LoadWheel(s.db.WithContext(c.Request.Context()), tier, s.rnd)
	if err != nil {
		respondError(c, storageError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":      int(tier),
		"cost":      tier.Cost(),
		"coinBonus": tier.CoinBonus(),
		"entries":   fortune_wheel.Chances(entries),
	})
}

type WinView struct {
	ID        int64     `json:"id"`
	Nickname  string    `json:"nickname"`
	Title     string    `json:"title"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	Kind      string    `json:"kind"`
	Tier      int       `json:"tier"`
	CoinDelta int64     `json:"coinDelta"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *FortuneWheelService) GetRecentWins(c *gin.Context) {
	views, err := s.RecentWins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// RecentWins returns the latest wins, newest first. With a cache configured
// the feed is served from redis until the next spin settles.
func (s *FortuneWheelService) RecentWins(ctx context.Context) ([]WinView, error) {
	if s.cache != nil {
		cached, err := s.cache.GetKey(ctx, recentWinsCacheKey)
		if err == nil {
			var views []WinView
			if err = json.Unmarshal([]byte(cached), &views); err == nil {
				return views, nil
			}
			logger.Warn("Ignoring malformed recent wins cache: %v", err)
		} else if !errors.Is(err, redis.ErrNil) {
			logger.Warn("Recent wins cache unavailable: %v", err)
		}
	}

	wins, err := models.GetRecentWins(s.db.WithContext(ctx), recentWinsLimit)
	if err != nil {
		return nil, storageError(err)
	}

	views := lo.Map(wins, func(w models.Win, _ int) WinView {
		view := WinView{
			ID:        w.ID,
			Title:     w.Title,
			ImageURL:  w.ImageURL,
			Kind:      w.Kind,
			Tier:      w.Tier,
			CoinDelta: w.CoinDelta,
			CreatedAt: w.CreatedAt,
		}
		if w.User != nil {
			view.Nickname = w.User.Nickname
		}
		return view
	})

	if s.cache != nil {
		payload, err := json.Marshal(views)
		if err == nil {
			err = s.cache.SetKey(ctx, recentWinsCacheKey, payload, recentWinsCacheTTL)
		}
		if err != nil {
			logger.Warn("Failed to cache recent wins: %v", err)
		}
	}

	return views, nil
}

func (s *FortuneWheelService) invalidateRecentWins(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteKey(ctx, recentWinsCacheKey); err != nil {
		logger.Error("Failed to drop recent wins cache: %v", err)
	}
}
