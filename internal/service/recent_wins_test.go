package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/dbtest"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/redis"
)

func TestRecentWins_CachedUntilNextSpin(t *testing.T) {
	f := newWheelFixture(t)
	user := dbtest.SeedUser(t, f.db, "mona", 200)
	wheel := NewFortuneWheelService(f.db, f.locker, f.events, FortuneWheelOptions{
		Rand:  fixedRand{f: 0.5},
		Cache: f.redis,
	})
	ctx := context.Background()

	_, err := wheel.SettleSpin(ctx, user.ID, 50)
	require.NoError(t, err)

	wins, err := wheel.RecentWins(ctx)
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, "mona", wins[0].Nickname)
	assert.True(t, f.mr.Exists(recentWinsCacheKey))

	// rows written behind the cache's back are not seen until it is dropped
	require.NoError(t, f.db.Create(&models.Win{
		UserID:    user.ID,
		Title:     "Mug",
		Kind:      "prize",
		Tier:      50,
		CreatedAt: time.Now(),
	}).Error)
	wins, err = wheel.RecentWins(ctx)
	require.NoError(t, err)
	assert.Len(t, wins, 1)

	_, err = wheel.SettleSpin(ctx, user.ID, 50)
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(recentWinsCacheKey), "a settled spin drops the cache")

	wins, err = wheel.RecentWins(ctx)
	require.NoError(t, err)
	assert.Len(t, wins, 3)
}

func TestRecentWins_CacheDownFallsBackToDatabase(t *testing.T) {
	f := newWheelFixture(t)
	user := dbtest.SeedUser(t, f.db, "nora", 100)
	require.NoError(t, f.db.Create(&models.Win{
		UserID:    user.ID,
		Title:     "+75 coins",
		Kind:      "coinBonus",
		Tier:      50,
		CoinDelta: 75,
		CreatedAt: time.Now(),
	}).Error)

	mr := miniredis.RunT(t)
	cache, err := redis.NewRedisService(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	mr.Close()

	wheel := NewFortuneWheelService(f.db, f.locker, f.events, FortuneWheelOptions{Cache: cache})
	wins, err := wheel.RecentWins(context.Background())
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, "+75 coins", wins[0].Title)
}

func TestRecentWins_MalformedCacheIgnored(t *testing.T) {
	f := newWheelFixture(t)
	dbtest.SeedUser(t, f.db, "olga", 100)
	require.NoError(t, f.mr.Set(recentWinsCacheKey, "not json"))

	wheel := NewFortuneWheelService(f.db, f.locker, f.events, FortuneWheelOptions{Cache: f.redis})
	wins, err := wheel.RecentWins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, wins)

	cached, err := f.mr.Get(recentWinsCacheKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", cached)
}
