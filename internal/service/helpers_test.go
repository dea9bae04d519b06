package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/dbtest"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models/fortune_wheel"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/spinlock"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/redis"
)

// fixedRand always draws the same point on the wheel and samples the first
// candidates.
type fixedRand struct {
	f float64
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(int) int     { return 0 }

var (
	drawFirst = fixedRand{f: 0}
	drawLast  = fixedRand{f: 0.999}
)

type wheelFixture struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	redis  *redis.RedisService
	locker spinlock.Locker
	events *LocalSpinEvents
}

func newWheelFixture(t *testing.T) *wheelFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rs, err := redis.NewRedisService(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	return &wheelFixture{
		db:     dbtest.Open(t),
		mr:     mr,
		redis:  rs,
		locker: spinlock.NewRedisLocker(rs, ""),
		events: NewLocalSpinEvents(),
	}
}

func (f *wheelFixture) wheel(rnd fortune_wheel.Rand) *FortuneWheelService {
	return NewFortuneWheelService(f.db, f.locker, f.events, FortuneWheelOptions{
		SpinDuration: 6 * time.Second,
		SpinGrace:    4 * time.Second,
		Rand:         rnd,
	})
}

func ledgerOf(t *testing.T, db *gorm.DB, userID int64) []models.BalanceLedgerEntry {
	t.Helper()
	var entries []models.BalanceLedgerEntry
	require.NoError(t, db.Where("user_id = ?", userID).Order("id").Find(&entries).Error)
	return entries
}

func balanceOf(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	balance, err := models.GetUserBalance(db, userID)
	require.NoError(t, err)
	return balance
}

// countingLocker records how often the engine touched the lock.
type countingLocker struct {
	spinlock.Locker
	mu       sync.Mutex
	acquires int
	releases int
}

func (l *countingLocker) Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	l.acquires++
	l.mu.Unlock()
	return l.Locker.Acquire(ctx, holder, ttl)
}

func (l *countingLocker) Release(ctx context.Context, holder string) error {
	l.mu.Lock()
	l.releases++
	l.mu.Unlock()
	return l.Locker.Release(ctx, holder)
}

// gatedLocker delays every release until all expected acquire attempts were
// made, so concurrent spins are guaranteed to overlap.
type gatedLocker struct {
	spinlock.Locker
	attempts sync.WaitGroup
}

func newGatedLocker(inner spinlock.Locker, attempts int) *gatedLocker {
	g := &gatedLocker{Locker: inner}
	g.attempts.Add(attempts)
	return g
}

func (g *gatedLocker) Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	defer g.attempts.Done()
	return g.Locker.Acquire(ctx, holder, ttl)
}

func (g *gatedLocker) Release(ctx context.Context, holder string) error {
	g.attempts.Wait()
	return g.Locker.Release(ctx, holder)
}

type failingEvents struct{}

func (failingEvents) Publish(context.Context, SpinEvent) error {
	return context.DeadlineExceeded
}

func (failingEvents) Subscribe(context.Context) (<-chan SpinEvent, func(), error) {
	return nil, nil, context.DeadlineExceeded
}

func receiveEvent(t *testing.T, ch <-chan SpinEvent) SpinEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no spin event received")
		return SpinEvent{}
	}
}

// cancelAfterAcquire cancels the caller's context as soon as the lock is
// taken, like a client hanging up mid-spin.
type cancelAfterAcquire struct {
	spinlock.Locker
	cancel context.CancelFunc
}

func (l *cancelAfterAcquire) Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	ok, err := l.Locker.Acquire(ctx, holder, ttl)
	l.cancel()
	return ok, err
}
