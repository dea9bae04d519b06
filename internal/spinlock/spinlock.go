// Package spinlock serializes wheel settlements across every server instance.
// A lock is a single shared key with a holder token and a time-to-live, so a
// holder that dies mid-spin frees the wheel within one TTL.
package spinlock

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/redis"
)

// Locker is a global mutual exclusion token. Acquire returns false without an
// error when someone else holds the lock. Release is a no-op when holder no
// longer owns it.
type Locker interface {
	Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, holder string) error
}

const DefaultRedisKey = "wheel:spin-lock"

type RedisLocker struct {
	redis *redis.RedisService
	key   string
}

func NewRedisLocker(rs *redis.RedisService, key string) *RedisLocker {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisLocker{redis: rs, key: key}
}

func (l *RedisLocker) Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	return l.redis.SetKeyIfAbsent(ctx, l.key, holder, ttl)
}

func (l *RedisLocker) Release(ctx context.Context, holder string) error {
	_, err := l.redis.DeleteKeyIfValue(ctx, l.key, holder)
	return err
}

// SQLLocker keeps the lock in a single row for deployments without Redis.
// Both operations are one conditional UPDATE.
type SQLLocker struct {
	db  *gorm.DB
	id  string
	now func() time.Time
}

func NewSQLLocker(db *gorm.DB) *SQLLocker {
	return &SQLLocker{db: db, id: models.GlobalSpinStateID, now: time.Now}
}

func (l *SQLLocker) ensureRow(tx *gorm.DB) error {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SpinLockRow{ID: l.id}).Error
	if err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}

func (l *SQLLocker) Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	tx := l.db.WithContext(ctx)
	if err := l.ensureRow(tx); err != nil {
		return false, err
	}

	now := l.now()
	res := tx.Model(&models.SpinLockRow{}).
		Where("id = ? AND (holder = '' OR expires_at_ms < ?)", l.id, now.UnixMilli()).
		Updates(map[string]interface{}{
			"holder":        holder,
			"expires_at_ms": now.Add(ttl).UnixMilli(),
		})
	if res.Error != nil {
		return false, logger.WrapError(res.Error, "")
	}
	return res.RowsAffected == 1, nil
}

func (l *SQLLocker) Release(ctx context.Context, holder string) error {
	err := l.db.WithContext(ctx).Model(&models.SpinLockRow{}).
		Where("id = ? AND holder = ?", l.id, holder).
		Updates(map[string]interface{}{"holder": "", "expires_at_ms": 0}).Error
	if err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}
