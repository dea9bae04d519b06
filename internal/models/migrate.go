package models

import (
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

// SpinLockRow backs the SQL spin lock. A free lock has an empty holder.
type SpinLockRow struct {
	ID          string `gorm:"primaryKey;size:16"`
	Holder      string `gorm:"size:64;not null;default:''"`
	ExpiresAtMs int64  `gorm:"not null;default:0"`
}

func (SpinLockRow) TableName() string {
	return "spin_locks"
}

// Tables lists every persisted model in dependency order.
func Tables() []interface{} {
	return []interface{}{
		&User{},
		&Prize{},
		&BalanceLedgerEntry{},
		&Win{},
		&SpinState{},
		&SpinLockRow{},
		&FreeSpin{},
		&GiftCode{},
		&GiftCodeRedemption{},
	}
}

func AutoMigrate(tx *gorm.DB) error {
	if err := tx.AutoMigrate(Tables()...); err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}

func DropTables(tx *gorm.DB) error {
	tables := Tables()
	// reverse so dependents go first
	for i, j := 0, len(tables)-1; i < j; i, j = i+1, j-1 {
		tables[i], tables[j] = tables[j], tables[i]
	}
	if err := tx.Migrator().DropTable(tables...); err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}
