package main

import (
	"flag"

	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/cmd/db"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/config"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models/fortune_wheel"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

func main() {
	drop := flag.Bool("drop", false, "drop every table before migrating")
	seed := flag.Bool("seed", false, "insert the demo prize catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("%v", err)
	}
	if err = logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		logger.Fatal("%v", err)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		logger.Fatal("%v", err)
	}

	if *drop {
		if err = models.DropTables(conn); err != nil {
			logger.Fatal("%v", err)
		}
		logger.Warn("Dropped all tables.")
	}

	if err = models.AutoMigrate(conn); err != nil {
		logger.Fatal("%v", err)
	}

	if *seed {
		if err = conn.Transaction(seedPrizes); err != nil {
			logger.Fatal("%v", err)
		}
	}

	logger.Info("Migrated.")
}

var demoPrizes = map[fortune_wheel.PriceTier][]string{
	fortune_wheel.Tier50:  {"Sticker pack", "Coffee voucher", "Keychain", "Notebook"},
	fortune_wheel.Tier100: {"T-shirt", "Power bank", "Cinema ticket"},
	fortune_wheel.Tier200: {"Headphones", "Smart watch", "Backpack"},
}

// seedPrizes is idempotent: titles already present at a tier are skipped.
func seedPrizes(tx *gorm.DB) error {
	for _, tier := range fortune_wheel.Tiers {
		for _, title := range demoPrizes[tier] {
			var count int64
			err := tx.Model(&models.Prize{}).
				Where("title = ? AND cost = ?", title, int(tier)).
				Count(&count).Error
			if err != nil {
				return logger.WrapError(err, "")
			}
			if count > 0 {
				continue
			}

			prize := models.Prize{Title: title, Cost: int(tier), Active: true, VisibleInStore: true}
			if err = tx.Create(&prize).Error; err != nil {
				return logger.WrapError(err, "")
			}
			logger.Info("Seeded prize %q at tier %d", title, tier)
		}
	}

	_, err := models.GetOrCreateSpinState(tx)
	return err
}
