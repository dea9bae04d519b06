package fortune_wheel

import (
	"gorm.io/gorm"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

// FetchActivePrizes returns the active prizes priced at tier, ordered by id.
func FetchActivePrizes(tx *gorm.DB, tier PriceTier) ([]models.Prize, error) {
	var prizes []models.Prize
	err := tx.Where("cost = ? AND active = ?", int(tier), true).
		Order("id").
		Find(&prizes).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}
	return prizes, nil
}

// LoadWheel reads both catalogs a tier's wheel needs and builds it.
func LoadWheel(tx *gorm.DB, tier PriceTier, rnd Rand) ([]WheelEntry, error) {
	sameTier, err := FetchActivePrizes(tx, tier)
	if err != nil {
		return nil, err
	}

	var nextTier []models.Prize
	if next, ok := tier.Next(); ok {
		if nextTier, err = FetchActivePrizes(tx, next); err != nil {
			return nil, err
		}
	}

	return BuildWheel(tier, sameTier, nextTier, rnd), nil
}
