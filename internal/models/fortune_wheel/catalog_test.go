package fortune_wheel

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/dbtest"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
)

func TestFetchActivePrizes(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.SeedPrize(t, db, "Apple", 50, true)
	dbtest.SeedPrize(t, db, "Old pen", 50, false)
	dbtest.SeedPrize(t, db, "Pear", 50, true)
	dbtest.SeedPrize(t, db, "Headphones", 100, true)

	prizes, err := FetchActivePrizes(db, Tier50)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Pear"}, lo.Map(prizes, func(p models.Prize, _ int) string { return p.Title }))

	prizes, err = FetchActivePrizes(db, Tier200)
	require.NoError(t, err)
	assert.Empty(t, prizes)
}

func TestLoadWheel(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.SeedPrize(t, db, "Apple", 50, true)
	dbtest.SeedPrize(t, db, "Headphones", 100, true)

	entries, err := LoadWheel(db, Tier50, DefaultRand)
	require.NoError(t, err)

	assert.True(t, lo.ContainsBy(entries, func(e WheelEntry) bool { return e.Label == "Headphones" }))
	assert.True(t, lo.ContainsBy(entries, func(e WheelEntry) bool { return e.Label == "Apple" }))
	assert.GreaterOrEqual(t, len(entries), MinWheelEntries)
}

func TestFetchActivePrizes_StorageFailure(t *testing.T) {
	db := dbtest.Open(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = FetchActivePrizes(db, Tier50)
	assert.Error(t, err)
}
