package fortune_wheel

import (
	"math/rand"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
)

func catalog(cost int, titles ...string) []models.Prize {
	prizes := make([]models.Prize, 0, len(titles))
	for i, title := range titles {
		prizes = append(prizes, models.Prize{ID: int64(cost*100 + i), Title: title, Cost: cost, Active: true})
	}
	return prizes
}

func countKind(entries []WheelEntry, kind EntryKind) int {
	return lo.CountBy(entries, func(e WheelEntry) bool { return e.Kind == kind })
}

func TestBuildWheel_EveryTier(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, tier := range Tiers {
		for _, sameTier := range [][]models.Prize{nil, catalog(int(tier), "A"), catalog(int(tier), "A", "B", "C", "D", "E", "F", "G", "H", "I")} {
			entries := BuildWheel(tier, sameTier, catalog(int(tier)*2, "X", "Y", "Z"), rnd)

			require.NotEmpty(t, entries)
			assert.Greater(t, TotalWeight(entries), 0.0)
			assert.Equal(t, 1, countKind(entries, KindSpinAgain), "tier %d", tier)
			assert.Equal(t, 1, countKind(entries, KindCoinBonus), "tier %d", tier)
			for _, e := range entries {
				assert.Greater(t, e.Weight, 0.0)
			}
			if len(sameTier) > 0 {
				assert.GreaterOrEqual(t, len(entries), MinWheelEntries)
			}
		}
	}
}

func TestBuildWheel_CoinBonusPayoutAndRarity(t *testing.T) {
	want := map[PriceTier]int64{Tier50: 75, Tier100: 150, Tier200: 300}

	for tier, payout := range want {
		entries := BuildWheel(tier, nil, nil, DefaultRand)
		bonus, ok := lo.Find(entries, func(e WheelEntry) bool { return e.Kind == KindCoinBonus })
		require.True(t, ok)
		assert.Equal(t, payout, bonus.CoinPayout)
		assert.Less(t, bonus.Weight, tier.Rarity().Prize)
	}
}

func TestBuildWheel_SamplesAtMostTwoDistinctNextTierPrizes(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	next := catalog(100, "X", "Y", "Z", "W")

	for i := 0; i < 200; i++ {
		entries := BuildWheel(Tier50, nil, next, rnd)
		bonus := lo.Filter(entries, func(e WheelEntry, _ int) bool { return e.Kind == KindPrize })
		require.Len(t, bonus, 2)
		assert.NotEqual(t, *bonus[0].PrizeID, *bonus[1].PrizeID)
		for _, b := range bonus {
			assert.Equal(t, Tier50.Rarity().BonusPrize, b.Weight)
		}
	}

	entries := BuildWheel(Tier50, nil, catalog(100, "Only"), rnd)
	assert.Equal(t, 1, countKind(entries, KindPrize))
}

func TestBuildWheel_TopTierPlaceholder(t *testing.T) {
	entries := BuildWheel(Tier200, nil, nil, DefaultRand)

	placeholder, ok := lo.Find(entries, func(e WheelEntry) bool { return e.Kind == KindPrize })
	require.True(t, ok)
	assert.Nil(t, placeholder.PrizeID)
	assert.Equal(t, PlaceholderPrizeCoins, placeholder.CoinPayout)
	assert.Len(t, entries, 3)
}

func TestBuildWheel_EmptyNextTierHasNoPlaceholder(t *testing.T) {
	// tier 50 with only "Apple" and an empty tier 100 catalog
	entries := BuildWheel(Tier50, catalog(50, "Apple"), nil, DefaultRand)

	assert.Len(t, entries, MinWheelEntries)
	assert.Equal(t, 1, countKind(entries, KindSpinAgain))
	assert.Equal(t, 1, countKind(entries, KindCoinBonus))

	apples := lo.Filter(entries, func(e WheelEntry, _ int) bool { return e.Label == "Apple" })
	assert.Len(t, apples, MinWheelEntries-2)
	assert.False(t, lo.ContainsBy(entries, func(e WheelEntry) bool { return e.CoinPayout == PlaceholderPrizeCoins }))

	// padding splits the prize weight, the prize keeps its documented mass
	assert.InDelta(t, Tier50.Rarity().Prize, TotalWeight(apples), 1e-9)
}

func TestBuildWheel_ScenarioDistribution(t *testing.T) {
	entries := BuildWheel(Tier50, catalog(50, "Apple"), nil, DefaultRand)
	rarity := Tier50.Rarity()
	total := rarity.Prize + rarity.CoinBonus + rarity.SpinAgain

	const rounds = 50_000
	rnd := rand.New(rand.NewSource(11))
	count := map[EntryKind]int{}
	for i := 0; i < rounds; i++ {
		got, err := WeightedRandomSelection(entries, rnd)
		require.NoError(t, err)
		count[got.Kind]++
	}

	assert.InDelta(t, rarity.Prize/total, float64(count[KindPrize])/rounds, 0.015)
	assert.InDelta(t, rarity.CoinBonus/total, float64(count[KindCoinBonus])/rounds, 0.015)
	assert.InDelta(t, rarity.SpinAgain/total, float64(count[KindSpinAgain])/rounds, 0.015)
}

func TestBuildWheel_PaddingKeepsPerPrizeMass(t *testing.T) {
	same := catalog(100, "A", "B", "C")
	entries := BuildWheel(Tier100, same, nil, DefaultRand)

	assert.Len(t, entries, MinWheelEntries)
	for _, p := range same {
		copies := lo.Filter(entries, func(e WheelEntry, _ int) bool { return e.PrizeID != nil && *e.PrizeID == p.ID })
		assert.InDelta(t, Tier100.Rarity().Prize, TotalWeight(copies), 1e-9, p.Title)
	}
}

func TestChances(t *testing.T) {
	chances := Chances([]WheelEntry{{Label: "a", Weight: 1}, {Label: "b", Weight: 3}})
	require.Len(t, chances, 2)
	assert.InDelta(t, 25.0, chances[0].Percent, 1e-9)
	assert.InDelta(t, 75.0, chances[1].Percent, 1e-9)
}

func TestParseTier(t *testing.T) {
	for _, v := range []int{50, 100, 200} {
		tier, ok := ParseTier(v)
		assert.True(t, ok)
		assert.Equal(t, int64(v), tier.Cost())
	}
	for _, v := range []int{0, -50, 49, 150, 500} {
		_, ok := ParseTier(v)
		assert.False(t, ok, "tier %d", v)
	}

	next, ok := Tier50.Next()
	assert.True(t, ok)
	assert.Equal(t, Tier100, next)
	_, ok = Tier200.Next()
	assert.False(t, ok)
}
