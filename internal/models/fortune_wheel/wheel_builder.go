package fortune_wheel

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
)

type EntryKind string

const (
	KindPrize     EntryKind = "prize"
	KindCoinBonus EntryKind = "coinBonus"
	KindSpinAgain EntryKind = "spinAgain"
)

const (
	// MinWheelEntries is a display floor. Padding never changes odds.
	MinWheelEntries = 8
	// maxBonusPrizes is how many next tier prizes are sampled onto a wheel.
	maxBonusPrizes = 2

	SpinAgainTitle = "Spin again"
)

// WheelEntry is one possible outcome of a single spin. It lives only for the
// duration of one build.
type WheelEntry struct {
	Kind       EntryKind `json:"kind"`
	Label      string    `json:"label"`
	Weight     float64   `json:"-"`
	PrizeID    *int64    `json:"prizeId,omitempty"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	CoinPayout int64     `json:"coinPayout,omitempty"`
}

// BuildWheel assembles the weighted entries for a tier from its own active
// prizes and the next tier's active prizes. It never fails: with an empty
// catalog the wheel still holds the spin again and coin bonus entries.
func BuildWheel(tier PriceTier, sameTier, nextTier []models.Prize, rnd Rand) []WheelEntry {
	rarity := tier.Rarity()

	entries := []WheelEntry{
		{Kind: KindSpinAgain, Label: SpinAgainTitle, Weight: rarity.SpinAgain},
		{
			Kind:       KindCoinBonus,
			Label:      fmt.Sprintf("+%d coins", tier.CoinBonus()),
			Weight:     rarity.CoinBonus,
			CoinPayout: tier.CoinBonus(),
		},
	}

	if _, hasNext := tier.Next(); hasNext {
		for _, p := range samplePrizes(nextTier, maxBonusPrizes, rnd) {
			entries = append(entries, prizeEntry(p, rarity.BonusPrize))
		}
	} else {
		entries = append(entries, WheelEntry{
			Kind:       KindPrize,
			Label:      PlaceholderPrizeTitle,
			Weight:     rarity.BonusPrize,
			CoinPayout: PlaceholderPrizeCoins,
		})
	}

	if len(sameTier) == 0 {
		return entries
	}

	// Round-robin padding, then split each prize's weight over its copies.
	copies := make([]int, len(sameTier))
	for i := range sameTier {
		copies[i] = 1
	}
	for n, i := len(entries)+len(sameTier), 0; n < MinWheelEntries; n, i = n+1, (i+1)%len(sameTier) {
		copies[i]++
	}

	for i, p := range sameTier {
		weight := rarity.Prize / float64(copies[i])
		for c := 0; c < copies[i]; c++ {
			entries = append(entries, prizeEntry(p, weight))
		}
	}

	return entries
}

func prizeEntry(p models.Prize, weight float64) WheelEntry {
	id := p.ID
	return WheelEntry{
		Kind:     KindPrize,
		Label:    p.Title,
		Weight:   weight,
		PrizeID:  &id,
		ImageURL: p.ImageURL,
	}
}

// samplePrizes picks up to n prizes uniformly without replacement using a
// partial Fisher-Yates shuffle over a copy of the input.
func samplePrizes(prizes []models.Prize, n int, rnd Rand) []models.Prize {
	pool := append([]models.Prize(nil), prizes...)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// TotalWeight sums the weights of entries.
func TotalWeight(entries []WheelEntry) float64 {
	return lo.SumBy(entries, func(e WheelEntry) float64 { return e.Weight })
}

// Chance is an entry's probability expressed in percent.
type Chance struct {
	WheelEntry
	Percent float64 `json:"percent"`
}

// Chances reports each entry's share of the total weight, for previews.
func Chances(entries []WheelEntry) []Chance {
	total := TotalWeight(entries)
	return lo.Map(entries, func(e WheelEntry, _ int) Chance {
		return Chance{WheelEntry: e, Percent: e.Weight / total * 100}
	})
}
