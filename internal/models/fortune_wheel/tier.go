package fortune_wheel

// PriceTier is the coin price of a spin. It also selects the prize pool.
type PriceTier int

const (
	Tier50  PriceTier = 50
	Tier100 PriceTier = 100
	Tier200 PriceTier = 200
)

// Tiers lists the supported tiers in ascending order.
var Tiers = []PriceTier{Tier50, Tier100, Tier200}

// TierRarity holds the relative weights of every entry kind on one tier's
// wheel. CoinBonus must stay below Prize.
type TierRarity struct {
	Prize      float64
	BonusPrize float64
	CoinBonus  float64
	SpinAgain  float64
}

type tierRule struct {
	next      PriceTier
	coinBonus int64
	rarity    TierRarity
}

var tierRules = map[PriceTier]tierRule{
	Tier50: {
		next:      Tier100,
		coinBonus: 75,
		rarity:    TierRarity{Prize: 10, BonusPrize: 4, CoinBonus: 6, SpinAgain: 3},
	},
	Tier100: {
		next:      Tier200,
		coinBonus: 150,
		rarity:    TierRarity{Prize: 10, BonusPrize: 3, CoinBonus: 6, SpinAgain: 3},
	},
	Tier200: {
		coinBonus: 300,
		rarity:    TierRarity{Prize: 10, BonusPrize: 2, CoinBonus: 5, SpinAgain: 3},
	},
}

// Top tier wheels have no richer catalog to sample from and get a coin
// placeholder instead.
const (
	PlaceholderPrizeCoins int64 = 500
	PlaceholderPrizeTitle       = "500 coins"
)

func ParseTier(v int) (PriceTier, bool) {
	t := PriceTier(v)
	_, ok := tierRules[t]
	return t, ok
}

func (t PriceTier) Valid() bool {
	_, ok := tierRules[t]
	return ok
}

// Cost is the number of coins charged for one spin.
func (t PriceTier) Cost() int64 {
	return int64(t)
}

// Next returns the tier whose catalog feeds bonus prizes, or false at the top.
func (t PriceTier) Next() (PriceTier, bool) {
	rule := tierRules[t]
	return rule.next, rule.next != 0
}

func (t PriceTier) CoinBonus() int64 {
	return tierRules[t].coinBonus
}

func (t PriceTier) Rarity() TierRarity {
	return tierRules[t].rarity
}
