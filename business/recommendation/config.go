package recommendation

type Config struct {
	DefaultLimit int

	// retrieval
	PoolSize   int // top-N pulled by rating for preference or top-rated pools
	TopUpBelow int // preference pools smaller than this get the top-rated catalog appended

	// shortlist = ShortlistFactor * limit, never below limit
	ShortlistFactor int

	// seeded scoring
	SeedRatingWeight float64

	// unseeded scoring
	PreferredBonus float64
	BudgetBonus    float64

	StockBonus float64
}

const (
	defaultLimit            = 6
	defaultPoolSize         = 24
	defaultTopUpBelow       = 12
	defaultShortlistFactor  = 2
	defaultSeedRatingWeight = 2.0
	defaultPreferredBonus   = 2.0
	defaultBudgetBonus      = 1.0
	defaultStockBonus       = 1.0
)

func DefaultConfig() Config {
	return Config{
		DefaultLimit:     defaultLimit,
		PoolSize:         defaultPoolSize,
		TopUpBelow:       defaultTopUpBelow,
		ShortlistFactor:  defaultShortlistFactor,
		SeedRatingWeight: defaultSeedRatingWeight,
		PreferredBonus:   defaultPreferredBonus,
		BudgetBonus:      defaultBudgetBonus,
		StockBonus:       defaultStockBonus,
	}
}

func (c Config) shortlistSize(limit int) int {
	n := limit * c.ShortlistFactor
	if n < limit {
		n = limit
	}
	return n
}
