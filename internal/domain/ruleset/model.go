package ruleset

import "fmt"

// Tier is a contiguous run-count or wicket-count interval with a distinct
// rate. Upper is inclusive; a tier with Upper <= 0 is open-ended (covers
// everything above the previous tier's Upper).
type Tier struct {
	Upper int
	Rate  float64
}

// Ruleset is the versioned, data-only configuration the scoring engine reads.
// Tuning a rate never requires a code change, only a new version.
type Ruleset struct {
	Version string

	BattingTiers   []Tier
	FiftyBonus     float64
	HundredBonus   float64
	DuckPenalty    float64
	StrikeRateBase float64 // divisor for runs/balls*100, conventionally 100

	BowlingTiers      []Tier
	MaidenPoints      float64
	FiveWicketBonus   float64
	EconomyRateCap    float64 // wicket multiplier is EconomyRateCap/economy_rate, capped at EconomyRateCap

	CatchPoints    float64
	StumpingPoints float64
	RunoutPoints   float64
}

func (r Ruleset) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("ruleset version is required")
	}
	if len(r.BattingTiers) == 0 {
		return fmt.Errorf("ruleset %s: batting tiers are required", r.Version)
	}
	if len(r.BowlingTiers) == 0 {
		return fmt.Errorf("ruleset %s: bowling tiers are required", r.Version)
	}
	return nil
}

// V1 is the reference ruleset.
func V1() Ruleset {
	return Ruleset{
		Version: "v1",
		BattingTiers: []Tier{
			{Upper: 30, Rate: 1.00},
			{Upper: 49, Rate: 1.25},
			{Upper: 99, Rate: 1.50},
			{Upper: 0, Rate: 1.75}, // 100+, open-ended
		},
		FiftyBonus:     8,
		HundredBonus:   16,
		DuckPenalty:    -2,
		StrikeRateBase: 100,

		BowlingTiers: []Tier{
			{Upper: 2, Rate: 15},
			{Upper: 4, Rate: 20},
			{Upper: 10, Rate: 30}, // 5-10, last tier is exact upper bound
		},
		MaidenPoints:    15,
		FiveWicketBonus: 8,
		EconomyRateCap:  6.0,

		CatchPoints:    4,
		StumpingPoints: 6,
		RunoutPoints:   6,
	}
}
