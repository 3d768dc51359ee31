// Package competition holds the league engine: handicaps, round-robin
// scheduling, rating changes and standings points. Everything here is a pure
// function of its arguments.
package competition

import (
	"fmt"
)

// CanonicalBaseSwing is the rating swing for a player with no games played.
// One historical variant of the formula used 23; it was never validated.
const CanonicalBaseSwing = 18

// Tier maps rating gaps up to and including MaxGap to a race-length pair.
type Tier struct {
	MaxGap int
	High   int
	Low    int
}

// Points awarded per completed fixture.
type Points struct {
	Shutout int
	Win     int
	Hill    int
}

// Rules stores every tunable constant of the engine.
type Rules struct {
	BaselineRating    int
	BaseSwing         float64
	Decay             float64
	HandicapTiers     []Tier
	OverflowHigh      int
	OverflowLow       int
	Points            Points
	RoundIntervalDays int
}

var defaultRules = DefaultRules()

func DefaultRules() Rules {
	return Rules{
		BaselineRating: 600,
		BaseSwing:      CanonicalBaseSwing,
		Decay:          0.943,
		HandicapTiers: []Tier{
			{MaxGap: 50, High: 8, Low: 8},
			{MaxGap: 100, High: 8, Low: 7},
			{MaxGap: 150, High: 9, Low: 7},
			{MaxGap: 200, High: 9, Low: 6},
			{MaxGap: 250, High: 10, Low: 6},
			{MaxGap: 300, High: 10, Low: 5},
			{MaxGap: 350, High: 11, Low: 5},
			{MaxGap: 400, High: 11, Low: 4},
		},
		OverflowHigh:      12,
		OverflowLow:       4,
		Points:            Points{Shutout: 3, Win: 2, Hill: 1},
		RoundIntervalDays: 7,
	}
}

func (r Rules) Validate() error {
	if r.BaselineRating < 0 {
		return fmt.Errorf("%w: baseline rating must be >= 0", ErrInvalidRules)
	}
	if r.BaseSwing <= 0 {
		return fmt.Errorf("%w: base swing must be > 0", ErrInvalidRules)
	}
	if r.Decay <= 0 || r.Decay > 1 {
		return fmt.Errorf("%w: decay must be within (0, 1]", ErrInvalidRules)
	}
	if r.RoundIntervalDays <= 0 {
		return fmt.Errorf("%w: round interval must be > 0 days", ErrInvalidRules)
	}

	prevGap := -1
	for i, tier := range r.HandicapTiers {
		if tier.MaxGap <= prevGap {
			return fmt.Errorf("%w: handicap tier %d max gap must increase", ErrInvalidRules, i)
		}
		if err := validateWeights(tier.High, tier.Low); err != nil {
			return fmt.Errorf("%w: handicap tier %d: %v", ErrInvalidRules, i, err)
		}
		prevGap = tier.MaxGap
	}
	if err := validateWeights(r.OverflowHigh, r.OverflowLow); err != nil {
		return fmt.Errorf("%w: overflow weights: %v", ErrInvalidRules, err)
	}

	if r.Points.Shutout < 0 || r.Points.Win < 0 || r.Points.Hill < 0 {
		return fmt.Errorf("%w: points must be >= 0", ErrInvalidRules)
	}

	return nil
}

func validateWeights(high, low int) error {
	if low <= 0 {
		return fmt.Errorf("weights must be > 0")
	}
	if high < low {
		return fmt.Errorf("high weight %d is below low weight %d", high, low)
	}
	return nil
}
