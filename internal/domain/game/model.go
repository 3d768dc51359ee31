package game

import (
	"fmt"
	"time"
)

// Game is one rack inside a fixture. Games are never updated once stored.
type Game struct {
	ID                 int64
	FixtureID          int64
	WinnerID           int64
	LoserID            int64
	WinnerRating       int
	LoserRating        int
	WinnerRatingChange int
	LoserRatingChange  int
	BallsRemaining     int
	PlayedAt           time.Time
}

func (g Game) Validate() error {
	if g.FixtureID <= 0 {
		return fmt.Errorf("game fixture id is required")
	}
	if g.WinnerID <= 0 || g.LoserID <= 0 {
		return fmt.Errorf("game winner and loser are required")
	}
	if g.WinnerID == g.LoserID {
		return fmt.Errorf("game winner and loser must differ")
	}
	if g.BallsRemaining < 0 {
		return fmt.Errorf("game balls remaining must be >= 0")
	}

	return nil
}

// Filter narrows game listings. Zero-valued fields match everything.
type Filter struct {
	FixtureID  *int64
	FixtureIDs []int64
	PlayerID   *int64
}

func (f Filter) Match(g Game) bool {
	if f.FixtureID != nil && g.FixtureID != *f.FixtureID {
		return false
	}
	if f.FixtureIDs != nil {
		found := false
		for _, id := range f.FixtureIDs {
			if id == g.FixtureID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.PlayerID != nil && g.WinnerID != *f.PlayerID && g.LoserID != *f.PlayerID {
		return false
	}
	return true
}
