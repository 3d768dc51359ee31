package competition

import (
	"math"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
)

// RatingChange returns the winner's gain and the loser's loss for one game.
// The base swing shrinks as a player's games played grows; balls left on the
// table add to both sides.
func (r Rules) RatingChange(winnerGamesPlayed, loserGamesPlayed, ballsRemaining int) (int, int) {
	winnerDelta := r.baseSwing(winnerGamesPlayed) + ballsRemaining
	loserDelta := -(r.baseSwing(loserGamesPlayed) + ballsRemaining)
	return winnerDelta, loserDelta
}

// RatingChange applies the default rules.
func RatingChange(winnerGamesPlayed, loserGamesPlayed, ballsRemaining int) (int, int) {
	return defaultRules.RatingChange(winnerGamesPlayed, loserGamesPlayed, ballsRemaining)
}

func (r Rules) baseSwing(gamesPlayed int) int {
	if gamesPlayed < 0 {
		gamesPlayed = 0
	}
	return int(math.Floor(r.BaseSwing * math.Pow(r.Decay, float64(gamesPlayed))))
}

// SnapshotUpdate refreshes the rating snapshot of one pending fixture.
type SnapshotUpdate struct {
	FixtureID int64
	Patch     fixture.Patch
}

// PropagateRatings returns the snapshot changes needed so every pending
// fixture shows the given ratings. Completed fixtures and weights are left alone.
func PropagateRatings(pending []fixture.Fixture, ratings map[int64]int) []SnapshotUpdate {
	var out []SnapshotUpdate
	for _, fx := range pending {
		if fx.Completed {
			continue
		}

		var patch fixture.Patch
		if rating, ok := ratings[fx.Player1ID]; ok && rating != fx.Player1Rating {
			patch.Player1Rating = &rating
		}
		if rating, ok := ratings[fx.Player2ID]; ok && rating != fx.Player2Rating {
			patch.Player2Rating = &rating
		}
		if patch.IsEmpty() {
			continue
		}
		out = append(out, SnapshotUpdate{FixtureID: fx.ID, Patch: patch})
	}
	return out
}
