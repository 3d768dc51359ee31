package competition

import (
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

// Schedule builds a round robin for one session and division using the
// circle method. Odd rosters get a bye slot whose pairings are skipped.
// With double set, a second leg replays every round with home and away swapped.
// The result depends only on the arguments, including roster order.
func (r Rules) Schedule(players []player.Player, start time.Time, sessionID, divisionID int64, double bool) []fixture.Fixture {
	if len(players) < 2 {
		return nil
	}

	slots := make([]*player.Player, 0, len(players)+1)
	for i := range players {
		slots = append(slots, &players[i])
	}
	if len(slots)%2 != 0 {
		slots = append(slots, nil)
	}

	size := len(slots)
	rounds := size - 1
	legs := 1
	if double {
		legs = 2
	}

	out := make([]fixture.Fixture, 0, legs*rounds*(size/2))
	for leg := 0; leg < legs; leg++ {
		for round := 0; round < rounds; round++ {
			date := start.AddDate(0, 0, r.RoundIntervalDays*(round+leg*rounds))
			for _, pair := range circlePairings(size, round) {
				home, away := slots[pair[0]], slots[pair[1]]
				if home == nil || away == nil {
					continue
				}
				if leg == 1 {
					home, away = away, home
				}
				out = append(out, r.NewFixture(*home, *away, date, sessionID, divisionID))
			}
		}
	}

	return out
}

// NewFixture pairs home against away with their current ratings as the snapshot.
func (r Rules) NewFixture(home, away player.Player, date time.Time, sessionID, divisionID int64) fixture.Fixture {
	homeWeight, awayWeight := r.MatchWeight(home.Rating, away.Rating)
	return fixture.Fixture{
		SessionID:     sessionID,
		DivisionID:    divisionID,
		Player1ID:     home.ID,
		Player2ID:     away.ID,
		Player1Rating: home.Rating,
		Player2Rating: away.Rating,
		Player1Weight: homeWeight,
		Player2Weight: awayWeight,
		ScheduledDate: date,
	}
}

// Schedule applies the default rules.
func Schedule(players []player.Player, start time.Time, sessionID, divisionID int64, double bool) []fixture.Fixture {
	return defaultRules.Schedule(players, start, sessionID, divisionID, double)
}

// circlePairings returns slot index pairs for one round. The last slot stays
// fixed and meets the rotating slot; the rest mirror around it.
func circlePairings(size, round int) [][2]int {
	rounds := size - 1
	pairs := make([][2]int, 0, size/2)
	pairs = append(pairs, [2]int{rounds, round})
	for i := 1; i < size/2; i++ {
		pairs = append(pairs, [2]int{mod(round+i, rounds), mod(round-i, rounds)})
	}
	return pairs
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
