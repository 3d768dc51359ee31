package competition

import (
	"cmp"
	"slices"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
)

// Standing is one row of a standings table.
type Standing struct {
	Position       int
	PlayerID       int64
	Points         int
	FixturesPlayed int
	FixturesWon    int
	FixturesLost   int
	GamesWon       int
	GamesLost      int
}

func (s Standing) GameDifference() int {
	return s.GamesWon - s.GamesLost
}

type fixtureTally struct {
	fixture fixture.Fixture
	wins    map[int64]int
}

// ScoreStandings awards points per completed fixture from its game-win split.
// Only players who earned points appear in the result.
func (r Rules) ScoreStandings(fixtures []fixture.Fixture, games []game.Game) map[int64]int {
	out := make(map[int64]int)
	for _, t := range tallyFixtures(fixtures, games) {
		winnerID, loserID, winnerWins, loserWins, ok := t.split()
		if !ok {
			continue
		}
		if loserWins == 0 {
			out[winnerID] += r.Points.Shutout
			continue
		}
		out[winnerID] += r.Points.Win
		if loserWins == winnerWins-1 {
			out[loserID] += r.Points.Hill
		}
	}

	for id, pts := range out {
		if pts == 0 {
			delete(out, id)
		}
	}
	return out
}

// ScoreStandings applies the default rules.
func ScoreStandings(fixtures []fixture.Fixture, games []game.Game) map[int64]int {
	return defaultRules.ScoreStandings(fixtures, games)
}

// BuildTable ranks every player with a scored fixture: points, then game
// difference, then player id.
func (r Rules) BuildTable(fixtures []fixture.Fixture, games []game.Game) []Standing {
	points := r.ScoreStandings(fixtures, games)
	rows := make(map[int64]*Standing)
	row := func(id int64) *Standing {
		s, ok := rows[id]
		if !ok {
			s = &Standing{PlayerID: id}
			rows[id] = s
		}
		return s
	}

	for _, t := range tallyFixtures(fixtures, games) {
		winnerID, loserID, winnerWins, loserWins, ok := t.split()
		if !ok {
			continue
		}
		w, l := row(winnerID), row(loserID)
		w.FixturesPlayed++
		w.FixturesWon++
		w.GamesWon += winnerWins
		w.GamesLost += loserWins
		l.FixturesPlayed++
		l.FixturesLost++
		l.GamesWon += loserWins
		l.GamesLost += winnerWins
	}

	out := make([]Standing, 0, len(rows))
	for id, s := range rows {
		s.Points = points[id]
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.GameDifference(), a.GameDifference()); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// BuildTable applies the default rules.
func BuildTable(fixtures []fixture.Fixture, games []game.Game) []Standing {
	return defaultRules.BuildTable(fixtures, games)
}

func tallyFixtures(fixtures []fixture.Fixture, games []game.Game) []fixtureTally {
	index := make(map[int64]int, len(fixtures))
	tallies := make([]fixtureTally, 0, len(fixtures))
	for _, fx := range fixtures {
		if !fx.Completed {
			continue
		}
		if _, dup := index[fx.ID]; dup {
			continue
		}
		index[fx.ID] = len(tallies)
		tallies = append(tallies, fixtureTally{fixture: fx, wins: make(map[int64]int, 2)})
	}

	for _, g := range games {
		i, ok := index[g.FixtureID]
		if !ok {
			continue
		}
		tallies[i].wins[g.WinnerID]++
	}
	return tallies
}

// split orders the fixture's two players by game wins. ok is false when no
// games were counted or the split is level.
func (t fixtureTally) split() (winnerID, loserID int64, winnerWins, loserWins int, ok bool) {
	p1, p2 := t.fixture.Player1ID, t.fixture.Player2ID
	w1, w2 := t.wins[p1], t.wins[p2]
	if w1 == w2 {
		return 0, 0, 0, 0, false
	}
	if w1 > w2 {
		return p1, p2, w1, w2, true
	}
	return p2, p1, w2, w1, true
}
