package competition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
)

func completedFixture(id, p1, p2 int64) fixture.Fixture {
	return fixture.Fixture{ID: id, Player1ID: p1, Player2ID: p2, Completed: true}
}

func gamesFor(fixtureID, winner, loser int64, winnerWins, loserWins int) []game.Game {
	out := make([]game.Game, 0, winnerWins+loserWins)
	for i := 0; i < winnerWins; i++ {
		out = append(out, game.Game{FixtureID: fixtureID, WinnerID: winner, LoserID: loser})
	}
	for i := 0; i < loserWins; i++ {
		out = append(out, game.Game{FixtureID: fixtureID, WinnerID: loser, LoserID: winner})
	}
	return out
}

func TestScoreStandings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		split [2]int
		want  map[int64]int
	}{
		{name: "shutout", split: [2]int{3, 0}, want: map[int64]int{1: 3}},
		{name: "hill", split: [2]int{3, 2}, want: map[int64]int{1: 2, 2: 1}},
		{name: "plain win", split: [2]int{3, 1}, want: map[int64]int{1: 2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fixtures := []fixture.Fixture{completedFixture(10, 1, 2)}
			games := gamesFor(10, 1, 2, tt.split[0], tt.split[1])

			got := ScoreStandings(fixtures, games)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("points mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScoreStandings_IgnoresPendingAndForeignGames(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		completedFixture(1, 1, 2),
		{ID: 2, Player1ID: 1, Player2ID: 3},
	}
	var games []game.Game
	games = append(games, gamesFor(1, 2, 1, 3, 2)...)
	games = append(games, gamesFor(2, 1, 3, 3, 0)...)
	games = append(games, gamesFor(99, 3, 1, 3, 0)...)

	got := ScoreStandings(fixtures, games)
	want := map[int64]int{2: 2, 1: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreStandings_Accumulates(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		completedFixture(1, 1, 2),
		completedFixture(2, 2, 1),
		completedFixture(3, 1, 3),
	}
	var games []game.Game
	games = append(games, gamesFor(1, 1, 2, 3, 0)...)
	games = append(games, gamesFor(2, 2, 1, 3, 2)...)
	games = append(games, gamesFor(3, 3, 1, 3, 1)...)

	got := ScoreStandings(fixtures, games)
	want := map[int64]int{1: 4, 2: 2, 3: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTable(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		completedFixture(1, 1, 2),
		completedFixture(2, 3, 4),
		completedFixture(3, 1, 3),
	}
	var games []game.Game
	games = append(games, gamesFor(1, 1, 2, 3, 0)...)
	games = append(games, gamesFor(2, 4, 3, 3, 0)...)
	games = append(games, gamesFor(3, 3, 1, 3, 2)...)

	got := BuildTable(fixtures, games)
	want := []Standing{
		{Position: 1, PlayerID: 1, Points: 4, FixturesPlayed: 2, FixturesWon: 1, FixturesLost: 1, GamesWon: 5, GamesLost: 3},
		{Position: 2, PlayerID: 4, Points: 3, FixturesPlayed: 1, FixturesWon: 1, GamesWon: 3, GamesLost: 0},
		{Position: 3, PlayerID: 3, Points: 2, FixturesPlayed: 2, FixturesWon: 1, FixturesLost: 1, GamesWon: 3, GamesLost: 5},
		{Position: 4, PlayerID: 2, Points: 0, FixturesPlayed: 1, FixturesLost: 1, GamesWon: 0, GamesLost: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTable_TieBreaks(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		completedFixture(1, 5, 6),
		completedFixture(2, 7, 8),
	}
	var games []game.Game
	games = append(games, gamesFor(1, 6, 5, 3, 1)...)
	games = append(games, gamesFor(2, 7, 8, 3, 1)...)

	got := BuildTable(fixtures, games)
	order := []int64{got[0].PlayerID, got[1].PlayerID, got[2].PlayerID, got[3].PlayerID}
	want := []int64{6, 7, 5, 8}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
