package competition

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

func roster(n int) []player.Player {
	faker := gofakeit.New(uint64(n) + 7)
	out := make([]player.Player, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, player.Player{
			ID:        int64(i + 1),
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Rating:    faker.IntRange(400, 900),
		})
	}
	return out
}

type pairKey struct{ home, away int64 }

func TestSchedule_DoubleRoundRobinEvenRoster(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.January, 6, 19, 0, 0, 0, time.UTC)
	players := roster(4)

	fixtures := Schedule(players, start, 3, 9, true)
	if len(fixtures) != 12 {
		t.Fatalf("expected 12 fixtures, got %d", len(fixtures))
	}

	seen := make(map[pairKey]int)
	for _, fx := range fixtures {
		if fx.Player1ID == fx.Player2ID {
			t.Fatalf("player %d scheduled against itself", fx.Player1ID)
		}
		if fx.SessionID != 3 || fx.DivisionID != 9 {
			t.Fatalf("unexpected session/division on fixture: %+v", fx)
		}
		if fx.Completed || fx.WinnerID != nil {
			t.Fatalf("new fixture must be pending: %+v", fx)
		}
		seen[pairKey{fx.Player1ID, fx.Player2ID}]++
	}

	for _, a := range players {
		for _, b := range players {
			if a.ID == b.ID {
				continue
			}
			if seen[pairKey{a.ID, b.ID}] != 1 {
				t.Fatalf("expected exactly one fixture with %d home to %d, got %d", a.ID, b.ID, seen[pairKey{a.ID, b.ID}])
			}
		}
	}
}

func TestSchedule_OddRosterSkipsBye(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	players := roster(3)

	fixtures := Schedule(players, start, 1, 1, true)
	if len(fixtures) != 6 {
		t.Fatalf("expected 6 fixtures, got %d", len(fixtures))
	}

	perRound := make(map[time.Time][]int64)
	for _, fx := range fixtures {
		perRound[fx.ScheduledDate] = append(perRound[fx.ScheduledDate], fx.Player1ID, fx.Player2ID)
	}
	if len(perRound) != 6 {
		t.Fatalf("expected 6 distinct round dates, got %d", len(perRound))
	}
	for date, ids := range perRound {
		if len(ids) != 2 {
			t.Fatalf("round %s should hold one fixture and one bye, got players %v", date, ids)
		}
	}
}

func TestSchedule_SingleLeg(t *testing.T) {
	t.Parallel()

	players := roster(6)
	fixtures := Schedule(players, time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC), 1, 1, false)
	if len(fixtures) != 15 {
		t.Fatalf("expected 15 fixtures, got %d", len(fixtures))
	}

	seen := make(map[pairKey]bool)
	for _, fx := range fixtures {
		a, b := fx.Player1ID, fx.Player2ID
		if a > b {
			a, b = b, a
		}
		if seen[pairKey{a, b}] {
			t.Fatalf("pair %d-%d scheduled twice", a, b)
		}
		seen[pairKey{a, b}] = true
	}
}

func TestSchedule_TooFewPlayers(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := Schedule(nil, start, 1, 1, true); got != nil {
		t.Fatalf("expected nil for empty roster, got %d fixtures", len(got))
	}
	if got := Schedule(roster(1), start, 1, 1, true); got != nil {
		t.Fatalf("expected nil for one player, got %d fixtures", len(got))
	}
}

func TestSchedule_RoundDatesAndLegs(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.September, 1, 19, 30, 0, 0, time.UTC)
	players := roster(4)

	fixtures := Schedule(players, start, 1, 1, true)
	for i, fx := range fixtures {
		round := i / 2
		want := start.AddDate(0, 0, 7*round)
		if !fx.ScheduledDate.Equal(want) {
			t.Fatalf("fixture %d: expected date %s, got %s", i, want, fx.ScheduledDate)
		}
	}

	firstLeg, secondLeg := fixtures[:6], fixtures[6:]
	for i := range firstLeg {
		if firstLeg[i].Player1ID != secondLeg[i].Player2ID || firstLeg[i].Player2ID != secondLeg[i].Player1ID {
			t.Fatalf("second leg fixture %d should swap home and away: %+v vs %+v", i, firstLeg[i], secondLeg[i])
		}
	}
}

func TestSchedule_SnapshotsAndWeights(t *testing.T) {
	t.Parallel()

	players := []player.Player{
		{ID: 1, Rating: 775},
		{ID: 2, Rating: 600},
	}
	fixtures := Schedule(players, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 1, 1, false)
	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(fixtures))
	}

	fx := fixtures[0]
	if fx.RatingOf(1) != 775 || fx.RatingOf(2) != 600 {
		t.Fatalf("unexpected snapshots: %+v", fx)
	}
	if fx.WeightOf(1) != 9 || fx.WeightOf(2) != 6 {
		t.Fatalf("expected weights 9/6, got %d/%d", fx.WeightOf(1), fx.WeightOf(2))
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	players := roster(7)

	first := Schedule(players, start, 5, 2, true)
	second := Schedule(players, start, 5, 2, true)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("schedule not deterministic (-first +second):\n%s", diff)
	}
}
