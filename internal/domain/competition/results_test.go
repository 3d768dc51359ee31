package competition

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

func pendingFixture(home, away player.Player) fixture.Fixture {
	fx := DefaultRules().NewFixture(home, away, time.Date(2026, time.April, 7, 19, 0, 0, 0, time.UTC), 1, 1)
	fx.ID = 42
	return fx
}

func TestRecordResults_SequentialDeltas(t *testing.T) {
	t.Parallel()

	home := player.Player{ID: 1, Rating: 600}
	away := player.Player{ID: 2, Rating: 600}
	fx := pendingFixture(home, away)
	playedAt := time.Date(2026, time.April, 7, 21, 0, 0, 0, time.UTC)

	out, err := RecordResults(fx, home, away, []GameInput{
		{WinnerID: 1, LoserID: 2, BallsRemaining: 3},
		{WinnerID: 2, LoserID: 1, BallsRemaining: 0},
		{WinnerID: 1, LoserID: 2, BallsRemaining: 1},
	}, playedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(out.Games))
	}

	g1 := out.Games[0]
	if g1.WinnerRating != 600 || g1.LoserRating != 600 || g1.WinnerRatingChange != 21 || g1.LoserRatingChange != -21 {
		t.Fatalf("unexpected first game: %+v", g1)
	}

	// second game: both players have one game played, base floor(18*0.943)=16
	g2 := out.Games[1]
	if g2.WinnerID != 2 || g2.WinnerRating != 579 || g2.LoserRating != 621 {
		t.Fatalf("second game should carry post-first-game ratings: %+v", g2)
	}
	if g2.WinnerRatingChange != 16 || g2.LoserRatingChange != -16 {
		t.Fatalf("second game deltas should decay: %+v", g2)
	}

	g3 := out.Games[2]
	if g3.WinnerRating != 605 || g3.LoserRating != 595 {
		t.Fatalf("third game pre-ratings wrong: %+v", g3)
	}

	for _, g := range out.Games {
		if g.FixtureID != 42 || !g.PlayedAt.Equal(playedAt) {
			t.Fatalf("game not stamped with fixture and time: %+v", g)
		}
	}

	if out.Home.GamesPlayed != 3 || out.Away.GamesPlayed != 3 {
		t.Fatalf("expected games played 3/3, got %d/%d", out.Home.GamesPlayed, out.Away.GamesPlayed)
	}
	wantHome := 605 + g3.WinnerRatingChange
	wantAway := 595 + g3.LoserRatingChange
	if out.Home.Rating != wantHome || out.Away.Rating != wantAway {
		t.Fatalf("final ratings = %d/%d, want %d/%d", out.Home.Rating, out.Away.Rating, wantHome, wantAway)
	}
	if got := out.Ratings(); got[1] != wantHome || got[2] != wantAway {
		t.Fatalf("Ratings() mismatch: %v", got)
	}

	if !out.Fixture.Completed || out.Fixture.WinnerID == nil || *out.Fixture.WinnerID != 1 || *out.Fixture.LoserID != 2 {
		t.Fatalf("fixture should be completed with player 1 winning: %+v", out.Fixture)
	}
	if out.Fixture.Player1Rating != 600 || out.Fixture.Player2Rating != 600 {
		t.Fatalf("completed fixture snapshot must not move: %+v", out.Fixture)
	}

	patch := out.PlayerPatches[2]
	if patch.Rating == nil || *patch.Rating != wantAway || patch.GamesPlayed == nil || *patch.GamesPlayed != 3 {
		t.Fatalf("unexpected away patch: %+v", patch)
	}
}

func TestRecordResults_ZeroSumForEqualExperience(t *testing.T) {
	t.Parallel()

	home := player.Player{ID: 7, Rating: 720, GamesPlayed: 12}
	away := player.Player{ID: 9, Rating: 540, GamesPlayed: 12}
	fx := pendingFixture(home, away)

	out, err := RecordResults(fx, home, away, []GameInput{
		{WinnerID: 9, LoserID: 7, BallsRemaining: 5},
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Home.Rating+out.Away.Rating != 720+540 {
		t.Fatalf("rating total should be preserved, got %d", out.Home.Rating+out.Away.Rating)
	}
	if *out.Fixture.WinnerID != 9 {
		t.Fatalf("away player should win the fixture: %+v", out.Fixture)
	}
}

func TestRecordResults_Errors(t *testing.T) {
	t.Parallel()

	home := player.Player{ID: 1, Rating: 600}
	away := player.Player{ID: 2, Rating: 600}
	stranger := player.Player{ID: 3, Rating: 600}

	completed := pendingFixture(home, away)
	completed.Completed = true

	tests := []struct {
		name    string
		fx      fixture.Fixture
		home    player.Player
		away    player.Player
		inputs  []GameInput
		wantErr error
	}{
		{name: "no games", fx: pendingFixture(home, away), home: home, away: away, wantErr: ErrNoGames},
		{
			name: "already completed", fx: completed, home: home, away: away,
			inputs:  []GameInput{{WinnerID: 1, LoserID: 2}},
			wantErr: ErrFixtureCompleted,
		},
		{
			name: "wrong player record", fx: pendingFixture(home, away), home: home, away: stranger,
			inputs:  []GameInput{{WinnerID: 1, LoserID: 3}},
			wantErr: ErrPlayerNotInFixture,
		},
		{
			name: "winner outside fixture", fx: pendingFixture(home, away), home: home, away: away,
			inputs:  []GameInput{{WinnerID: 3, LoserID: 2}},
			wantErr: ErrPlayerNotInFixture,
		},
		{
			name: "winner equals loser", fx: pendingFixture(home, away), home: home, away: away,
			inputs:  []GameInput{{WinnerID: 1, LoserID: 1}},
			wantErr: ErrPlayerNotInFixture,
		},
		{
			name: "negative balls", fx: pendingFixture(home, away), home: home, away: away,
			inputs:  []GameInput{{WinnerID: 1, LoserID: 2, BallsRemaining: -1}},
			wantErr: ErrInvalidBallsRemaining,
		},
		{
			name: "balls above race length", fx: pendingFixture(home, away), home: home, away: away,
			inputs:  []GameInput{{WinnerID: 1, LoserID: 2, BallsRemaining: 9}},
			wantErr: ErrInvalidBallsRemaining,
		},
		{
			name: "level split", fx: pendingFixture(home, away), home: home, away: away,
			inputs:  []GameInput{{WinnerID: 1, LoserID: 2}, {WinnerID: 2, LoserID: 1}},
			wantErr: ErrUndecidedResult,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := RecordResults(tt.fx, tt.home, tt.away, tt.inputs, time.Now())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
