package competition

import (
	"fmt"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

// GameInput is one reported game of a fixture.
type GameInput struct {
	WinnerID       int64
	LoserID        int64
	BallsRemaining int
}

// Outcome is the full effect of recording a fixture's games.
type Outcome struct {
	Fixture      fixture.Fixture
	FixturePatch fixture.Patch
	Games        []game.Game
	// Home and Away carry the ratings and games played after the last game.
	Home          player.Player
	Away          player.Player
	PlayerPatches map[int64]player.Patch
}

// Ratings returns the post-result rating of both players keyed by id.
func (o Outcome) Ratings() map[int64]int {
	return map[int64]int{
		o.Home.ID: o.Home.Rating,
		o.Away.ID: o.Away.Rating,
	}
}

// RecordResults applies games in order to the fixture's two players. Each
// game uses the experience counts current at that game, records the
// pre-game ratings, then moves both ratings and counts. The fixture goes to
// whoever won more games.
func (r Rules) RecordResults(fx fixture.Fixture, home, away player.Player, inputs []GameInput, playedAt time.Time) (Outcome, error) {
	if fx.Completed {
		return Outcome{}, fmt.Errorf("%w: fixture=%d", ErrFixtureCompleted, fx.ID)
	}
	if len(inputs) == 0 {
		return Outcome{}, fmt.Errorf("%w: fixture=%d", ErrNoGames, fx.ID)
	}
	if home.ID != fx.Player1ID || away.ID != fx.Player2ID {
		return Outcome{}, fmt.Errorf("%w: fixture=%d expects players %d and %d", ErrPlayerNotInFixture, fx.ID, fx.Player1ID, fx.Player2ID)
	}

	maxBalls := fx.Player1Weight
	if fx.Player2Weight > maxBalls {
		maxBalls = fx.Player2Weight
	}

	sides := map[int64]*player.Player{home.ID: &home, away.ID: &away}
	wins := make(map[int64]int, 2)
	games := make([]game.Game, 0, len(inputs))
	for i, in := range inputs {
		winner, okWinner := sides[in.WinnerID]
		loser, okLoser := sides[in.LoserID]
		if !okWinner || !okLoser || in.WinnerID == in.LoserID {
			return Outcome{}, fmt.Errorf("%w: fixture=%d game=%d winner=%d loser=%d", ErrPlayerNotInFixture, fx.ID, i, in.WinnerID, in.LoserID)
		}
		if in.BallsRemaining < 0 || (maxBalls > 0 && in.BallsRemaining > maxBalls) {
			return Outcome{}, fmt.Errorf("%w: game=%d balls=%d", ErrInvalidBallsRemaining, i, in.BallsRemaining)
		}

		winnerDelta, loserDelta := r.RatingChange(winner.GamesPlayed, loser.GamesPlayed, in.BallsRemaining)
		games = append(games, game.Game{
			FixtureID:          fx.ID,
			WinnerID:           winner.ID,
			LoserID:            loser.ID,
			WinnerRating:       winner.Rating,
			LoserRating:        loser.Rating,
			WinnerRatingChange: winnerDelta,
			LoserRatingChange:  loserDelta,
			BallsRemaining:     in.BallsRemaining,
			PlayedAt:           playedAt,
		})

		winner.Rating += winnerDelta
		loser.Rating += loserDelta
		winner.GamesPlayed++
		loser.GamesPlayed++
		wins[winner.ID]++
	}

	homeWins, awayWins := wins[home.ID], wins[away.ID]
	if homeWins == awayWins {
		return Outcome{}, fmt.Errorf("%w: fixture=%d split %d-%d", ErrUndecidedResult, fx.ID, homeWins, awayWins)
	}

	winnerID, loserID := home.ID, away.ID
	if awayWins > homeWins {
		winnerID, loserID = away.ID, home.ID
	}

	completed := true
	patch := fixture.Patch{
		Completed: &completed,
		WinnerID:  &winnerID,
		LoserID:   &loserID,
	}

	return Outcome{
		Fixture:      patch.Apply(fx),
		FixturePatch: patch,
		Games:        games,
		Home:         home,
		Away:         away,
		PlayerPatches: map[int64]player.Patch{
			home.ID: ratingPatch(home),
			away.ID: ratingPatch(away),
		},
	}, nil
}

// RecordResults applies the default rules.
func RecordResults(fx fixture.Fixture, home, away player.Player, inputs []GameInput, playedAt time.Time) (Outcome, error) {
	return defaultRules.RecordResults(fx, home, away, inputs, playedAt)
}

func ratingPatch(p player.Player) player.Patch {
	rating := p.Rating
	gamesPlayed := p.GamesPlayed
	return player.Patch{Rating: &rating, GamesPlayed: &gamesPlayed}
}
