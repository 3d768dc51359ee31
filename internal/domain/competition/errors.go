package competition

import "errors"

var (
	ErrNoGames               = errors.New("fixture results require at least one game")
	ErrFixtureCompleted      = errors.New("fixture already completed")
	ErrPlayerNotInFixture    = errors.New("player is not part of fixture")
	ErrInvalidBallsRemaining = errors.New("invalid balls remaining")
	ErrUndecidedResult       = errors.New("fixture results do not produce a winner")
	ErrInvalidRules          = errors.New("invalid league rules")
)
