package fixture

import (
	"fmt"
	"time"
)

// Fixture is a scheduled one-on-one pairing. Player1 is the home side.
type Fixture struct {
	ID            int64
	SessionID     int64
	DivisionID    int64
	Player1ID     int64
	Player2ID     int64
	Player1Rating int
	Player2Rating int
	Player1Weight int
	Player2Weight int
	ScheduledDate time.Time
	Completed     bool
	ReminderSent  bool
	WinnerID      *int64
	LoserID       *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (f Fixture) Involves(playerID int64) bool {
	return f.Player1ID == playerID || f.Player2ID == playerID
}

// Opponent returns the other side of the pairing, or false if playerID is not in it.
func (f Fixture) Opponent(playerID int64) (int64, bool) {
	switch playerID {
	case f.Player1ID:
		return f.Player2ID, true
	case f.Player2ID:
		return f.Player1ID, true
	default:
		return 0, false
	}
}

func (f Fixture) RatingOf(playerID int64) int {
	if playerID == f.Player1ID {
		return f.Player1Rating
	}
	return f.Player2Rating
}

func (f Fixture) WeightOf(playerID int64) int {
	if playerID == f.Player1ID {
		return f.Player1Weight
	}
	return f.Player2Weight
}

func (f Fixture) Validate() error {
	if f.DivisionID <= 0 {
		return fmt.Errorf("fixture division id is required")
	}
	if f.Player1ID <= 0 || f.Player2ID <= 0 {
		return fmt.Errorf("fixture players are required")
	}
	if f.Player1ID == f.Player2ID {
		return fmt.Errorf("fixture players must differ")
	}
	if f.ScheduledDate.IsZero() {
		return fmt.Errorf("fixture scheduled date is required")
	}
	if f.Completed && (f.WinnerID == nil || f.LoserID == nil) {
		return fmt.Errorf("completed fixture requires winner and loser")
	}

	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Player1Rating *int
	Player2Rating *int
	ScheduledDate *time.Time
	Completed     *bool
	ReminderSent  *bool
	WinnerID      *int64
	LoserID       *int64
}

func (p Patch) IsEmpty() bool {
	return p.Player1Rating == nil &&
		p.Player2Rating == nil &&
		p.ScheduledDate == nil &&
		p.Completed == nil &&
		p.ReminderSent == nil &&
		p.WinnerID == nil &&
		p.LoserID == nil
}

// Apply returns a copy of f with the patch fields set.
func (p Patch) Apply(f Fixture) Fixture {
	if p.Player1Rating != nil {
		f.Player1Rating = *p.Player1Rating
	}
	if p.Player2Rating != nil {
		f.Player2Rating = *p.Player2Rating
	}
	if p.ScheduledDate != nil {
		f.ScheduledDate = *p.ScheduledDate
	}
	if p.Completed != nil {
		f.Completed = *p.Completed
	}
	if p.ReminderSent != nil {
		f.ReminderSent = *p.ReminderSent
	}
	if p.WinnerID != nil {
		id := *p.WinnerID
		f.WinnerID = &id
	}
	if p.LoserID != nil {
		id := *p.LoserID
		f.LoserID = &id
	}
	return f
}

// Filter narrows fixture listings. Zero-valued fields match everything.
type Filter struct {
	SessionID  *int64
	DivisionID *int64
	PlayerID   *int64
	Completed  *bool
	From       *time.Time
	// To is exclusive.
	To *time.Time
}

func (f Filter) Match(fx Fixture) bool {
	if f.SessionID != nil && fx.SessionID != *f.SessionID {
		return false
	}
	if f.DivisionID != nil && fx.DivisionID != *f.DivisionID {
		return false
	}
	if f.PlayerID != nil && !fx.Involves(*f.PlayerID) {
		return false
	}
	if f.Completed != nil && fx.Completed != *f.Completed {
		return false
	}
	if f.From != nil && fx.ScheduledDate.Before(*f.From) {
		return false
	}
	if f.To != nil && !fx.ScheduledDate.Before(*f.To) {
		return false
	}
	return true
}
