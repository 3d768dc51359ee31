package player

import (
	"fmt"
	"strings"
	"time"
)

// Player is a league member with a live skill rating.
type Player struct {
	ID                 int64
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Rating             int
	GamesPlayed        int
	EmailNotifications bool
	MatchReminders     bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p Player) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// WantsReminders reports whether a match reminder can be delivered to the player.
func (p Player) WantsReminders() bool {
	return p.MatchReminders && p.EmailNotifications && strings.TrimSpace(p.Email) != ""
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("player first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("player last name is required")
	}
	if p.Rating < 0 {
		return fmt.Errorf("player rating must be >= 0")
	}
	if p.GamesPlayed < 0 {
		return fmt.Errorf("player games played must be >= 0")
	}

	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	Rating             *int
	GamesPlayed        *int
	EmailNotifications *bool
	MatchReminders     *bool
}

func (p Patch) IsEmpty() bool {
	return p.FirstName == nil &&
		p.LastName == nil &&
		p.Email == nil &&
		p.Phone == nil &&
		p.Rating == nil &&
		p.GamesPlayed == nil &&
		p.EmailNotifications == nil &&
		p.MatchReminders == nil
}

// Apply returns a copy of pl with the patch fields set.
func (p Patch) Apply(pl Player) Player {
	if p.FirstName != nil {
		pl.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		pl.LastName = *p.LastName
	}
	if p.Email != nil {
		pl.Email = *p.Email
	}
	if p.Phone != nil {
		pl.Phone = *p.Phone
	}
	if p.Rating != nil {
		pl.Rating = *p.Rating
	}
	if p.GamesPlayed != nil {
		pl.GamesPlayed = *p.GamesPlayed
	}
	if p.EmailNotifications != nil {
		pl.EmailNotifications = *p.EmailNotifications
	}
	if p.MatchReminders != nil {
		pl.MatchReminders = *p.MatchReminders
	}
	return pl
}
