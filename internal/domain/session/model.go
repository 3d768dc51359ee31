package session

import (
	"fmt"
	"strings"
	"time"
)

const matchTimeLayout = "15:04"

// Session is one season of play, e.g. "Spring 2026".
type Session struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	// MatchTime is the local start time, HH:MM.
	MatchTime string
	Active    bool
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("session name is required")
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return fmt.Errorf("session start and end dates are required")
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("session end date must not be before start date")
	}
	if _, err := time.Parse(matchTimeLayout, s.MatchTime); err != nil {
		return fmt.Errorf("session match time must be HH:MM: %w", err)
	}

	return nil
}

type Patch struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	MatchTime *string
	Active    *bool
}

func (p Patch) Apply(s Session) Session {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.StartDate != nil {
		s.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		s.EndDate = *p.EndDate
	}
	if p.MatchTime != nil {
		s.MatchTime = *p.MatchTime
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
	return s
}
