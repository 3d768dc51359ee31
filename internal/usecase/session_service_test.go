package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/session"
)

func TestSessionService_Create(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		input     CreateSessionInput
		wantErr   error
		wantMatch string
	}{
		{
			name:      "defaults match time",
			input:     CreateSessionInput{Name: " Autumn ", StartDate: start, EndDate: start.AddDate(0, 3, 0)},
			wantMatch: "19:00",
		},
		{
			name:      "keeps explicit match time",
			input:     CreateSessionInput{Name: "Autumn", StartDate: start, EndDate: start, MatchTime: "20:15"},
			wantMatch: "20:15",
		},
		{
			name:    "end before start",
			input:   CreateSessionInput{Name: "Autumn", StartDate: start, EndDate: start.AddDate(0, 0, -1)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed match time",
			input:   CreateSessionInput{Name: "Autumn", StartDate: start, EndDate: start, MatchTime: "7pm"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank name",
			input:   CreateSessionInput{Name: "  ", StartDate: start, EndDate: start},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := NewSessionService(newLeague(t).sessions)
			got, err := svc.Create(context.Background(), tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create error: %v", err)
			}
			if got.ID == 0 || got.Name != "Autumn" || !got.Active {
				t.Fatalf("unexpected session: %+v", got)
			}
			if got.MatchTime != tc.wantMatch {
				t.Fatalf("expected match time %q, got %q", tc.wantMatch, got.MatchTime)
			}
		})
	}
}

func TestSessionService_Update(t *testing.T) {
	t.Parallel()

	l := newLeague(t)
	svc := NewSessionService(l.sessions)
	sess := l.addSession(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	inactive := false
	got, err := svc.Update(context.Background(), sess.ID, session.Patch{Active: &inactive})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Active {
		t.Fatalf("expected inactive session")
	}

	bad := "25:99"
	if _, err := svc.Update(context.Background(), sess.ID, session.Patch{MatchTime: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Update(context.Background(), 999, session.Patch{Active: &inactive}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFixtureService_Create_SnapshotsRatingsAndWeights(t *testing.T) {
	t.Parallel()

	l := newLeague(t)
	low, high := l.addPlayer(t, "low", 500), l.addPlayer(t, "high", 760)
	div := l.addDivision(t, "Open", true, low, high)
	sess := l.addSession(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	svc := NewFixtureService(l.fixtures, l.sessions, l.divisions, l.ledger, l.rules)
	when := time.Date(2026, time.September, 8, 19, 30, 0, 0, time.UTC)

	got, err := svc.Create(context.Background(), CreateFixtureInput{
		SessionID: sess.ID, DivisionID: div.ID, Player1ID: low.ID, Player2ID: high.ID, ScheduledDate: when,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	// gap 260 falls in the 10/5 tier; the home side is the weaker player.
	if got.Player1Weight != 5 || got.Player2Weight != 10 {
		t.Fatalf("expected weights 5/10, got %d/%d", got.Player1Weight, got.Player2Weight)
	}
	if got.Player1Rating != 500 || got.Player2Rating != 760 {
		t.Fatalf("expected rating snapshots 500/760, got %d/%d", got.Player1Rating, got.Player2Rating)
	}
	if got.Completed || !got.ScheduledDate.Equal(when) {
		t.Fatalf("unexpected fixture: %+v", got)
	}

	stored, err := svc.Get(context.Background(), got.ID)
	if err != nil || stored.ID != got.ID {
		t.Fatalf("expected stored fixture, got %+v err=%v", stored, err)
	}
}

func TestFixtureService_Create_Errors(t *testing.T) {
	t.Parallel()

	l := newLeague(t)
	a, b := l.addPlayer(t, "a", 600), l.addPlayer(t, "b", 600)
	div := l.addDivision(t, "Open", true, a, b)
	sess := l.addSession(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	svc := NewFixtureService(l.fixtures, l.sessions, l.divisions, l.ledger, l.rules)
	when := time.Date(2026, time.September, 8, 19, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   CreateFixtureInput
		wantErr error
	}{
		{"same player", CreateFixtureInput{SessionID: sess.ID, DivisionID: div.ID, Player1ID: a.ID, Player2ID: a.ID, ScheduledDate: when}, ErrInvalidInput},
		{"missing date", CreateFixtureInput{SessionID: sess.ID, DivisionID: div.ID, Player1ID: a.ID, Player2ID: b.ID}, ErrInvalidInput},
		{"unknown session", CreateFixtureInput{SessionID: 99, DivisionID: div.ID, Player1ID: a.ID, Player2ID: b.ID, ScheduledDate: when}, ErrNotFound},
		{"unknown division", CreateFixtureInput{SessionID: sess.ID, DivisionID: 99, Player1ID: a.ID, Player2ID: b.ID, ScheduledDate: when}, ErrNotFound},
		{"unknown player", CreateFixtureInput{SessionID: sess.ID, DivisionID: div.ID, Player1ID: a.ID, Player2ID: 99, ScheduledDate: when}, ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFixtureService_List_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	l := newLeague(t)
	svc := NewFixtureService(l.fixtures, l.sessions, l.divisions, l.ledger, l.rules)
	from := time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	if _, err := svc.List(context.Background(), fixture.Filter{From: &from, To: &to}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
