package memory

import (
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
)

type seedPlayer struct {
	first, last, email string
	rating            int
}

var demoPlayers = []seedPlayer{
	{first: "Ava", last: "Lindqvist", email: "ava@example.com", rating: 640},
	{first: "Ben", last: "Okafor", email: "ben@example.com", rating: 600},
	{first: "Carla", last: "Reyes", email: "carla@example.com", rating: 585},
	{first: "Dmitri", last: "Volkov", email: "", rating: 720},
	{first: "Emi", last: "Tanaka", email: "emi@example.com", rating: 555},
	{first: "Farid", last: "Haddad", email: "farid@example.com", rating: 610},
}

// SeedDemo loads a small league: six players in one active Tuesday division
// and an active session starting on the next Tuesday after now.
func SeedDemo(store *Store, now time.Time) {
	start := nextWeekday(now.UTC().Truncate(24*time.Hour), time.Tuesday)

	store.write(func(a *arena) {
		stamp := store.timestamp()

		a.seq.division++
		divisionID := a.seq.division
		a.divisions[divisionID] = division.Division{ID: divisionID, Name: "Tuesday Open", DayOfWeek: time.Tuesday, Active: true}
		a.members[divisionID] = make(map[int64]struct{})

		for _, sp := range demoPlayers {
			a.seq.player++
			p := player.Player{
				ID:                 a.seq.player,
				FirstName:          sp.first,
				LastName:           sp.last,
				Email:              sp.email,
				Rating:             sp.rating,
				EmailNotifications: sp.email != "",
				MatchReminders:     true,
				CreatedAt:          stamp,
				UpdatedAt:          stamp,
			}
			a.players[p.ID] = p
			a.members[divisionID][p.ID] = struct{}{}
		}

		a.seq.session++
		a.sessions[a.seq.session] = session.Session{
			ID:        a.seq.session,
			Name:      "Demo Session",
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 7*10),
			MatchTime: "19:30",
			Active:    true,
		}
	})
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}
