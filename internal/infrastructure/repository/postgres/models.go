package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
)

type playerTableModel struct {
	ID                 int64     `db:"id"`
	FirstName          string    `db:"first_name"`
	LastName           string    `db:"last_name"`
	Email              string    `db:"email"`
	Phone              string    `db:"phone"`
	Rating             int       `db:"rating"`
	GamesPlayed        int       `db:"games_played"`
	EmailNotifications bool      `db:"email_notifications"`
	MatchReminders     bool      `db:"match_reminders"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	FirstName          string `db:"first_name"`
	LastName           string `db:"last_name"`
	Email              string `db:"email"`
	Phone              string `db:"phone"`
	Rating             int    `db:"rating"`
	GamesPlayed        int    `db:"games_played"`
	EmailNotifications bool   `db:"email_notifications"`
	MatchReminders     bool   `db:"match_reminders"`
}

var playerSelectColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone",
	"rating",
	"games_played",
	"email_notifications",
	"match_reminders",
	"created_at",
	"updated_at",
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:                 row.ID,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Email:              row.Email,
		Phone:              row.Phone,
		Rating:             row.Rating,
		GamesPlayed:        row.GamesPlayed,
		EmailNotifications: row.EmailNotifications,
		MatchReminders:     row.MatchReminders,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type divisionTableModel struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	DayOfWeek int    `db:"day_of_week"`
	Active    bool   `db:"active"`
}

type divisionInsertModel struct {
	Name      string `db:"name"`
	DayOfWeek int    `db:"day_of_week"`
	Active    bool   `db:"active"`
}

var divisionSelectColumns = []string{"id", "name", "day_of_week", "active"}

func divisionFromRow(row divisionTableModel) division.Division {
	return division.Division{
		ID:        row.ID,
		Name:      row.Name,
		DayOfWeek: time.Weekday(row.DayOfWeek),
		Active:    row.Active,
	}
}

type sessionTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	MatchTime string    `db:"match_time"`
	Active    bool      `db:"active"`
}

type sessionInsertModel struct {
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	MatchTime string    `db:"match_time"`
	Active    bool      `db:"active"`
}

var sessionSelectColumns = []string{"id", "name", "start_date", "end_date", "match_time", "active"}

func sessionFromRow(row sessionTableModel) session.Session {
	return session.Session{
		ID:        row.ID,
		Name:      row.Name,
		StartDate: row.StartDate.UTC(),
		EndDate:   row.EndDate.UTC(),
		MatchTime: row.MatchTime,
		Active:    row.Active,
	}
}

type fixtureTableModel struct {
	ID            int64         `db:"id"`
	SessionID     int64         `db:"session_id"`
	DivisionID    int64         `db:"division_id"`
	Player1ID     int64         `db:"player1_id"`
	Player2ID     int64         `db:"player2_id"`
	Player1Rating int           `db:"player1_rating"`
	Player2Rating int           `db:"player2_rating"`
	Player1Weight int           `db:"player1_weight"`
	Player2Weight int           `db:"player2_weight"`
	ScheduledDate time.Time     `db:"scheduled_date"`
	Completed     bool          `db:"completed"`
	ReminderSent  bool          `db:"reminder_sent"`
	WinnerID      sql.NullInt64 `db:"winner_id"`
	LoserID       sql.NullInt64 `db:"loser_id"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type fixtureInsertModel struct {
	SessionID     int64         `db:"session_id"`
	DivisionID    int64         `db:"division_id"`
	Player1ID     int64         `db:"player1_id"`
	Player2ID     int64         `db:"player2_id"`
	Player1Rating int           `db:"player1_rating"`
	Player2Rating int           `db:"player2_rating"`
	Player1Weight int           `db:"player1_weight"`
	Player2Weight int           `db:"player2_weight"`
	ScheduledDate time.Time     `db:"scheduled_date"`
	Completed     bool          `db:"completed"`
	ReminderSent  bool          `db:"reminder_sent"`
	WinnerID      sql.NullInt64 `db:"winner_id"`
	LoserID       sql.NullInt64 `db:"loser_id"`
}

var fixtureSelectColumns = []string{
	"id",
	"session_id",
	"division_id",
	"player1_id",
	"player2_id",
	"player1_rating",
	"player2_rating",
	"player1_weight",
	"player2_weight",
	"scheduled_date",
	"completed",
	"reminder_sent",
	"winner_id",
	"loser_id",
	"created_at",
	"updated_at",
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:            row.ID,
		SessionID:     row.SessionID,
		DivisionID:    row.DivisionID,
		Player1ID:     row.Player1ID,
		Player2ID:     row.Player2ID,
		Player1Rating: row.Player1Rating,
		Player2Rating: row.Player2Rating,
		Player1Weight: row.Player1Weight,
		Player2Weight: row.Player2Weight,
		ScheduledDate: row.ScheduledDate.UTC(),
		Completed:     row.Completed,
		ReminderSent:  row.ReminderSent,
		WinnerID:      nullInt64Ptr(row.WinnerID),
		LoserID:       nullInt64Ptr(row.LoserID),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func fixtureInsertFrom(f fixture.Fixture) fixtureInsertModel {
	return fixtureInsertModel{
		SessionID:     f.SessionID,
		DivisionID:    f.DivisionID,
		Player1ID:     f.Player1ID,
		Player2ID:     f.Player2ID,
		Player1Rating: f.Player1Rating,
		Player2Rating: f.Player2Rating,
		Player1Weight: f.Player1Weight,
		Player2Weight: f.Player2Weight,
		ScheduledDate: f.ScheduledDate.UTC(),
		Completed:     f.Completed,
		ReminderSent:  f.ReminderSent,
		WinnerID:      int64PtrToNull(f.WinnerID),
		LoserID:       int64PtrToNull(f.LoserID),
	}
}

type gameTableModel struct {
	ID                 int64     `db:"id"`
	FixtureID          int64     `db:"fixture_id"`
	WinnerID           int64     `db:"winner_id"`
	LoserID            int64     `db:"loser_id"`
	WinnerRating       int       `db:"winner_rating"`
	LoserRating        int       `db:"loser_rating"`
	WinnerRatingChange int       `db:"winner_rating_change"`
	LoserRatingChange  int       `db:"loser_rating_change"`
	BallsRemaining     int       `db:"balls_remaining"`
	PlayedAt           time.Time `db:"played_at"`
}

type gameInsertModel struct {
	FixtureID          int64     `db:"fixture_id"`
	WinnerID           int64     `db:"winner_id"`
	LoserID            int64     `db:"loser_id"`
	WinnerRating       int       `db:"winner_rating"`
	LoserRating        int       `db:"loser_rating"`
	WinnerRatingChange int       `db:"winner_rating_change"`
	LoserRatingChange  int       `db:"loser_rating_change"`
	BallsRemaining     int       `db:"balls_remaining"`
	PlayedAt           time.Time `db:"played_at"`
}

var gameSelectColumns = []string{
	"id",
	"fixture_id",
	"winner_id",
	"loser_id",
	"winner_rating",
	"loser_rating",
	"winner_rating_change",
	"loser_rating_change",
	"balls_remaining",
	"played_at",
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:                 row.ID,
		FixtureID:          row.FixtureID,
		WinnerID:           row.WinnerID,
		LoserID:            row.LoserID,
		WinnerRating:       row.WinnerRating,
		LoserRating:        row.LoserRating,
		WinnerRatingChange: row.WinnerRatingChange,
		LoserRatingChange:  row.LoserRatingChange,
		BallsRemaining:     row.BallsRemaining,
		PlayedAt:           row.PlayedAt,
	}
}

func gameInsertFrom(g game.Game) gameInsertModel {
	return gameInsertModel{
		FixtureID:          g.FixtureID,
		WinnerID:           g.WinnerID,
		LoserID:            g.LoserID,
		WinnerRating:       g.WinnerRating,
		LoserRating:        g.LoserRating,
		WinnerRatingChange: g.WinnerRatingChange,
		LoserRatingChange:  g.LoserRatingChange,
		BallsRemaining:     g.BallsRemaining,
		PlayedAt:           g.PlayedAt.UTC(),
	}
}
