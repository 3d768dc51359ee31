package httpapi

import (
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	"github.com/riskibarqy/pool-league/internal/usecase"
)

type createPlayerRequest struct {
	FirstName          string `json:"first_name" validate:"required,max=100"`
	LastName           string `json:"last_name" validate:"required,max=100"`
	Email              string `json:"email" validate:"omitempty,email,max=254"`
	Phone              string `json:"phone" validate:"omitempty,max=32"`
	EmailNotifications *bool  `json:"email_notifications"`
	MatchReminders     *bool  `json:"match_reminders"`
}

type updatePlayerRequest struct {
	FirstName          *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName           *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email              *string `json:"email" validate:"omitempty,email,max=254"`
	Phone              *string `json:"phone" validate:"omitempty,max=32"`
	EmailNotifications *bool   `json:"email_notifications"`
	MatchReminders     *bool   `json:"match_reminders"`
}

type createDivisionRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	Active    *bool  `json:"active"`
}

type updateDivisionRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	DayOfWeek *int    `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	Active    *bool   `json:"active"`
}

type addDivisionPlayerRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

type createSessionRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	MatchTime string `json:"match_time" validate:"omitempty,datetime=15:04"`
	Active    *bool  `json:"active"`
}

type updateSessionRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	MatchTime *string `json:"match_time" validate:"omitempty,datetime=15:04"`
	Active    *bool   `json:"active"`
}

type scheduleSessionRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	// Double defaults to true: every pairing plays home and away.
	Double *bool `json:"double"`
}

func (r scheduleSessionRequest) double() bool {
	return r.Double == nil || *r.Double
}

type createFixtureRequest struct {
	SessionID   int64  `json:"session_id" validate:"required,gt=0"`
	DivisionID  int64  `json:"division_id" validate:"required,gt=0"`
	Player1ID   int64  `json:"player1_id" validate:"required,gt=0"`
	Player2ID   int64  `json:"player2_id" validate:"required,gt=0,nefield=Player1ID"`
	ScheduledAt string `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type gameResultRequest struct {
	WinnerID       int64 `json:"winner_id" validate:"required,gt=0"`
	LoserID        int64 `json:"loser_id" validate:"required,gt=0"`
	BallsRemaining int   `json:"balls_remaining" validate:"min=0"`
}

type recordResultsRequest struct {
	Games []gameResultRequest `json:"games" validate:"required,min=1,dive"`
}

type reminderJobRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type playerDTO struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
	GamesPlayed int    `json:"games_played"`
}

type playerAdminDTO struct {
	playerDTO
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	EmailNotifications bool      `json:"email_notifications"`
	MatchReminders     bool      `json:"match_reminders"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type divisionDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	Active    bool   `json:"active"`
}

type sessionDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	MatchTime string `json:"match_time"`
	Active    bool   `json:"active"`
}

type fixtureDTO struct {
	ID            int64     `json:"id"`
	SessionID     int64     `json:"session_id"`
	DivisionID    int64     `json:"division_id"`
	Player1ID     int64     `json:"player1_id"`
	Player2ID     int64     `json:"player2_id"`
	Player1Rating int       `json:"player1_rating"`
	Player2Rating int       `json:"player2_rating"`
	Player1Weight int       `json:"player1_weight"`
	Player2Weight int       `json:"player2_weight"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Completed     bool      `json:"completed"`
	WinnerID      *int64    `json:"winner_id,omitempty"`
	LoserID       *int64    `json:"loser_id,omitempty"`
}

type gameDTO struct {
	ID                 int64     `json:"id"`
	FixtureID          int64     `json:"fixture_id"`
	WinnerID           int64     `json:"winner_id"`
	LoserID            int64     `json:"loser_id"`
	WinnerRating       int       `json:"winner_rating"`
	LoserRating        int       `json:"loser_rating"`
	WinnerRatingChange int       `json:"winner_rating_change"`
	LoserRatingChange  int       `json:"loser_rating_change"`
	BallsRemaining     int       `json:"balls_remaining"`
	PlayedAt           time.Time `json:"played_at"`
}

type standingDTO struct {
	Position       int   `json:"position"`
	PlayerID       int64 `json:"player_id"`
	Points         int   `json:"points"`
	FixturesPlayed int   `json:"fixtures_played"`
	FixturesWon    int   `json:"fixtures_won"`
	FixturesLost   int   `json:"fixtures_lost"`
	GamesWon       int   `json:"games_won"`
	GamesLost      int   `json:"games_lost"`
	GameDifference int   `json:"game_difference"`
}

type recordedResultDTO struct {
	Fixture    fixtureDTO  `json:"fixture"`
	Games      []gameDTO   `json:"games"`
	Players    []playerDTO `json:"players"`
	Propagated int         `json:"propagated"`
}

type divisionScheduleDTO struct {
	DivisionID int64 `json:"division_id"`
	Players    int   `json:"players"`
	Fixtures   int   `json:"fixtures"`
}

type handicapDTO struct {
	RatingA int `json:"rating_a"`
	RatingB int `json:"rating_b"`
	WeightA int `json:"weight_a"`
	WeightB int `json:"weight_b"`
}

type reminderReportDTO struct {
	Date     string `json:"date"`
	Fixtures int    `json:"fixtures"`
	Sent     int    `json:"sent"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
	Marked   int    `json:"marked"`
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:          v.ID,
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		DisplayName: v.DisplayName(),
		Rating:      v.Rating,
		GamesPlayed: v.GamesPlayed,
	}
}

func playerToAdminDTO(v player.Player) playerAdminDTO {
	return playerAdminDTO{
		playerDTO:          playerToDTO(v),
		Email:              v.Email,
		Phone:              v.Phone,
		EmailNotifications: v.EmailNotifications,
		MatchReminders:     v.MatchReminders,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func divisionToDTO(v division.Division) divisionDTO {
	return divisionDTO{
		ID:        v.ID,
		Name:      v.Name,
		DayOfWeek: int(v.DayOfWeek),
		DayName:   v.DayOfWeek.String(),
		Active:    v.Active,
	}
}

func sessionToDTO(v session.Session) sessionDTO {
	return sessionDTO{
		ID:        v.ID,
		Name:      v.Name,
		StartDate: v.StartDate.Format(dateLayout),
		EndDate:   v.EndDate.Format(dateLayout),
		MatchTime: v.MatchTime,
		Active:    v.Active,
	}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:            v.ID,
		SessionID:     v.SessionID,
		DivisionID:    v.DivisionID,
		Player1ID:     v.Player1ID,
		Player2ID:     v.Player2ID,
		Player1Rating: v.Player1Rating,
		Player2Rating: v.Player2Rating,
		Player1Weight: v.Player1Weight,
		Player2Weight: v.Player2Weight,
		ScheduledAt:   v.ScheduledDate,
		Completed:     v.Completed,
		WinnerID:      v.WinnerID,
		LoserID:       v.LoserID,
	}
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item))
	}
	return out
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:                 v.ID,
		FixtureID:          v.FixtureID,
		WinnerID:           v.WinnerID,
		LoserID:            v.LoserID,
		WinnerRating:       v.WinnerRating,
		LoserRating:        v.LoserRating,
		WinnerRatingChange: v.WinnerRatingChange,
		LoserRatingChange:  v.LoserRatingChange,
		BallsRemaining:     v.BallsRemaining,
		PlayedAt:           v.PlayedAt,
	}
}

func gamesToDTO(items []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToDTO(item))
	}
	return out
}

func standingToDTO(v competition.Standing) standingDTO {
	return standingDTO{
		Position:       v.Position,
		PlayerID:       v.PlayerID,
		Points:         v.Points,
		FixturesPlayed: v.FixturesPlayed,
		FixturesWon:    v.FixturesWon,
		FixturesLost:   v.FixturesLost,
		GamesWon:       v.GamesWon,
		GamesLost:      v.GamesLost,
		GameDifference: v.GameDifference(),
	}
}

func recordedResultToDTO(v usecase.RecordedResult) recordedResultDTO {
	return recordedResultDTO{
		Fixture:    fixtureToDTO(v.Fixture),
		Games:      gamesToDTO(v.Games),
		Players:    playersToDTO(v.Players),
		Propagated: v.Propagated,
	}
}
