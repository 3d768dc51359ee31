package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

type PlayerService struct {
	playerRepo player.Repository
	rules      competition.Rules
}

func NewPlayerService(playerRepo player.Repository, rules competition.Rules) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		rules:      rules,
	}
}

type CreatePlayerInput struct {
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	EmailNotifications *bool
	MatchReminders     *bool
}

// UpdatePlayerInput holds the profile fields a caller may change. Rating and
// games played only move through recorded results.
type UpdatePlayerInput struct {
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	EmailNotifications *bool
	MatchReminders     *bool
}

func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	p := player.Player{
		FirstName:          strings.TrimSpace(input.FirstName),
		LastName:           strings.TrimSpace(input.LastName),
		Email:              strings.TrimSpace(input.Email),
		Phone:              strings.TrimSpace(input.Phone),
		Rating:             s.rules.BaselineRating,
		EmailNotifications: boolOr(input.EmailNotifications, true),
		MatchReminders:     boolOr(input.MatchReminders, true),
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, err := s.playerRepo.Create(ctx, p)
	if err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return out, nil
}

func (s *PlayerService) Get(ctx context.Context, playerID int64) (player.Player, error) {
	if playerID <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	return p, nil
}

func (s *PlayerService) List(ctx context.Context) ([]player.Player, error) {
	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}

func (s *PlayerService) Update(ctx context.Context, playerID int64, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	current, err := s.Get(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}

	patch := player.Patch{
		FirstName:          trimmedPtr(input.FirstName),
		LastName:           trimmedPtr(input.LastName),
		Email:              trimmedPtr(input.Email),
		Phone:              trimmedPtr(input.Phone),
		EmailNotifications: input.EmailNotifications,
		MatchReminders:     input.MatchReminders,
	}
	if err := patch.Apply(current).Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, exists, err := s.playerRepo.Update(ctx, playerID, patch)
	if err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	return out, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	return &out
}
