package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

type DivisionService struct {
	divisionRepo division.Repository
	playerRepo   player.Repository
}

func NewDivisionService(divisionRepo division.Repository, playerRepo player.Repository) *DivisionService {
	return &DivisionService{
		divisionRepo: divisionRepo,
		playerRepo:   playerRepo,
	}
}

type CreateDivisionInput struct {
	Name      string
	DayOfWeek time.Weekday
	Active    *bool
}

func (s *DivisionService) Create(ctx context.Context, input CreateDivisionInput) (division.Division, error) {
	d := division.Division{
		Name:      strings.TrimSpace(input.Name),
		DayOfWeek: input.DayOfWeek,
		Active:    boolOr(input.Active, true),
	}
	if err := d.Validate(); err != nil {
		return division.Division{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, err := s.divisionRepo.Create(ctx, d)
	if err != nil {
		return division.Division{}, fmt.Errorf("create division: %w", err)
	}
	return out, nil
}

func (s *DivisionService) Get(ctx context.Context, divisionID int64) (division.Division, error) {
	if divisionID <= 0 {
		return division.Division{}, fmt.Errorf("%w: division id is required", ErrInvalidInput)
	}

	d, exists, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		return division.Division{}, fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return division.Division{}, fmt.Errorf("%w: division=%d", ErrNotFound, divisionID)
	}
	return d, nil
}

func (s *DivisionService) List(ctx context.Context, activeOnly bool) ([]division.Division, error) {
	items, err := s.divisionRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return items, nil
}

func (s *DivisionService) Update(ctx context.Context, divisionID int64, patch division.Patch) (division.Division, error) {
	current, err := s.Get(ctx, divisionID)
	if err != nil {
		return division.Division{}, err
	}
	if patch.Name != nil {
		patch.Name = trimmedPtr(patch.Name)
	}
	if err := patch.Apply(current).Validate(); err != nil {
		return division.Division{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, exists, err := s.divisionRepo.Update(ctx, divisionID, patch)
	if err != nil {
		return division.Division{}, fmt.Errorf("update division: %w", err)
	}
	if !exists {
		return division.Division{}, fmt.Errorf("%w: division=%d", ErrNotFound, divisionID)
	}
	return out, nil
}

func (s *DivisionService) AddPlayer(ctx context.Context, divisionID, playerID int64) error {
	if _, err := s.Get(ctx, divisionID); err != nil {
		return err
	}
	if err := s.ensurePlayer(ctx, playerID); err != nil {
		return err
	}

	if err := s.divisionRepo.AddPlayer(ctx, divisionID, playerID); err != nil {
		if errors.Is(err, division.ErrDuplicateMember) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return fmt.Errorf("add division player: %w", err)
	}
	return nil
}

func (s *DivisionService) RemovePlayer(ctx context.Context, divisionID, playerID int64) error {
	if _, err := s.Get(ctx, divisionID); err != nil {
		return err
	}

	removed, err := s.divisionRepo.RemovePlayer(ctx, divisionID, playerID)
	if err != nil {
		return fmt.Errorf("remove division player: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: player=%d is not in division=%d", ErrNotFound, playerID, divisionID)
	}
	return nil
}

// ListPlayers returns the roster in player id order.
func (s *DivisionService) ListPlayers(ctx context.Context, divisionID int64) ([]player.Player, error) {
	if _, err := s.Get(ctx, divisionID); err != nil {
		return nil, err
	}
	return loadRoster(ctx, s.divisionRepo, s.playerRepo, divisionID)
}

func (s *DivisionService) ensurePlayer(ctx context.Context, playerID int64) error {
	if playerID <= 0 {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	_, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	return nil
}

func loadRoster(ctx context.Context, divisionRepo division.Repository, playerRepo player.Repository, divisionID int64) ([]player.Player, error) {
	ids, err := divisionRepo.ListPlayerIDs(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("list division player ids: %w", err)
	}
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	players, err := playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list division players: %w", err)
	}
	return players, nil
}
