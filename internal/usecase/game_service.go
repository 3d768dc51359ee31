package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/pool-league/internal/domain/game"
)

type GameService struct {
	gameRepo game.Repository
}

func NewGameService(gameRepo game.Repository) *GameService {
	return &GameService{gameRepo: gameRepo}
}

func (s *GameService) List(ctx context.Context, filter game.Filter) ([]game.Game, error) {
	items, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return items, nil
}
