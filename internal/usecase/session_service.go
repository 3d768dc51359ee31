package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/session"
)

type SessionService struct {
	sessionRepo session.Repository
}

func NewSessionService(sessionRepo session.Repository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

type CreateSessionInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	MatchTime string
	Active    *bool
}

func (s *SessionService) Create(ctx context.Context, input CreateSessionInput) (session.Session, error) {
	item := session.Session{
		Name:      strings.TrimSpace(input.Name),
		StartDate: input.StartDate.UTC(),
		EndDate:   input.EndDate.UTC(),
		MatchTime: strings.TrimSpace(input.MatchTime),
		Active:    boolOr(input.Active, true),
	}
	if item.MatchTime == "" {
		item.MatchTime = defaultMatchTime
	}
	if err := item.Validate(); err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, err := s.sessionRepo.Create(ctx, item)
	if err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}
	return out, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID int64) (session.Session, error) {
	if sessionID <= 0 {
		return session.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	item, exists, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return session.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return session.Session{}, fmt.Errorf("%w: session=%d", ErrNotFound, sessionID)
	}
	return item, nil
}

func (s *SessionService) List(ctx context.Context, activeOnly bool) ([]session.Session, error) {
	items, err := s.sessionRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return items, nil
}

func (s *SessionService) Update(ctx context.Context, sessionID int64, patch session.Patch) (session.Session, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if patch.Name != nil {
		patch.Name = trimmedPtr(patch.Name)
	}
	if patch.MatchTime != nil {
		patch.MatchTime = trimmedPtr(patch.MatchTime)
	}
	if err := patch.Apply(current).Validate(); err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, exists, err := s.sessionRepo.Update(ctx, sessionID, patch)
	if err != nil {
		return session.Session{}, fmt.Errorf("update session: %w", err)
	}
	if !exists {
		return session.Session{}, fmt.Errorf("%w: session=%d", ErrNotFound, sessionID)
	}
	return out, nil
}

const defaultMatchTime = "19:00"
