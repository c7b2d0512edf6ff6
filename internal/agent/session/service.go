// Package session runs dialogue turns against persisted per-session state.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/scheme-assistant/server/internal/agent/graph"
	"github.com/scheme-assistant/server/internal/agent/model"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Profile is the part of a session a caller may inspect.
type Profile struct {
	Slots           model.Slots `json:"slots"`
	EligibleSchemes []string    `json:"eligible_schemes"`
}

// Service serializes turns per session; different sessions run in parallel.
type Service struct {
	runner graph.Runner
	repo   model.SessionRepository

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(runner graph.Runner, repo model.SessionRepository) *Service {
	return &Service{
		runner: runner,
		repo:   repo,
		locks:  map[string]*sessionLock{},
	}
}

// Handle runs one turn for the session and stores the result.
func (s *Service) Handle(ctx context.Context, sessionID, text string) (*model.ConversationState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is empty")
	}
	unlock := s.lock(sessionID)
	defer unlock()

	prior, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	out, err := s.runner.Invoke(ctx, model.TurnInput{
		ConversationID: sessionID,
		Text:           text,
		Prior:          prior,
	})
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", sessionID).Msg("Turn failed")
		return nil, fmt.Errorf("run turn: %w", err)
	}

	if err := s.repo.Save(ctx, sessionID, out); err != nil {
		return nil, fmt.Errorf("save session %s: %w", sessionID, err)
	}

	logx.Info().
		Str("conversation_id", sessionID).
		Str("intent", string(out.Intent)).
		Int("iteration", out.IterationCount).
		Float64("oracle_cost_usd", out.OracleCostUSD).
		Msg("Turn handled")
	return out, nil
}

// Reset forgets the session.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()
	return s.repo.Delete(ctx, sessionID)
}

// Profile returns the stored slots and eligible schemes; an unknown session
// has an empty profile.
func (s *Service) Profile(ctx context.Context, sessionID string) (Profile, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	state, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return Profile{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if state == nil {
		return Profile{Slots: model.Slots{}, EligibleSchemes: []string{}}, nil
	}
	return Profile{
		Slots:           state.Slots.Clone(),
		EligibleSchemes: append([]string{}, state.EligibleSchemes...),
	}, nil
}

// lock acquires the session's lock; the returned func releases it and drops
// the entry once nobody holds or waits for it.
func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
