// Package provider picks moves for the AI side. A Selector prefers an
// external engine when one was found and falls back to the built-in search
// whenever a single request fails, without giving up on the engine for later
// moves.
package provider

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/rules"
	"github.com/quietpawn/gambit/internal/search"
)

// Source produces a move for the side to play in the given position.
type Source interface {
	SelectMove(ctx context.Context, fen string, depth int) (string, error)
	Name() string
}

// Move is one selected move together with the source that produced it.
type Move struct {
	UCI    string
	Source string
}

// ErrNoMove reports a position with no legal moves.
var ErrNoMove = errors.New("no legal moves in position")

// Fallback selects moves with the built-in fixed-depth search. It never
// leaves the process and therefore works with no engine installed.
type Fallback struct{}

func (Fallback) SelectMove(ctx context.Context, fen string, depth int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pos, err := rules.PositionFromFEN(fen)
	if err != nil {
		return "", fmt.Errorf("fallback search: %w", err)
	}
	mv, ok := search.Best(pos, depth)
	if !ok {
		return "", ErrNoMove
	}
	return rules.EncodeUCI(pos, &mv), nil
}

func (Fallback) Name() string { return "fallback" }

// Selector routes each request to the primary source and retries the same
// request on the fallback when the primary fails. A nil primary routes
// everything to the fallback.
type Selector struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

func NewSelector(primary, fallback Source, logger *zap.Logger) (*Selector, error) {
	if fallback == nil {
		return nil, errors.New("fallback source is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Selector{primary: primary, fallback: fallback, logger: logger}, nil
}

func (s *Selector) SelectMove(ctx context.Context, fen string, depth int) (Move, error) {
	if s.primary != nil {
		uci, err := s.primary.SelectMove(ctx, fen, depth)
		if err == nil {
			return Move{UCI: uci, Source: s.primary.Name()}, nil
		}
		s.logger.Warn("move source failed, using fallback",
			zap.String("source", s.primary.Name()),
			zap.Error(err))
	}
	uci, err := s.fallback.SelectMove(ctx, fen, depth)
	if err != nil {
		return Move{}, fmt.Errorf("fallback source: %w", err)
	}
	return Move{UCI: uci, Source: s.fallback.Name()}, nil
}
