package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/engine/uci"
)

// Bridge selects moves by launching a fresh engine process per request. The
// short lifecycle keeps a crashed or wedged engine from poisoning later
// moves.
type Bridge struct {
	path   string
	logger *zap.Logger
}

func NewBridge(info Info, logger *zap.Logger) (*Bridge, error) {
	if info.Path == "" {
		return nil, ErrUnavailable
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Bridge{path: info.Path, logger: logger}, nil
}

// SelectMove runs one fixed-depth search against a fresh engine session and
// returns the chosen move in UCI notation.
func (b *Bridge) SelectMove(ctx context.Context, fen string, depth int) (string, error) {
	s, err := uci.NewSession(ctx, b.path)
	if err != nil {
		return "", fmt.Errorf("start engine session: %w", err)
	}
	defer s.Close()

	if err := s.EnsureReady(ctx); err != nil {
		return "", fmt.Errorf("engine not ready: %w", err)
	}
	mv, err := s.BestMove(ctx, fen, depth)
	if err != nil {
		return "", fmt.Errorf("engine search: %w", err)
	}
	b.logger.Debug("engine move selected",
		zap.String("move", mv),
		zap.Int("depth", depth))
	return mv, nil
}

func (b *Bridge) Name() string { return "engine" }
