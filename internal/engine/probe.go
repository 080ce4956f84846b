package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/engine/uci"
)

// ErrUnavailable reports that no candidate binary completed a UCI handshake.
var ErrUnavailable = errors.New("engine unavailable")

const probeTimeout = 5 * time.Second

// Locations tried after the configured path, in order. The bare name is last
// so an engine on PATH still gets picked up.
var defaultCandidates = []string{
	"/usr/bin/stockfish",
	"/usr/local/bin/stockfish",
	`C:\Program Files\Stockfish\stockfish.exe`,
	`C:\Program Files (x86)\Stockfish\stockfish.exe`,
	"stockfish",
}

// Info identifies a working engine binary.
type Info struct {
	Path string
	Name string
}

// Probe launches each candidate binary in turn and returns the first one that
// answers the UCI handshake. An explicit path, when set, is tried before the
// built-in candidates. Probing happens once at startup; a later engine
// failure falls back per move instead of re-probing.
func Probe(ctx context.Context, explicit string, logger *zap.Logger) (Info, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	candidates := make([]string, 0, len(defaultCandidates)+1)
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, defaultCandidates...)

	for _, path := range candidates {
		info, err := tryCandidate(ctx, path)
		if err != nil {
			logger.Debug("engine candidate rejected", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("engine found", zap.String("path", info.Path), zap.String("name", info.Name))
		return info, nil
	}
	return Info{}, ErrUnavailable
}

func tryCandidate(ctx context.Context, path string) (Info, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	s, err := uci.NewSession(probeCtx, path)
	if err != nil {
		return Info{}, err
	}
	info := Info{Path: path, Name: s.EngineName()}
	// The handshake already proved the binary works; a noisy exit on quit
	// does not disqualify it.
	_ = s.Close()
	return info, nil
}
