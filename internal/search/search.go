// Package search implements the fallback move selector: fixed-depth negamax
// with alpha-beta pruning over the material evaluator. It has no move
// ordering, no transposition cache, and no mate bonus; depth is capped low
// enough that the exponential tree stays cheap, and the selector only has to
// be sensible, not strong.
package search

import (
	nchess "github.com/corentings/chess/v2"

	"github.com/quietpawn/gambit/internal/eval"
)

// Depth window supported by the fallback search.
const (
	MinDepth = 1
	MaxDepth = 3
)

const infinity = 1_000_000_000

// ClampDepth forces d into the supported window.
func ClampDepth(d int) int {
	if d < MinDepth {
		return MinDepth
	}
	if d > MaxDepth {
		return MaxDepth
	}
	return d
}

// Best returns the move maximizing the negamax score for the side to move,
// searching depth plies. Every root child is searched with a full window, and
// only a strictly better score replaces the running best, so ties keep the
// first move in generation order. ok is false when no legal move exists;
// callers are expected to have checked for game over already.
func Best(pos *nchess.Position, depth int) (mv nchess.Move, ok bool) {
	if pos == nil {
		return nchess.Move{}, false
	}
	depth = ClampDepth(depth)
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nchess.Move{}, false
	}
	sign := signFor(pos.Turn())
	best := -infinity
	bestIdx := 0
	for i := range moves {
		child := pos.Update(&moves[i])
		val := -negamax(child, depth-1, -infinity, infinity, -sign)
		if val > best {
			best = val
			bestIdx = i
		}
	}
	return moves[bestIdx], true
}

// negamax scores pos from the perspective tracked by sign (+1 when the side
// to move at the root is also to move here). A leaf, whether depth ran out or
// no legal move exists, scores as plain material; checkmate is not
// special-cased.
func negamax(pos *nchess.Position, depth, alpha, beta, sign int) int {
	if depth == 0 {
		return sign * eval.Material(pos)
	}
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return sign * eval.Material(pos)
	}
	max := -infinity
	for i := range moves {
		child := pos.Update(&moves[i])
		val := -negamax(child, depth-1, -beta, -alpha, -sign)
		if val > max {
			max = val
		}
		if val > alpha {
			alpha = val
		}
		if alpha >= beta {
			break
		}
	}
	return max
}

func signFor(c nchess.Color) int {
	if c == nchess.White {
		return 1
	}
	return -1
}
