// Package eval implements the static material evaluator used by the fallback
// search. It is intentionally material-only: no mobility, structure, or king
// safety terms. The king value dominates everything else so that lines losing
// the king are never preferred.
package eval

import (
	nchess "github.com/corentings/chess/v2"
)

const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

var pieceValues = map[nchess.PieceType]int{
	nchess.Pawn:   PawnValue,
	nchess.Knight: KnightValue,
	nchess.Bishop: BishopValue,
	nchess.Rook:   RookValue,
	nchess.Queen:  QueenValue,
	nchess.King:   KingValue,
}

// PieceValue returns the material value of a piece type, 0 for unknown types.
func PieceValue(pt nchess.PieceType) int {
	return pieceValues[pt]
}

// Material sums piece values over the board, positive for White. Pure
// function; safe to call from any goroutine.
func Material(pos *nchess.Position) int {
	if pos == nil {
		return 0
	}
	score := 0
	board := pos.Board()
	for file := nchess.FileA; file <= nchess.FileH; file++ {
		for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
			piece := board.Piece(nchess.NewSquare(file, rank))
			if piece == nchess.NoPiece {
				continue
			}
			val := pieceValues[piece.Type()]
			if piece.Color() == nchess.White {
				score += val
			} else {
				score -= val
			}
		}
	}
	return score
}

// ForSide is Material seen from one side: positive when that side is ahead.
func ForSide(pos *nchess.Position, color nchess.Color) int {
	score := Material(pos)
	if color == nchess.Black {
		return -score
	}
	return score
}
