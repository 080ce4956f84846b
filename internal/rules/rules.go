// Package rules adapts the chess rules library for the session manager: legal
// move queries, validated pushes in UCI notation, terminal classification in
// the fixed display priority, and replay-derived projections (SAN history,
// capture tallies). Nothing outside this package inspects positions beyond
// what the adapter exposes.
package rules

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// StartingFEN is the initial position every session begins from.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrIllegalMove = errors.New("rules: move is not legal in this position")

// Termination classifies a finished game. The order of the constants is the
// display priority: when several conditions hold at once, the smallest
// non-zero value is reported.
type Termination int

const (
	TerminationNone Termination = iota
	TerminationCheckmate
	TerminationStalemate
	TerminationInsufficientMaterial
	TerminationThreefoldRepetition
	TerminationFiftyMoveRule
)

func (t Termination) String() string {
	switch t {
	case TerminationCheckmate:
		return "checkmate"
	case TerminationStalemate:
		return "stalemate"
	case TerminationInsufficientMaterial:
		return "insufficient material"
	case TerminationThreefoldRepetition:
		return "threefold repetition"
	case TerminationFiftyMoveRule:
		return "fifty-move rule"
	default:
		return "none"
	}
}

// Game couples a library game with the UCI move history the session persists.
// Not safe for concurrent use; the session manager owns it on one side.
type Game struct {
	inner *nchess.Game
	moves []string
}

func NewGame() *Game {
	return &Game{inner: nchess.NewGame()}
}

// Restore replays a UCI move list from the initial position. Any move that
// fails to decode or is illegal where it appears aborts the replay.
func Restore(movesUCI []string) (*Game, error) {
	g := NewGame()
	for _, mv := range movesUCI {
		if err := g.PushUCI(mv); err != nil {
			return nil, fmt.Errorf("replay move %q: %w", mv, err)
		}
	}
	return g, nil
}

func (g *Game) Position() *nchess.Position { return g.inner.Position() }

func (g *Game) Turn() nchess.Color { return g.inner.Position().Turn() }

func (g *Game) FEN() string { return g.inner.FEN() }

func (g *Game) MoveCount() int { return len(g.moves) }

// MovesUCI returns a copy of the move history in UCI notation.
func (g *Game) MovesUCI() []string {
	return append([]string(nil), g.moves...)
}

func (g *Game) LegalMoves() []nchess.Move { return g.inner.ValidMoves() }

func (g *Game) PieceAt(sq nchess.Square) nchess.Piece {
	return g.inner.Position().Board().Piece(sq)
}

// TargetsFrom returns the destinations of every legal move starting at sq,
// in generation order. Empty when the square has no movable piece.
func (g *Game) TargetsFrom(sq nchess.Square) []nchess.Square {
	var targets []nchess.Square
	for _, mv := range g.inner.ValidMoves() {
		if mv.S1() == sq {
			targets = append(targets, mv.S2())
		}
	}
	return targets
}

// FindMove resolves an (origin, destination) pair against the legal moves.
// When several promotions match, the queen promotion wins; no promotion
// picker is offered, so pawns always promote to the strongest piece.
func (g *Game) FindMove(from, to nchess.Square) (nchess.Move, bool) {
	moves := g.inner.ValidMoves()
	found := -1
	for i := range moves {
		if moves[i].S1() != from || moves[i].S2() != to {
			continue
		}
		if moves[i].Promo() == nchess.Queen {
			return moves[i], true
		}
		if found == -1 {
			found = i
		}
	}
	if found == -1 {
		return nchess.Move{}, false
	}
	return moves[found], true
}

// Push applies a legal move and appends its UCI encoding to the history.
func (g *Game) Push(mv *nchess.Move) error {
	uci := nchess.UCINotation{}.Encode(g.inner.Position(), mv)
	if err := g.inner.Move(mv, nil); err != nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	g.moves = append(g.moves, uci)
	return nil
}

// PushUCI decodes s against the current position and applies it.
func (g *Game) PushUCI(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	move, err := nchess.UCINotation{}.Decode(g.inner.Position(), s)
	if err != nil {
		return fmt.Errorf("decode move %q: %w", s, err)
	}
	if err := g.inner.Move(move, nil); err != nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}
	g.moves = append(g.moves, s)
	return nil
}

// Terminal reports how the game ended, or TerminationNone while it is live.
// Claimable draws (threefold repetition, fifty-move rule) are claimed
// automatically as soon as they become available, repetition first.
func (g *Game) Terminal() Termination {
	if g.inner.Outcome() == nchess.NoOutcome {
		claim := nchess.NoMethod
		for _, m := range g.inner.EligibleDraws() {
			if m == nchess.ThreefoldRepetition {
				claim = m
				break
			}
			if m == nchess.FiftyMoveRule && claim == nchess.NoMethod {
				claim = m
			}
		}
		if claim == nchess.NoMethod {
			return TerminationNone
		}
		if err := g.inner.Draw(claim); err != nil {
			return TerminationNone
		}
	}
	switch g.inner.Method() {
	case nchess.Checkmate:
		return TerminationCheckmate
	case nchess.Stalemate:
		return TerminationStalemate
	case nchess.InsufficientMaterial:
		return TerminationInsufficientMaterial
	case nchess.ThreefoldRepetition, nchess.FivefoldRepetition:
		return TerminationThreefoldRepetition
	case nchess.FiftyMoveRule, nchess.SeventyFiveMoveRule:
		return TerminationFiftyMoveRule
	default:
		return TerminationNone
	}
}

// Result returns the PGN result string: "*", "1-0", "0-1" or "1/2-1/2".
func (g *Game) Result() string { return g.inner.Outcome().String() }

// Winner reports the winning color for decisive results.
func (g *Game) Winner() (nchess.Color, bool) {
	switch g.inner.Outcome() {
	case nchess.WhiteWon:
		return nchess.White, true
	case nchess.BlackWon:
		return nchess.Black, true
	default:
		return nchess.NoColor, false
	}
}

// SAN renders the history in algebraic notation by walking the stored
// positions alongside the moves.
func (g *Game) SAN() []string {
	moves := g.inner.Moves()
	positions := g.inner.Positions()
	san := make([]string, len(moves))
	notation := nchess.AlgebraicNotation{}
	for i, mv := range moves {
		if i < len(positions) {
			san[i] = notation.Encode(positions[i], mv)
		}
	}
	return san
}

// Captured returns the piece codes each side has captured so far, in capture
// order. Codes follow the FEN letter convention: pieces captured by White are
// Black's and appear lowercase, pieces captured by Black appear uppercase.
func (g *Game) Captured() (byWhite, byBlack string) {
	moves := g.inner.Moves()
	positions := g.inner.Positions()
	var white, black strings.Builder
	for i, mv := range moves {
		if i >= len(positions) {
			break
		}
		if !mv.HasTag(nchess.Capture) && !mv.HasTag(nchess.EnPassant) {
			continue
		}
		pos := positions[i]
		captureSquare := mv.S2()
		if mv.HasTag(nchess.EnPassant) {
			file := mv.S2().File()
			rank := mv.S2().Rank()
			if pos.Turn() == nchess.White {
				captureSquare = nchess.NewSquare(file, rank-1)
			} else {
				captureSquare = nchess.NewSquare(file, rank+1)
			}
		}
		victim := pos.Board().Piece(captureSquare)
		if victim == nchess.NoPiece || victim.Type() == nchess.King {
			continue
		}
		code := PieceCode(victim.Type())
		if pos.Turn() == nchess.White {
			white.WriteString(code)
		} else {
			black.WriteString(strings.ToUpper(code))
		}
	}
	return white.String(), black.String()
}

// PieceCode returns the lowercase FEN letter for a piece type.
func PieceCode(pt nchess.PieceType) string {
	switch pt {
	case nchess.Pawn:
		return "p"
	case nchess.Knight:
		return "n"
	case nchess.Bishop:
		return "b"
	case nchess.Rook:
		return "r"
	case nchess.Queen:
		return "q"
	case nchess.King:
		return "k"
	default:
		return ""
	}
}

// PieceTypeFromCode parses a single piece-code character, either case.
func PieceTypeFromCode(c rune) (nchess.PieceType, bool) {
	switch c {
	case 'p', 'P':
		return nchess.Pawn, true
	case 'n', 'N':
		return nchess.Knight, true
	case 'b', 'B':
		return nchess.Bishop, true
	case 'r', 'R':
		return nchess.Rook, true
	case 'q', 'Q':
		return nchess.Queen, true
	case 'k', 'K':
		return nchess.King, true
	default:
		return nchess.NoPieceType, false
	}
}

// PositionFromFEN builds a standalone position from its FEN encoding.
func PositionFromFEN(fen string) (*nchess.Position, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return nchess.NewGame(opt).Position(), nil
}

// EncodeUCI renders a move in UCI notation for the given position.
func EncodeUCI(pos *nchess.Position, mv *nchess.Move) string {
	return nchess.UCINotation{}.Encode(pos, mv)
}

// ParseSquare maps an algebraic square name ("e2") to a square.
func ParseSquare(s string) (nchess.Square, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return 0, false
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}
	return nchess.NewSquare(nchess.File(file), nchess.Rank(rank)), true
}
