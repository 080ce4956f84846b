package eval

import (
	"strings"
	"testing"
	"unicode"

	nchess "github.com/corentings/chess/v2"
)

func positionFromFEN(t *testing.T, fen string) *nchess.Position {
	t.Helper()
	opt, err := nchess.FEN(fen)
	if err != nil {
		t.Fatalf("parse fen %q: %v", fen, err)
	}
	return nchess.NewGame(opt).Position()
}

func swapCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mirrorFEN flips the position vertically and swaps colors, producing the
// color-mirrored position used by the zero-sum property.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		t.Fatalf("unexpected fen %q", fen)
	}
	ranks := strings.Split(parts[0], "/")
	flipped := make([]string, 0, len(ranks))
	for i := len(ranks) - 1; i >= 0; i-- {
		flipped = append(flipped, swapCase(ranks[i]))
	}
	turn := "w"
	if parts[1] == "w" {
		turn = "b"
	}
	castling := parts[2]
	if castling != "-" {
		swapped := swapCase(castling)
		var ordered strings.Builder
		for _, r := range "KQkq" {
			if strings.ContainsRune(swapped, r) {
				ordered.WriteRune(r)
			}
		}
		castling = ordered.String()
	}
	ep := parts[3]
	if ep != "-" {
		rank := byte('3')
		if ep[1] == '3' {
			rank = '6'
		}
		ep = string([]byte{ep[0], rank})
	}
	return strings.Join([]string{strings.Join(flipped, "/"), turn, castling, ep, parts[4], parts[5]}, " ")
}

func TestMaterialKnownPositions(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want int
	}{
		{"start position", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 0},
		{"black queen up", "8/8/8/3q4/8/8/8/2K1k3 w - - 0 1", -QueenValue},
		{"white pawn up", "8/8/8/8/8/8/P7/K6k w - - 0 1", PawnValue},
		{"minor imbalance", "8/8/2n5/8/8/5B2/8/K6k w - - 0 1", BishopValue - KnightValue},
		{"rook for knight", "8/8/2n5/8/8/8/R7/K6k b - - 0 1", RookValue - KnightValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Material(positionFromFEN(t, tc.fen))
			if got != tc.want {
				t.Fatalf("Material(%s) = %d, want %d", tc.fen, got, tc.want)
			}
		})
	}
}

func TestMaterialZeroSumUnderMirror(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"8/8/8/3q4/8/8/8/2K1k3 w - - 0 1",
		"4k3/8/8/8/3P4/2N5/8/4K2R w K - 0 1",
	}
	for _, fen := range fens {
		pos := positionFromFEN(t, fen)
		mirrored := positionFromFEN(t, mirrorFEN(t, fen))
		if got, want := Material(mirrored), -Material(pos); got != want {
			t.Fatalf("mirror of %q scored %d, want %d", fen, got, want)
		}
	}
}

func TestForSide(t *testing.T) {
	pos := positionFromFEN(t, "8/8/8/3q4/8/8/8/2K1k3 w - - 0 1")
	if got := ForSide(pos, nchess.White); got != -QueenValue {
		t.Fatalf("ForSide(white) = %d, want %d", got, -QueenValue)
	}
	if got := ForSide(pos, nchess.Black); got != QueenValue {
		t.Fatalf("ForSide(black) = %d, want %d", got, QueenValue)
	}
}
