package termview

import (
	"strings"
	"testing"

	"github.com/quietpawn/gambit/internal/rules"
	"github.com/quietpawn/gambit/pkg/sessiondto"
)

func TestBoardDrawsStartingPosition(t *testing.T) {
	f := NewFormatter()
	out := f.Board(sessiondto.View{FEN: rules.StartingFEN})

	for _, want := range []string{
		"8 | r  n  b  q  k  b  n  r |",
		"5 | .  .  .  .  .  .  .  . |",
		"1 | R  N  B  Q  K  B  N  R |",
		boardFiles,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("board missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 11 {
		t.Fatalf("board has %d lines, want 11:\n%s", got, out)
	}
}

func TestBoardMarksSelectionAndTargets(t *testing.T) {
	f := NewFormatter()
	out := f.Board(sessiondto.View{
		FEN:      rules.StartingFEN,
		Selected: "e2",
		Targets:  []string{"e3", "e4"},
	})

	for _, want := range []string{
		"2 | P  P  P  P [P] P  P  P |",
		"3 | .  .  .  .  *  .  .  . |",
		"4 | .  .  .  .  *  .  .  . |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("board missing %q:\n%s", want, out)
		}
	}
}

func TestBoardMarksCaptureTargets(t *testing.T) {
	f := NewFormatter()
	out := f.Board(sessiondto.View{
		FEN:      "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
		Selected: "e4",
		Targets:  []string{"d5", "e5"},
	})

	if !strings.Contains(out, "5 | .  .  . (p) *  .  .  . |") {
		t.Fatalf("capture target not marked:\n%s", out)
	}
	if !strings.Contains(out, "4 | .  .  .  . [P] .  .  . |") {
		t.Fatalf("selection not marked:\n%s", out)
	}
}

func TestMoveListPairsMoves(t *testing.T) {
	f := NewFormatter()

	got := f.MoveList(sessiondto.View{
		MovesUCI: []string{"e2e4", "e7e5", "g1f3"},
		MovesSAN: []string{"e4", "e5", "Nf3"},
	})
	if got != "1. e4 e5  2. Nf3" {
		t.Fatalf("MoveList = %q", got)
	}

	// Mismatched SAN falls back to the UCI history.
	got = f.MoveList(sessiondto.View{MovesUCI: []string{"e2e4"}})
	if got != "1. e2e4" {
		t.Fatalf("MoveList fallback = %q", got)
	}

	if f.MoveList(sessiondto.View{}) != "" {
		t.Fatal("empty history should render empty")
	}
}

func TestMoveListWrapsLongGames(t *testing.T) {
	f := NewFormatter()
	moves := make([]string, 10)
	for i := range moves {
		moves[i] = "a2a3"
	}

	out := f.MoveList(sessiondto.View{MovesUCI: moves})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d:\n%s", len(lines), out)
	}
	if lines[1] != "5. a2a3 a2a3" {
		t.Fatalf("second line = %q", lines[1])
	}
}

func TestCapturedTallies(t *testing.T) {
	f := NewFormatter()

	if got := f.Captured(sessiondto.View{}); got != "" {
		t.Fatalf("no captures should render empty, got %q", got)
	}

	got := f.Captured(sessiondto.View{CapturedByWhite: "pn", CapturedByBlack: "P"})
	want := "White has taken: P N\nBlack has taken: P"
	if got != want {
		t.Fatalf("Captured = %q, want %q", got, want)
	}
}
