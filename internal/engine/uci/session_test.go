package uci

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Shell stand-ins for a real engine binary keep the protocol tests hermetic.
const cooperativeStub = `#!/bin/sh
while read -r line; do
  case "$line" in
    uci)
      echo "id name StubFish 1"
      echo "uciok"
      ;;
    isready)
      echo "readyok"
      ;;
    go*)
      echo "info depth 1 score cp 13 pv e2e4"
      echo "bestmove e2e4"
      ;;
    quit)
      exit 0
      ;;
  esac
done
`

const silentMateStub = `#!/bin/sh
while read -r line; do
  case "$line" in
    uci)
      echo "uciok"
      ;;
    isready)
      echo "readyok"
      ;;
    go*)
      echo "bestmove (none)"
      ;;
    quit)
      exit 0
      ;;
  esac
done
`

func writeStubEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stubfish")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	return path
}

func TestSessionHandshakeAndBestMove(t *testing.T) {
	ctx := context.Background()
	s, err := NewSession(ctx, writeStubEngine(t, cooperativeStub))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	if got := s.EngineName(); got != "StubFish 1" {
		t.Fatalf("EngineName = %q, want %q", got, "StubFish 1")
	}
	if err := s.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}

	mv, err := s.BestMove(ctx, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 2)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if mv != "e2e4" {
		t.Fatalf("BestMove = %q, want e2e4", mv)
	}
}

func TestSessionReportsNoBestMove(t *testing.T) {
	ctx := context.Background()
	s, err := NewSession(ctx, writeStubEngine(t, silentMateStub))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	if _, err := s.BestMove(ctx, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 1); err == nil {
		t.Fatal("expected an error for bestmove (none)")
	}
}

func TestSessionFailsOnMissingBinary(t *testing.T) {
	_, err := NewSession(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error for a missing engine binary")
	}
}

func TestSessionFailsWhenEngineDiesBeforeHandshake(t *testing.T) {
	_, err := NewSession(context.Background(), writeStubEngine(t, "#!/bin/sh\nexit 0\n"))
	if err == nil {
		t.Fatal("expected an error when the engine exits before uciok")
	}
}

func TestBuildPositionCommand(t *testing.T) {
	cases := map[string]string{
		"":         "position startpos\n",
		"startpos": "position startpos\n",
		"8/8/8/3k4/8/3K4/8/8 w - - 0 1": "position fen 8/8/8/3k4/8/3K4/8/8 w - - 0 1\n",
	}
	for in, want := range cases {
		if got := buildPositionCommand(in); got != want {
			t.Fatalf("buildPositionCommand(%q) = %q, want %q", in, got, want)
		}
	}
	if got := buildPositionCommand("  startpos  "); !strings.HasPrefix(got, "position startpos") {
		t.Fatalf("trimmed startpos not recognized: %q", got)
	}
}
