package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/quietpawn/gambit/internal/domain"
	"github.com/quietpawn/gambit/internal/rules"
)

func sampleSnapshot() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		FEN:             "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
		MovesUCI:        []string{"e2e4", "e7e5"},
		HumanColor:      "black",
		AIEnabled:       false,
		SearchDepth:     2,
		CapturedByWhite: "p",
		CapturedByBlack: "P",
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleSnapshot()
	data, err := Encode(want, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.FEN != want.FEN {
		t.Fatalf("FEN = %q, want %q", got.FEN, want.FEN)
	}
	if strings.Join(got.MovesUCI, " ") != "e2e4 e7e5" {
		t.Fatalf("MovesUCI = %v", got.MovesUCI)
	}
	if got.HumanColor != "black" || got.AIEnabled || got.SearchDepth != 2 {
		t.Fatalf("settings = %+v", got)
	}
	if got.CapturedByWhite != "p" || got.CapturedByBlack != "P" {
		t.Fatalf("captured = %q / %q", got.CapturedByWhite, got.CapturedByBlack)
	}
}

func TestEncodeUsesCapitalizedBooleans(t *testing.T) {
	snap := sampleSnapshot()

	snap.AIEnabled = true
	data, err := Encode(snap, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "True") {
		t.Fatalf("enabled payload missing True:\n%s", data)
	}

	snap.AIEnabled = false
	data, err = Encode(snap, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "False") {
		t.Fatalf("disabled payload missing False:\n%s", data)
	}
}

func TestDecodeFillsDefaults(t *testing.T) {
	got, err := Decode([]byte("[GameState]\nmoves =\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.FEN != rules.StartingFEN {
		t.Fatalf("FEN = %q, want starting position", got.FEN)
	}
	if got.HumanColor != "white" || !got.AIEnabled || got.SearchDepth != 3 {
		t.Fatalf("defaults = %+v", got)
	}
	if len(got.MovesUCI) != 0 {
		t.Fatalf("MovesUCI = %v, want empty", got.MovesUCI)
	}
}

func TestDecodeWithoutGameStateIsNoSession(t *testing.T) {
	for _, data := range []string{"", "[Geometry]\nsize = 640x640\n"} {
		if _, err := Decode([]byte(data)); !errors.Is(err, ErrNoSession) {
			t.Fatalf("Decode(%q) err = %v, want ErrNoSession", data, err)
		}
	}
}

func TestDecodeRejectsCorruptValues(t *testing.T) {
	cases := map[string]string{
		"human_color":  "[GameState]\nhuman_color = green\n",
		"ai_enabled":   "[GameState]\nai_enabled = maybe\n",
		"search_depth": "[GameState]\nsearch_depth = three\n",
		"captured":     "[GameState]\ncaptured_by_white = px\n",
	}
	for name, data := range cases {
		if _, err := Decode([]byte(data)); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: err = %v, want ErrCorrupt", name, err)
		}
	}
}

func TestDecodeClampsSearchDepth(t *testing.T) {
	got, err := Decode([]byte("[GameState]\nsearch_depth = 9\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SearchDepth != 3 {
		t.Fatalf("depth = %d, want 3", got.SearchDepth)
	}

	got, err = Decode([]byte("[GameState]\nsearch_depth = 0\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SearchDepth != 1 {
		t.Fatalf("depth = %d, want 1", got.SearchDepth)
	}
}

func TestEncodePreservesForeignSections(t *testing.T) {
	prior := []byte("[Geometry]\nsize = 800x800\nstate = normal\n")
	data, err := Encode(sampleSnapshot(), prior)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[Geometry]") || !strings.Contains(out, "800x800") {
		t.Fatalf("geometry lost:\n%s", out)
	}
	if _, err := Decode(data); err != nil {
		t.Fatalf("Decode merged payload: %v", err)
	}
}

func TestStrip(t *testing.T) {
	mixed, err := Encode(sampleSnapshot(), []byte("[Geometry]\nsize = 800x800\n"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, ok := Strip(mixed)
	if !ok {
		t.Fatal("Strip dropped a payload that still had foreign sections")
	}
	if strings.Contains(string(out), "[GameState]") {
		t.Fatalf("GameState survived Strip:\n%s", out)
	}
	if !strings.Contains(string(out), "[Geometry]") {
		t.Fatalf("Geometry lost in Strip:\n%s", out)
	}

	gameOnly, err := Encode(sampleSnapshot(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, ok := Strip(gameOnly); ok {
		t.Fatal("Strip kept a payload with nothing left in it")
	}
}
