package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedCatalogRenders(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Render("gameover.checkmate", map[string]string{"Winner": "White"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Checkmate! White Wins!" {
		t.Fatalf("unexpected render: %q", got)
	}

	if _, err := c.Render("gameover.stalemate", nil); err != nil {
		t.Fatalf("Render stalemate: %v", err)
	}
}

func TestRenderFailsOnMissingKeyAndMissingData(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if _, err := c.Render("gameover.checkmate", map[string]string{}); err == nil {
		t.Fatal("expected error when template data is missing")
	}

	got := c.RenderOr("no.such.key", nil, "fallback text")
	if got != "fallback text" {
		t.Fatalf("RenderOr fallback = %q", got)
	}
}

func TestOverrideDirReplacesDefaults(t *testing.T) {
	dir := t.TempDir()
	override := "gameover:\n  stalemate: \"Nobody wins.\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-custom.yaml"), []byte(override), 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New with overrides: %v", err)
	}

	got, err := c.Render("gameover.stalemate", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Nobody wins." {
		t.Fatalf("override not applied, got %q", got)
	}

	// Untouched keys keep their embedded text.
	got, err = c.Render("session.saved", nil)
	if err != nil {
		t.Fatalf("Render session.saved: %v", err)
	}
	if !strings.Contains(got, "saved") {
		t.Fatalf("unexpected default text: %q", got)
	}
}

func TestDuplicateOverrideKeysRejected(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml"} {
		body := "error:\n  busy: \"later\"\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if _, err := New(dir); err == nil {
		t.Fatal("expected duplicate key error")
	}
}
