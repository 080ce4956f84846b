package store

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/quietpawn/gambit/internal/domain"
	"github.com/quietpawn/gambit/internal/rules"
)

const (
	sectionGameState = "GameState"

	keyFEN           = "fen"
	keyMoves         = "moves"
	keyHumanColor    = "human_color"
	keyAIEnabled     = "ai_enabled"
	keySearchDepth   = "search_depth"
	keyCapturedWhite = "captured_by_white"
	keyCapturedBlack = "captured_by_black"

	defaultSearchDepth = 3
)

// Encode serializes a snapshot into the INI payload. Sections other than
// GameState found in prior, such as window geometry kept by older builds,
// survive the rewrite untouched.
func Encode(snap domain.SessionSnapshot, prior []byte) ([]byte, error) {
	f := ini.Empty()
	if len(prior) > 0 {
		if loaded, err := ini.Load(prior); err == nil {
			f = loaded
		}
	}

	sec := f.Section(sectionGameState)
	sec.Key(keyFEN).SetValue(snap.FEN)
	sec.Key(keyMoves).SetValue(strings.Join(snap.MovesUCI, " "))
	sec.Key(keyHumanColor).SetValue(snap.HumanColor)
	sec.Key(keyAIEnabled).SetValue(formatBool(snap.AIEnabled))
	sec.Key(keySearchDepth).SetValue(strconv.Itoa(snap.SearchDepth))
	sec.Key(keyCapturedWhite).SetValue(snap.CapturedByWhite)
	sec.Key(keyCapturedBlack).SetValue(snap.CapturedByBlack)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses the INI payload back into a snapshot. A payload without a
// GameState section counts as no session at all; unparseable values count as
// corruption. Replay-level validation stays with the caller.
func Decode(data []byte) (domain.SessionSnapshot, error) {
	f, err := ini.Load(data)
	if err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("%w: parse ini: %v", ErrCorrupt, err)
	}
	sec, err := f.GetSection(sectionGameState)
	if err != nil {
		return domain.SessionSnapshot{}, ErrNoSession
	}

	snap := domain.SessionSnapshot{
		FEN:      strings.TrimSpace(sec.Key(keyFEN).String()),
		MovesUCI: strings.Fields(sec.Key(keyMoves).String()),
	}
	if snap.FEN == "" {
		snap.FEN = rules.StartingFEN
	}

	color := strings.ToLower(strings.TrimSpace(sec.Key(keyHumanColor).String()))
	switch color {
	case "":
		snap.HumanColor = "white"
	case "white", "black":
		snap.HumanColor = color
	default:
		return domain.SessionSnapshot{}, fmt.Errorf("%w: human_color %q", ErrCorrupt, color)
	}

	enabled := strings.TrimSpace(sec.Key(keyAIEnabled).String())
	if enabled == "" {
		snap.AIEnabled = true
	} else {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return domain.SessionSnapshot{}, fmt.Errorf("%w: ai_enabled %q", ErrCorrupt, enabled)
		}
		snap.AIEnabled = b
	}

	depthRaw := strings.TrimSpace(sec.Key(keySearchDepth).String())
	if depthRaw == "" {
		snap.SearchDepth = defaultSearchDepth
	} else {
		d, err := strconv.Atoi(depthRaw)
		if err != nil {
			return domain.SessionSnapshot{}, fmt.Errorf("%w: search_depth %q", ErrCorrupt, depthRaw)
		}
		snap.SearchDepth = clampDepth(d)
	}

	snap.CapturedByWhite = strings.TrimSpace(sec.Key(keyCapturedWhite).String())
	snap.CapturedByBlack = strings.TrimSpace(sec.Key(keyCapturedBlack).String())
	for _, caps := range []string{snap.CapturedByWhite, snap.CapturedByBlack} {
		if !validCaptureCodes(caps) {
			return domain.SessionSnapshot{}, fmt.Errorf("%w: captured pieces %q", ErrCorrupt, caps)
		}
	}

	return snap, nil
}

// Strip removes the GameState section from a payload while keeping everything
// else. ok reports whether anything worth writing back remains.
func Strip(prior []byte) ([]byte, bool) {
	f, err := ini.Load(prior)
	if err != nil {
		return nil, false
	}
	f.DeleteSection(sectionGameState)

	remaining := false
	for _, sec := range f.Sections() {
		if len(sec.Keys()) > 0 {
			remaining = true
			break
		}
	}
	if !remaining {
		return nil, false
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func clampDepth(d int) int {
	if d < 1 {
		return 1
	}
	if d > 3 {
		return 3
	}
	return d
}

func validCaptureCodes(s string) bool {
	for _, r := range s {
		switch r {
		case 'p', 'n', 'b', 'r', 'q', 'P', 'N', 'B', 'R', 'Q':
		default:
			return false
		}
	}
	return true
}
