// Package termview renders session views as fixed-width text for a terminal.
package termview

import (
	"fmt"
	"strings"

	"github.com/quietpawn/gambit/pkg/sessiondto"
)

const (
	boardBorder  = "  +------------------------+"
	boardFiles   = "    a  b  c  d  e  f  g  h"
	pairsPerLine = 4
	emptySquare  = '.'
)

// Formatter turns session views into text blocks. The board is always drawn
// from White's side, rank 8 on top.
type Formatter struct{}

func NewFormatter() *Formatter { return &Formatter{} }

// Board draws the position with rank and file labels. The selected square is
// wrapped in brackets; legal destinations show a star on empty squares and
// parentheses around capturable pieces.
func (f *Formatter) Board(v sessiondto.View) string {
	rows := strings.Split(boardField(v.FEN), "/")
	targets := make(map[string]bool, len(v.Targets))
	for _, t := range v.Targets {
		targets[t] = true
	}

	var sb strings.Builder
	sb.WriteString(boardBorder)
	sb.WriteByte('\n')
	for i, row := range rows {
		rank := 8 - i
		if rank < 1 {
			break
		}
		sb.WriteString(fmt.Sprintf("%d |", rank))
		file := 0
		for _, c := range row {
			if c >= '1' && c <= '8' {
				for n := 0; n < int(c-'0'); n++ {
					sb.WriteString(cell(emptySquare, squareName(file, rank), v.Selected, targets))
					file++
				}
				continue
			}
			sb.WriteString(cell(c, squareName(file, rank), v.Selected, targets))
			file++
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(boardBorder)
	sb.WriteByte('\n')
	sb.WriteString(boardFiles)
	sb.WriteByte('\n')
	return sb.String()
}

// MoveList renders the history as numbered move pairs, SAN when available.
func (f *Formatter) MoveList(v sessiondto.View) string {
	moves := v.MovesSAN
	if len(moves) != len(v.MovesUCI) {
		moves = v.MovesUCI
	}
	if len(moves) == 0 {
		return ""
	}

	pairs := make([]string, 0, (len(moves)+1)/2)
	for i := 0; i < len(moves); i += 2 {
		n := i/2 + 1
		if i+1 < len(moves) {
			pairs = append(pairs, fmt.Sprintf("%d. %s %s", n, moves[i], moves[i+1]))
		} else {
			pairs = append(pairs, fmt.Sprintf("%d. %s", n, moves[i]))
		}
	}

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			if i%pairsPerLine == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString(p)
	}
	return sb.String()
}

// Captured renders both capture tallies in capture order, or "" when no piece
// has been taken yet.
func (f *Formatter) Captured(v sessiondto.View) string {
	white := spacedPieces(v.CapturedByWhite)
	black := spacedPieces(v.CapturedByBlack)
	if white == "" && black == "" {
		return ""
	}
	var parts []string
	if white != "" {
		parts = append(parts, "White has taken: "+white)
	}
	if black != "" {
		parts = append(parts, "Black has taken: "+black)
	}
	return strings.Join(parts, "\n")
}

// Help lists the interactive commands.
func (f *Formatter) Help() string {
	return strings.TrimLeft(`
Commands:
  e2              tap a square: first tap selects, second tap moves
  move e2e4       play a move directly in UCI notation
  new             start a new game
  ai              toggle the AI opponent on or off
  side white      switch sides (starts a new game)
  level easy      set difficulty: easy, medium or hard
  board           redraw the board
  save            save the game
  history [n]     list recently archived games
  help            show this text
  quit            save and exit
`, "\n")
}

func boardField(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func squareName(file, rank int) string {
	return string([]byte{byte('a' + file), byte('0' + rank)})
}

func cell(piece rune, square, selected string, targets map[string]bool) string {
	switch {
	case square == selected:
		return "[" + string(piece) + "]"
	case targets[square] && piece != emptySquare:
		return "(" + string(piece) + ")"
	case targets[square]:
		return " * "
	default:
		return " " + string(piece) + " "
	}
}

func spacedPieces(codes string) string {
	if codes == "" {
		return ""
	}
	letters := make([]string, 0, len(codes))
	for _, c := range codes {
		letters = append(letters, strings.ToUpper(string(c)))
	}
	return strings.Join(letters, " ")
}
