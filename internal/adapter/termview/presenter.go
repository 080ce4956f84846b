package termview

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/quietpawn/gambit/internal/engine"
	"github.com/quietpawn/gambit/internal/msgcat"
	"github.com/quietpawn/gambit/internal/rules"
	"github.com/quietpawn/gambit/internal/session"
	"github.com/quietpawn/gambit/internal/store"
	"github.com/quietpawn/gambit/pkg/sessiondto"
)

// Presenter writes formatted session output without coupling the command loop
// to layout or wording decisions.
type Presenter struct {
	out io.Writer
	cat *msgcat.Catalog
	fm  *Formatter
}

func NewPresenter(out io.Writer, cat *msgcat.Catalog) (*Presenter, error) {
	if out == nil {
		return nil, errors.New("output writer is required")
	}
	if cat == nil {
		return nil, errors.New("message catalog is required")
	}
	return &Presenter{out: out, cat: cat, fm: NewFormatter()}, nil
}

// ShowView draws the board, capture tallies, the move list and a status line
// saying whose move it is or how the game ended.
func (p *Presenter) ShowView(v sessiondto.View) error {
	var sb strings.Builder
	sb.WriteString(p.fm.Board(v))
	if captured := p.fm.Captured(v); captured != "" {
		sb.WriteString(captured)
		sb.WriteByte('\n')
	}
	if moves := p.fm.MoveList(v); moves != "" {
		sb.WriteString(moves)
		sb.WriteByte('\n')
	}
	sb.WriteString(p.statusLine(v))
	sb.WriteByte('\n')
	_, err := io.WriteString(p.out, sb.String())
	return err
}

// ShowMessage renders a catalog key and prints it on its own line.
func (p *Presenter) ShowMessage(key string, data any, fallback string) error {
	_, err := fmt.Fprintln(p.out, p.cat.RenderOr(key, data, fallback))
	return err
}

// ShowError prints the player-facing wording for err. Errors without a known
// wording print verbatim.
func (p *Presenter) ShowError(err error) error {
	if err == nil {
		return nil
	}
	key, fallback := classifyError(err)
	_, werr := fmt.Fprintln(p.out, p.cat.RenderOr(key, nil, fallback))
	return werr
}

// ShowHistory lists archived games, newest first.
func (p *Presenter) ShowHistory(games []sessiondto.GameSummary) error {
	if len(games) == 0 {
		return p.ShowMessage("history.empty", nil, "No archived games yet.")
	}
	var sb strings.Builder
	for _, g := range games {
		data := map[string]any{
			"ID":          g.ID,
			"Date":        g.EndedAt.Format("2006-01-02 15:04"),
			"Result":      g.Result,
			"Termination": g.Termination,
			"Color":       g.HumanColor,
			"Moves":       g.MoveCount,
			"Level":       g.Difficulty,
		}
		line := p.cat.RenderOr("history.line", data,
			fmt.Sprintf("#%d %s (%s), %d moves", g.ID, g.Result, g.Termination, g.MoveCount))
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(p.out, sb.String())
	return err
}

// ShowHelp prints the command reference.
func (p *Presenter) ShowHelp() error {
	_, err := io.WriteString(p.out, p.fm.Help())
	return err
}

func (p *Presenter) statusLine(v sessiondto.View) string {
	if v.Termination != "" {
		return p.gameOverLine(v)
	}
	if v.State == "awaiting_ai" {
		return p.cat.RenderOr("status.thinking", nil, "AI is thinking...")
	}
	if v.Turn == "black" {
		return p.cat.RenderOr("status.black_to_move", nil, "Black to move")
	}
	return p.cat.RenderOr("status.white_to_move", nil, "White to move")
}

func (p *Presenter) gameOverLine(v sessiondto.View) string {
	switch v.Termination {
	case "checkmate":
		winner := titleColor(v.Winner)
		return p.cat.RenderOr("gameover.checkmate",
			map[string]string{"Winner": winner}, winner+" wins by checkmate")
	case "stalemate":
		return p.cat.RenderOr("gameover.stalemate", nil, "Stalemate")
	case "insufficient material":
		return p.cat.RenderOr("gameover.insufficient", nil, "Draw by insufficient material")
	case "threefold repetition":
		return p.cat.RenderOr("gameover.threefold", nil, "Draw by threefold repetition")
	case "fifty-move rule":
		return p.cat.RenderOr("gameover.fifty", nil, "Draw by the fifty-move rule")
	default:
		return "Game over"
	}
}

func classifyError(err error) (key, fallback string) {
	switch {
	case errors.Is(err, session.ErrEngineBusy):
		return "error.busy", "AI is thinking. Try again shortly."
	case errors.Is(err, session.ErrBadSquare):
		return "error.bad_square", "That is not a board square."
	case errors.Is(err, session.ErrNotYourTurn):
		return "error.not_your_turn", "It is not your turn."
	case errors.Is(err, session.ErrGameOver):
		return "error.game_over", "The game is over."
	case errors.Is(err, rules.ErrIllegalMove):
		return "error.illegal_move", "Illegal move."
	case errors.Is(err, store.ErrNoSession):
		return "error.no_session", "No saved game found."
	case errors.Is(err, store.ErrCorrupt):
		return "error.corrupt", "The saved game was damaged. Starting fresh."
	case errors.Is(err, engine.ErrUnavailable):
		return "error.engine_unavailable", "No external engine found."
	default:
		return "", err.Error()
	}
}

func titleColor(color string) string {
	switch strings.ToLower(strings.TrimSpace(color)) {
	case "white":
		return "White"
	case "black":
		return "Black"
	default:
		return "Nobody"
	}
}
