package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/quietpawn/gambit/internal/adapter/termview"
	"github.com/quietpawn/gambit/internal/builder"
	"github.com/quietpawn/gambit/internal/config"
	"github.com/quietpawn/gambit/internal/domain"
	"github.com/quietpawn/gambit/internal/msgcat"
	"github.com/quietpawn/gambit/internal/obslog"
	"github.com/quietpawn/gambit/internal/session"
	"github.com/quietpawn/gambit/internal/store"
	"github.com/quietpawn/gambit/pkg/sessiondto"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logging error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := builder.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	defer func() { _ = deps.Close() }()

	cat, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}
	view, err := termview.NewPresenter(os.Stdout, cat)
	if err != nil {
		log.Fatalf("presenter error: %v", err)
	}

	sc := bufio.NewScanner(os.Stdin)
	openSession(ctx, deps, view, sc)
	_ = view.ShowView(deps.Manager.View())

	runLoop(ctx, cfg, deps, view, sc)
}

// openSession resumes the saved game when one exists and the player wants it,
// otherwise starts fresh.
func openSession(ctx context.Context, deps *builder.Deps, view *termview.Presenter, sc *bufio.Scanner) {
	mgr := deps.Manager

	haveSave := false
	if _, err := deps.Store.Load(ctx); err == nil {
		haveSave = true
	} else if errors.Is(err, store.ErrCorrupt) {
		_ = view.ShowError(err)
	}

	if haveSave && promptResume(sc, view) {
		if err := mgr.Restore(ctx); err != nil {
			_ = view.ShowError(err)
		} else {
			moves := len(mgr.View().MovesUCI)
			_ = view.ShowMessage("session.restored", map[string]any{"Moves": moves},
				fmt.Sprintf("Resumed saved game after %d moves.", moves))
			return
		}
	}

	_ = view.ShowMessage("session.new_game",
		map[string]string{"Color": mgr.View().HumanColor}, "New game started.")
	mgr.Start(ctx)
}

func promptResume(sc *bufio.Scanner, view *termview.Presenter) bool {
	_ = view.ShowMessage("prompt.continue_saved", nil, "Found a saved game. Continue it? [y/n]")
	if !sc.Scan() {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer != "n" && answer != "no"
}

// runLoop multiplexes player commands with finished AI computations until the
// player quits or the process is signalled. The session is saved on the way
// out, like the original window-close handler did.
func runLoop(ctx context.Context, cfg *config.AppConfig, deps *builder.Deps, view *termview.Presenter, sc *bufio.Scanner) {
	mgr := deps.Manager

	lines := make(chan string)
	go func() {
		defer close(lines)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			saveOnExit(mgr, view)
			return
		case res := <-mgr.Results():
			if err := mgr.ApplyResult(ctx, res); err != nil {
				_ = view.ShowError(err)
			} else if v := mgr.View(); v.LastMove != "" {
				_ = view.ShowMessage("session.ai_moved",
					map[string]string{"Move": v.LastMove}, "AI played "+v.LastMove+".")
			}
			_ = view.ShowView(mgr.View())
		case line, ok := <-lines:
			if !ok {
				saveOnExit(mgr, view)
				return
			}
			if quit := dispatch(ctx, cfg, deps, view, line); quit {
				saveOnExit(mgr, view)
				return
			}
		}
	}
}

// dispatch handles one input line and reports whether the player quit. Any
// token that is not a known command is treated as a square tap.
func dispatch(ctx context.Context, cfg *config.AppConfig, deps *builder.Deps, view *termview.Presenter, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	mgr := deps.Manager
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		_ = view.ShowHelp()
	case "board":
		_ = view.ShowView(mgr.View())
	case "new":
		if err := mgr.NewGame(ctx); err != nil {
			_ = view.ShowError(err)
			return false
		}
		v := mgr.View()
		_ = view.ShowMessage("session.new_game",
			map[string]string{"Color": v.HumanColor}, "New game started.")
		_ = view.ShowView(v)
	case "ai":
		if mgr.ToggleAI(ctx) {
			_ = view.ShowMessage("session.ai_enabled", nil, "AI opponent enabled.")
		} else {
			_ = view.ShowMessage("session.ai_disabled", nil, "AI opponent disabled.")
		}
		_ = view.ShowView(mgr.View())
	case "side":
		if len(args) < 1 {
			_ = view.ShowMessage("usage.side", nil, "Usage: side white|black")
			return false
		}
		if err := mgr.SwitchSide(ctx, args[0]); err != nil {
			_ = view.ShowError(err)
			return false
		}
		v := mgr.View()
		_ = view.ShowMessage("session.side_switched",
			map[string]string{"Color": v.HumanColor}, "Side switched.")
		_ = view.ShowView(v)
	case "level":
		if len(args) < 1 {
			_ = view.ShowMessage("usage.level", nil, "Usage: level easy|medium|hard")
			return false
		}
		if err := mgr.SetDifficulty(args[0]); err != nil {
			_ = view.ShowError(err)
			return false
		}
		v := mgr.View()
		_ = view.ShowMessage("session.difficulty_set",
			map[string]any{"Level": v.Difficulty, "Depth": v.SearchDepth},
			fmt.Sprintf("Difficulty set to %s.", v.Difficulty))
	case "move":
		if len(args) < 1 {
			_ = view.ShowMessage("usage.move", nil, "Usage: move <uci>, e.g. move e2e4")
			return false
		}
		if err := mgr.PlayUCI(ctx, args[0]); err != nil {
			_ = view.ShowError(err)
			return false
		}
		_ = view.ShowView(mgr.View())
	case "save":
		if err := mgr.Save(ctx); err != nil {
			_ = view.ShowError(err)
			return false
		}
		_ = view.ShowMessage("session.saved", nil, "Game saved.")
	case "history", "games":
		limit := cfg.HistoryLimit
		if len(args) >= 1 {
			if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
				limit = n
			}
		}
		records, err := deps.Repo.RecentGames(ctx, limit)
		if err != nil {
			_ = view.ShowError(err)
			return false
		}
		_ = view.ShowHistory(toSummaries(records))
	default:
		if err := mgr.ClickSquare(ctx, cmd); err != nil {
			_ = view.ShowError(err)
			return false
		}
		_ = view.ShowView(mgr.View())
	}
	return false
}

func saveOnExit(mgr *session.Manager, view *termview.Presenter) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := mgr.Save(ctx); err != nil {
		_ = view.ShowError(err)
		return
	}
	_ = view.ShowMessage("session.saved", nil, "Game saved.")
}

func toSummaries(records []*domain.GameRecord) []sessiondto.GameSummary {
	out := make([]sessiondto.GameSummary, 0, len(records))
	for _, r := range records {
		out = append(out, sessiondto.GameSummary{
			ID:          r.ID,
			Result:      r.Result,
			Termination: r.Termination,
			HumanColor:  r.HumanColor,
			Difficulty:  session.LevelForDepth(r.SearchDepth),
			MoveCount:   r.MoveCount,
			EngineName:  r.EngineName,
			EndedAt:     r.EndedAt,
		})
	}
	return out
}
