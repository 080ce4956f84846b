// Package session runs one interactive game between a human and the AI. A
// single owner goroutine drives the Manager: it issues commands, receives
// finished AI computations from Results, and feeds them back through
// ApplyResult. Only the busy flag and the results channel are shared with the
// background worker.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/archive"
	"github.com/quietpawn/gambit/internal/domain"
	"github.com/quietpawn/gambit/internal/provider"
	"github.com/quietpawn/gambit/internal/rules"
	"github.com/quietpawn/gambit/internal/search"
	"github.com/quietpawn/gambit/internal/store"
	"github.com/quietpawn/gambit/pkg/sessiondto"
)

var (
	// ErrEngineBusy rejects commands that would race the in-flight AI move.
	ErrEngineBusy = errors.New("ai move in progress")
	// ErrGameOver rejects moves after the game ended.
	ErrGameOver = errors.New("game is over")
	// ErrNotYourTurn rejects human moves while the AI is to play.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrBadSquare reports input that does not name a board square.
	ErrBadSquare = errors.New("unrecognized square")
)

// State tracks where the session is in its command cycle.
type State int

const (
	StateIdle State = iota
	StateSelecting
	StateAwaitingAI
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateAwaitingAI:
		return "awaiting_ai"
	case StateGameOver:
		return "game_over"
	default:
		return "idle"
	}
}

// MoveResult carries one finished AI computation from the worker back to the
// owner goroutine.
type MoveResult struct {
	UCI    string
	Source string
	Err    error
}

// Config holds the initial session settings.
type Config struct {
	HumanColor  string
	AIEnabled   bool
	SearchDepth int
	EngineName  string
}

// Manager owns the live game, the two-click selection flow, AI dispatch and
// persistence of the single session.
type Manager struct {
	mu sync.Mutex

	game     *rules.Game
	state    State
	selected nchess.Square
	hasSel   bool
	targets  []nchess.Square

	humanColor nchess.Color
	aiEnabled  bool
	depth      int

	lastMove   string
	lastSource string

	sessionID string
	startedAt time.Time

	busy    atomic.Bool
	results chan MoveResult

	selector   *provider.Selector
	store      store.Store
	archive    archive.Repository
	engineName string
	logger     *zap.Logger
}

func NewManager(sel *provider.Selector, st store.Store, repo archive.Repository, cfg Config, logger *zap.Logger) (*Manager, error) {
	if sel == nil {
		return nil, errors.New("move selector is required")
	}
	if st == nil {
		return nil, errors.New("store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	color := nchess.White
	if strings.TrimSpace(cfg.HumanColor) != "" {
		c, err := parseColor(cfg.HumanColor)
		if err != nil {
			return nil, err
		}
		color = c
	}

	return &Manager{
		game:       rules.NewGame(),
		state:      StateIdle,
		humanColor: color,
		aiEnabled:  cfg.AIEnabled,
		depth:      search.ClampDepth(cfg.SearchDepth),
		sessionID:  uuid.NewString(),
		startedAt:  time.Now(),
		results:    make(chan MoveResult, 1),
		selector:   sel,
		store:      st,
		archive:    repo,
		engineName: cfg.EngineName,
		logger:     logger,
	}, nil
}

// Results delivers completed AI computations. The owner loop must receive
// from it and feed every value back through ApplyResult.
func (m *Manager) Results() <-chan MoveResult { return m.results }

// Busy reports whether an AI computation is in flight.
func (m *Manager) Busy() bool { return m.busy.Load() }

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start kicks off the first AI move when the session opens on the AI's turn,
// which happens whenever the human plays Black.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybeDispatchAI(ctx)
}

// ClickSquare advances the two-click move flow. The first qualifying click
// selects a piece of the side to move, the second either plays the move,
// reselects another own piece, or drops the selection.
func (m *Manager) ClickSquare(ctx context.Context, name string) error {
	sq, ok := rules.ParseSquare(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadSquare, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateGameOver {
		return ErrGameOver
	}
	if m.busy.Load() {
		return ErrEngineBusy
	}

	if !m.hasSel {
		m.trySelect(sq)
		return nil
	}

	if sq == m.selected {
		m.clearSelection()
		return nil
	}

	if mv, found := m.game.FindMove(m.selected, sq); found {
		if err := m.game.Push(&mv); err != nil {
			m.clearSelection()
			return err
		}
		m.noteMovePlayed("human")
		m.clearSelection()
		m.afterMove(ctx)
		return nil
	}

	// Not a legal destination: a click on another movable piece reselects,
	// anything else drops the selection.
	m.trySelect(sq)
	return nil
}

// PlayUCI applies one human move given in UCI notation, bypassing the click
// flow.
func (m *Manager) PlayUCI(ctx context.Context, mv string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateGameOver {
		return ErrGameOver
	}
	if m.busy.Load() {
		return ErrEngineBusy
	}
	if m.aiEnabled && m.game.Turn() != m.humanColor {
		return ErrNotYourTurn
	}

	if err := m.game.PushUCI(mv); err != nil {
		return err
	}
	m.noteMovePlayed("human")
	m.clearSelection()
	m.afterMove(ctx)
	return nil
}

// NewGame resets the board. Rejected while an AI move is in flight.
func (m *Manager) NewGame(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy.Load() {
		return ErrEngineBusy
	}
	m.resetLocked()
	m.logger.Info("new game started",
		zap.String("session", m.sessionID),
		zap.String("human_color", colorName(m.humanColor)))
	m.maybeDispatchAI(ctx)
	return nil
}

// ToggleAI flips the AI opponent on or off and reports the new setting.
// Enabling it on the AI's turn dispatches a move immediately.
func (m *Manager) ToggleAI(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.aiEnabled = !m.aiEnabled
	m.logger.Info("ai toggled", zap.Bool("enabled", m.aiEnabled))
	if m.aiEnabled {
		m.maybeDispatchAI(ctx)
	}
	return m.aiEnabled
}

// SwitchSide assigns the human the given color and starts a new game.
// Rejected as a whole while an AI move is in flight.
func (m *Manager) SwitchSide(ctx context.Context, color string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy.Load() {
		return ErrEngineBusy
	}
	c, err := parseColor(color)
	if err != nil {
		return err
	}
	m.humanColor = c
	m.resetLocked()
	m.logger.Info("side switched", zap.String("human_color", colorName(c)))
	m.maybeDispatchAI(ctx)
	return nil
}

// SetDifficulty switches the search depth preset. Takes effect on the next
// AI dispatch; a move already in flight keeps its depth.
func (m *Manager) SetDifficulty(level string) error {
	d, ok := DepthForLevel(level)
	if !ok {
		return fmt.Errorf("unknown difficulty %q", level)
	}
	m.mu.Lock()
	m.depth = d
	m.mu.Unlock()
	return nil
}

// ApplyResult integrates one finished AI computation. The busy flag clears
// even when the computation failed, so a later dispatch can retry.
func (m *Manager) ApplyResult(ctx context.Context, res MoveResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.busy.Store(false)

	if res.Err != nil {
		if m.state == StateAwaitingAI {
			m.state = StateIdle
		}
		m.logger.Warn("ai move failed", zap.Error(res.Err))
		return fmt.Errorf("ai move: %w", res.Err)
	}
	if m.state == StateGameOver {
		return nil
	}

	if err := m.game.PushUCI(res.UCI); err != nil {
		m.state = StateIdle
		m.logger.Error("ai produced an unplayable move",
			zap.String("move", res.UCI),
			zap.String("source", res.Source),
			zap.Error(err))
		return err
	}
	m.lastMove = res.UCI
	m.lastSource = res.Source
	m.logger.Info("ai move applied",
		zap.String("move", res.UCI),
		zap.String("source", res.Source))
	m.state = StateIdle
	m.afterMove(ctx)
	return nil
}

// Save writes the current session to the store.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.logger.Info("session saved", zap.Int("moves", len(snap.MovesUCI)))
	return nil
}

// Restore loads the saved session. The stored move list is replayed from the
// initial position and must reproduce the stored FEN; any mismatch counts as
// corruption and resets the manager to a fresh game before returning
// store.ErrCorrupt. A session saved in a finished position restores straight
// into the game-over state.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy.Load() {
		return ErrEngineBusy
	}

	snap, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			m.resetLocked()
		}
		return err
	}

	g, err := rules.Restore(snap.MovesUCI)
	if err != nil {
		m.resetLocked()
		return fmt.Errorf("%w: %v", store.ErrCorrupt, err)
	}
	if g.FEN() != snap.FEN {
		m.resetLocked()
		return fmt.Errorf("%w: position does not match move history", store.ErrCorrupt)
	}
	color, err := parseColor(snap.HumanColor)
	if err != nil {
		m.resetLocked()
		return fmt.Errorf("%w: %v", store.ErrCorrupt, err)
	}

	m.game = g
	m.humanColor = color
	m.aiEnabled = snap.AIEnabled
	m.depth = search.ClampDepth(snap.SearchDepth)
	m.hasSel = false
	m.targets = nil
	m.lastMove = ""
	m.lastSource = ""
	if n := g.MoveCount(); n > 0 {
		m.lastMove = snap.MovesUCI[n-1]
	}
	m.sessionID = uuid.NewString()
	m.startedAt = time.Now()

	if g.Terminal() != rules.TerminationNone {
		m.state = StateGameOver
	} else {
		m.state = StateIdle
		m.maybeDispatchAI(ctx)
	}

	m.logger.Info("session restored",
		zap.Int("moves", g.MoveCount()),
		zap.String("human_color", snap.HumanColor),
		zap.Bool("ai_enabled", snap.AIEnabled),
		zap.String("state", m.state.String()))
	return nil
}

// Snapshot returns the session as it would be persisted.
func (m *Manager) Snapshot() domain.SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// View projects the session for rendering.
func (m *Manager) View() sessiondto.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	byWhite, byBlack := m.game.Captured()
	term := m.game.Terminal()

	v := sessiondto.View{
		FEN:             m.game.FEN(),
		Turn:            colorName(m.game.Turn()),
		State:           m.state.String(),
		MovesUCI:        m.game.MovesUCI(),
		MovesSAN:        m.game.SAN(),
		HumanColor:      colorName(m.humanColor),
		AIEnabled:       m.aiEnabled,
		SearchDepth:     m.depth,
		Difficulty:      LevelForDepth(m.depth),
		CapturedByWhite: byWhite,
		CapturedByBlack: byBlack,
		Result:          m.game.Result(),
		LastMove:        m.lastMove,
		LastMoveSource:  m.lastSource,
	}
	if m.hasSel {
		v.Selected = m.selected.String()
		for _, sq := range m.targets {
			v.Targets = append(v.Targets, sq.String())
		}
	}
	if term != rules.TerminationNone {
		v.Termination = term.String()
		if winner, ok := m.game.Winner(); ok {
			v.Winner = colorName(winner)
		}
	}
	return v
}

func (m *Manager) trySelect(sq nchess.Square) {
	p := m.game.PieceAt(sq)
	if p == nchess.NoPiece || p.Color() != m.game.Turn() {
		m.clearSelection()
		return
	}
	if m.aiEnabled && m.game.Turn() != m.humanColor {
		m.clearSelection()
		return
	}
	m.selected = sq
	m.hasSel = true
	m.targets = m.game.TargetsFrom(sq)
	m.state = StateSelecting
}

func (m *Manager) clearSelection() {
	m.hasSel = false
	m.targets = nil
	if m.state == StateSelecting {
		m.state = StateIdle
	}
}

func (m *Manager) noteMovePlayed(source string) {
	if n := m.game.MoveCount(); n > 0 {
		m.lastMove = m.game.MovesUCI()[n-1]
	}
	m.lastSource = source
}

func (m *Manager) afterMove(ctx context.Context) {
	if term := m.game.Terminal(); term != rules.TerminationNone {
		m.state = StateGameOver
		m.recordFinishedGame(ctx, term)
		return
	}
	m.state = StateIdle
	m.maybeDispatchAI(ctx)
}

// maybeDispatchAI starts a background computation when the AI is enabled, the
// game is live and it is the AI's turn. The compare-and-swap on the busy flag
// guarantees at most one computation in flight.
func (m *Manager) maybeDispatchAI(ctx context.Context) {
	if !m.aiEnabled || m.state == StateGameOver {
		return
	}
	if m.game.Turn() == m.humanColor {
		return
	}
	if !m.busy.CompareAndSwap(false, true) {
		return
	}

	m.hasSel = false
	m.targets = nil
	m.state = StateAwaitingAI

	fen := m.game.FEN()
	depth := m.depth
	m.logger.Debug("ai move dispatched", zap.String("fen", fen), zap.Int("depth", depth))

	go func() {
		mv, err := m.selector.SelectMove(ctx, fen, depth)
		if err != nil {
			m.results <- MoveResult{Err: err}
			return
		}
		m.results <- MoveResult{UCI: mv.UCI, Source: mv.Source}
	}()
}

func (m *Manager) recordFinishedGame(ctx context.Context, term rules.Termination) {
	winner := ""
	if c, ok := m.game.Winner(); ok {
		winner = colorName(c)
	}
	m.logger.Info("game finished",
		zap.String("result", m.game.Result()),
		zap.String("termination", term.String()),
		zap.String("winner", winner),
		zap.Int("moves", m.game.MoveCount()))

	if m.archive == nil {
		return
	}
	rec := &domain.GameRecord{
		SessionUUID: m.sessionID,
		Result:      m.game.Result(),
		Termination: term.String(),
		HumanColor:  colorName(m.humanColor),
		AIEnabled:   m.aiEnabled,
		SearchDepth: m.depth,
		MovesUCI:    m.game.MovesUCI(),
		MoveCount:   m.game.MoveCount(),
		EngineName:  m.engineName,
		StartedAt:   m.startedAt,
		EndedAt:     time.Now(),
	}
	if _, err := m.archive.InsertGame(ctx, rec); err != nil && !errors.Is(err, archive.ErrDuplicateGame) {
		m.logger.Warn("archive game failed", zap.Error(err))
	}
}

func (m *Manager) resetLocked() {
	m.game = rules.NewGame()
	m.state = StateIdle
	m.hasSel = false
	m.targets = nil
	m.lastMove = ""
	m.lastSource = ""
	m.sessionID = uuid.NewString()
	m.startedAt = time.Now()
}

func (m *Manager) snapshotLocked() domain.SessionSnapshot {
	byWhite, byBlack := m.game.Captured()
	return domain.SessionSnapshot{
		FEN:             m.game.FEN(),
		MovesUCI:        m.game.MovesUCI(),
		HumanColor:      colorName(m.humanColor),
		AIEnabled:       m.aiEnabled,
		SearchDepth:     m.depth,
		CapturedByWhite: byWhite,
		CapturedByBlack: byBlack,
	}
}

func parseColor(s string) (nchess.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return nchess.White, nil
	case "black":
		return nchess.Black, nil
	}
	return nchess.NoColor, fmt.Errorf("unknown color %q", s)
}

func colorName(c nchess.Color) string {
	if c == nchess.White {
		return "white"
	}
	return "black"
}
