package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultReadyTimeout = 4 * time.Second
	quitGraceTimeout    = 2 * time.Second
)

// Session drives one engine process over the UCI text protocol. A session is
// short-lived: start the process, handshake, run one fixed-depth search, close.
type Session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	name   string
	mu     sync.Mutex
}

// NewSession launches the engine binary and completes the uci/isready
// handshake. The caller must Close the session when done with it.
func NewSession(ctx context.Context, binaryPath string) (*Session, error) {
	cmd := exec.CommandContext(ctx, binaryPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdoutPipe.Close()
		return nil, fmt.Errorf("start engine: %w", err)
	}

	s := &Session{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdoutPipe),
	}

	if err := s.initialize(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// EngineName returns the identity the engine reported during the handshake,
// or an empty string when it reported none.
func (s *Session) EngineName() string { return s.name }

// BestMove searches the given position to a fixed depth and returns the
// engine's chosen move in UCI notation.
func (s *Session) BestMove(ctx context.Context, fen string, depth int) (string, error) {
	if depth < 1 {
		depth = 1
	}

	if err := s.send(buildPositionCommand(fen)); err != nil {
		return "", fmt.Errorf("send position: %w", err)
	}
	if err := s.send("go depth " + strconv.Itoa(depth) + "\n"); err != nil {
		return "", fmt.Errorf("send go: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, computeSearchTimeout(depth))
	defer cancel()

	for {
		line, err := s.readLine(searchCtx)
		if err != nil {
			return "", fmt.Errorf("read line: %w", err)
		}
		if !strings.HasPrefix(line, "bestmove") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 || parts[1] == "(none)" || parts[1] == "0000" {
			return "", fmt.Errorf("engine reported no best move: %q", line)
		}
		return parts[1], nil
	}
}

// EnsureReady round-trips an isready/readyok exchange.
func (s *Session) EnsureReady(ctx context.Context) error {
	readyCtx, cancel := context.WithTimeout(ctx, defaultReadyTimeout)
	defer cancel()

	if err := s.send("isready\n"); err != nil {
		return fmt.Errorf("send isready: %w", err)
	}
	if err := s.awaitToken(readyCtx, "readyok"); err != nil {
		return fmt.Errorf("wait readyok: %w", err)
	}
	return nil
}

// Close asks the engine to quit and kills it if it lingers.
func (s *Session) Close() error {
	_ = s.send("quit\n")
	s.mu.Lock()
	if s.stdin != nil {
		s.stdin.Close()
	}
	s.mu.Unlock()

	if s.cmd == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(quitGraceTimeout):
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		return <-done
	}
}

func buildPositionCommand(fen string) string {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		return "position startpos\n"
	}
	return "position fen " + fen + "\n"
}

func computeSearchTimeout(depth int) time.Duration {
	base := time.Duration(depth) * 300 * time.Millisecond
	if base < 6*time.Second {
		base = 6 * time.Second
	}
	if base > 20*time.Second {
		base = 20 * time.Second
	}
	return base
}

func (s *Session) initialize(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, defaultReadyTimeout)
	defer cancel()

	if err := s.send("uci\n"); err != nil {
		return fmt.Errorf("send uci: %w", err)
	}
	for {
		line, err := s.readLine(initCtx)
		if err != nil {
			return fmt.Errorf("wait uciok: %w", err)
		}
		if strings.HasPrefix(line, "id name ") {
			s.name = strings.TrimSpace(strings.TrimPrefix(line, "id name "))
			continue
		}
		if strings.Contains(line, "uciok") {
			break
		}
	}

	if err := s.send("isready\n"); err != nil {
		return fmt.Errorf("send isready: %w", err)
	}
	if err := s.awaitToken(initCtx, "readyok"); err != nil {
		return fmt.Errorf("wait readyok: %w", err)
	}
	return nil
}

func (s *Session) send(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.stdin, msg)
	return err
}

func (s *Session) awaitToken(ctx context.Context, token string) error {
	for {
		line, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		if strings.Contains(line, token) {
			return nil
		}
	}
}

func (s *Session) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		line, err := s.stdout.ReadString('\n')
		ch <- result{line: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.line, res.err
	}
}
