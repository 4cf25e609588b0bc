// Package uci provides an engine.Evaluator backed by a UCI engine process
// such as Stockfish. One Engine owns one OS process, spawned once and reused
// for every evaluation, with a single restart attempt if the process dies.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/coach/internal/engine"
)

// Compile-time check that Engine implements engine.Evaluator.
var _ engine.Evaluator = (*Engine)(nil)

const (
	// handshakeTimeout bounds the initial uci/isready exchange.
	handshakeTimeout = 5 * time.Second

	// stopGrace is how long a timed-out search gets to honor "stop" and
	// emit its bestmove before the process is killed.
	stopGrace = 500 * time.Millisecond
)

// Config holds engine process settings.
type Config struct {
	// Path is the engine binary to execute.
	Path string

	// MoveTimeout bounds each Evaluate call. Zero means DefaultMoveTimeout.
	MoveTimeout time.Duration

	// Logger receives process lifecycle events. Nil means no logging.
	Logger *zap.Logger
}

// DefaultMoveTimeout is the per-position evaluation budget when none is set.
const DefaultMoveTimeout = 2 * time.Second

// Engine runs and talks to one UCI engine process.
type Engine struct {
	cfg    Config
	logger *zap.Logger

	mu        sync.Mutex
	proc      *process
	restarted bool
	dead      bool
	closed    bool
}

// process is one live engine process with a line-oriented reader goroutine,
// so reads can be raced against timeouts.
type process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string
}

// New creates an Engine and starts its underlying process.
func New(cfg Config) (*Engine, error) {
	if cfg.Path == "" {
		return nil, errors.New("uci: engine path required")
	}
	if cfg.MoveTimeout <= 0 {
		cfg.MoveTimeout = DefaultMoveTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	e := &Engine{cfg: cfg, logger: cfg.Logger}
	proc, err := e.spawn()
	if err != nil {
		return nil, err
	}
	e.proc = proc
	return e, nil
}

// spawn starts the engine binary and completes the UCI handshake.
func (e *Engine) spawn() (*process, error) {
	cmd := exec.Command(e.cfg.Path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("uci: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("uci: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("uci: starting %q: %w", e.cfg.Path, err)
	}

	p := &process{
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan string, 64),
	}

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
		close(p.lines)
		cmd.Wait()
	}()

	if err := p.handshake(); err != nil {
		p.kill()
		return nil, err
	}

	e.logger.Debug("engine process started",
		zap.String("path", e.cfg.Path),
		zap.Int("pid", cmd.Process.Pid),
	)
	return p, nil
}

func (p *process) send(cmd string) error {
	_, err := io.WriteString(p.stdin, cmd+"\n")
	return err
}

// waitFor reads lines until one starts with the given prefix or the deadline
// passes. The closed-channel case means the process died.
func (p *process) waitFor(prefix string, deadline time.Time) (string, error) {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	for {
		select {
		case line, ok := <-p.lines:
			if !ok {
				return "", engine.ErrUnavailable
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		case <-timer.C:
			return "", engine.ErrTimeout
		}
	}
}

func (p *process) handshake() error {
	deadline := time.Now().Add(handshakeTimeout)
	if err := p.send("uci"); err != nil {
		return fmt.Errorf("uci: handshake: %w", err)
	}
	if _, err := p.waitFor("uciok", deadline); err != nil {
		return fmt.Errorf("uci: waiting for uciok: %w", err)
	}
	if err := p.send("isready"); err != nil {
		return fmt.Errorf("uci: handshake: %w", err)
	}
	if _, err := p.waitFor("readyok", deadline); err != nil {
		return fmt.Errorf("uci: waiting for readyok: %w", err)
	}
	return nil
}

func (p *process) kill() {
	p.stdin.Close()
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
}

// Evaluate runs a depth-limited search on the given position. A call that
// exceeds the move timeout returns engine.ErrTimeout; the process is asked
// to stop and is kept when it complies, killed otherwise. A dead process is
// restarted once for the lifetime of the Engine; after that every call
// returns engine.ErrUnavailable.
func (e *Engine) Evaluate(ctx context.Context, fen string, depth int) (*engine.Evaluation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, engine.ErrClosed
	}

	eval, err := e.evaluateLocked(ctx, fen, depth)
	if err != nil && errors.Is(err, engine.ErrUnavailable) {
		// One restart attempt, then retry this position once.
		if restartErr := e.restartLocked(); restartErr != nil {
			return nil, restartErr
		}
		eval, err = e.evaluateLocked(ctx, fen, depth)
		if err != nil && errors.Is(err, engine.ErrUnavailable) {
			e.markDeadLocked()
		}
	}
	return eval, err
}

func (e *Engine) evaluateLocked(ctx context.Context, fen string, depth int) (*engine.Evaluation, error) {
	if e.dead || e.proc == nil {
		return nil, engine.ErrUnavailable
	}
	p := e.proc

	if err := p.send("position fen " + fen); err != nil {
		return nil, engine.ErrUnavailable
	}
	if err := p.send(fmt.Sprintf("go depth %d", depth)); err != nil {
		return nil, engine.ErrUnavailable
	}

	deadline := time.Now().Add(e.cfg.MoveTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	eval := &engine.Evaluation{}
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.abortSearch(p)
			return nil, ctx.Err()
		case line, ok := <-p.lines:
			if !ok {
				e.proc = nil
				return nil, engine.ErrUnavailable
			}
			if strings.HasPrefix(line, "info ") {
				parseInfo(line, eval)
				continue
			}
			if strings.HasPrefix(line, "bestmove") {
				if fields := strings.Fields(line); len(fields) > 1 {
					eval.BestMove = fields[1]
				}
				return eval, nil
			}
		case <-timer.C:
			e.abortSearch(p)
			return nil, engine.ErrTimeout
		}
	}
}

// abortSearch tells the engine to stop and waits briefly for the pending
// bestmove so the process can be reused. A process that will not stop is
// killed and respawned lazily on the next call.
func (e *Engine) abortSearch(p *process) {
	if err := p.send("stop"); err == nil {
		if _, err := p.waitFor("bestmove", time.Now().Add(stopGrace)); err == nil {
			return
		}
	}
	e.logger.Warn("engine did not honor stop, killing process")
	p.kill()
	e.proc = nil
}

func (e *Engine) restartLocked() error {
	if e.restarted || e.dead {
		e.markDeadLocked()
		return engine.ErrUnavailable
	}
	e.restarted = true
	e.logger.Warn("engine process died, restarting once")

	proc, err := e.spawn()
	if err != nil {
		e.markDeadLocked()
		return engine.ErrUnavailable
	}
	e.proc = proc
	return nil
}

func (e *Engine) markDeadLocked() {
	e.dead = true
	if e.proc != nil {
		e.proc.kill()
		e.proc = nil
	}
}

// Restarted reports whether the restart attempt has been consumed.
func (e *Engine) Restarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restarted
}

// Close terminates the engine process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return engine.ErrClosed
	}
	e.closed = true

	if e.proc != nil {
		// Ask nicely first; kill covers engines that ignore quit.
		e.proc.send("quit")
		e.proc.kill()
		e.proc = nil
	}
	return nil
}

// parseInfo extracts score, depth and principal variation from a UCI info
// line, overwriting eval with the latest values. Later info lines supersede
// earlier ones as the search deepens.
func parseInfo(line string, eval *engine.Evaluation) {
	fields := strings.Fields(line)
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				if d, err := strconv.Atoi(fields[i+1]); err == nil {
					eval.Depth = d
				}
			}
		case "score":
			if i+2 >= len(fields) {
				continue
			}
			switch fields[i+1] {
			case "cp":
				if cp, err := strconv.Atoi(fields[i+2]); err == nil {
					eval.Centipawns = cp
					eval.Mate = 0
				}
			case "mate":
				if m, err := strconv.Atoi(fields[i+2]); err == nil {
					eval.Mate = m
					if m >= 0 {
						eval.Centipawns = engine.MateScore
					} else {
						eval.Centipawns = -engine.MateScore
					}
				}
			}
		case "pv":
			if i+1 < len(fields) {
				eval.BestLine = append(eval.BestLine[:0], fields[i+1:]...)
			}
			return
		}
	}
}
