// Package runner provides lifecycle management for the simulation's
// driving loop: render a frame, advance a generation, repeat.
//
// The runner is the "external collaborator" around the engine. It owns the
// current Board value (Step returns a fresh one each generation), paces
// iterations with a ticker, and picks up hot-reloaded render settings from
// a config watcher between steps.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lifemesh/lifemesh/board"
	"github.com/lifemesh/lifemesh/config"
	"github.com/lifemesh/lifemesh/display"
)

// Options contains configuration options for the runner.
type Options struct {
	// Display receives rendered frames. Required.
	Display display.Display

	// TickInterval paces the render+step loop.
	TickInterval time.Duration

	// Style selects render glyphs.
	Style board.RenderStyle

	// Watcher, when set, supplies hot-reloaded tick interval and glyphs.
	Watcher *config.Watcher

	// ProgressInterval paces progress log lines. Zero disables them.
	ProgressInterval time.Duration
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		TickInterval:     200 * time.Millisecond,
		Style:            board.DefaultRenderStyle(),
		ProgressInterval: 2 * time.Second,
	}
}

// Runner drives a board through generations until stopped.
type Runner struct {
	mu    sync.Mutex
	board board.Board
	tick  time.Duration
	style board.RenderStyle

	disp             display.Display
	progressInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started bool
}

// New creates a runner for the given board.
func New(b board.Board, opts Options) (*Runner, error) {
	if opts.Display == nil {
		return nil, errors.New("runner requires a display")
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}
	if opts.Style == (board.RenderStyle{}) {
		opts.Style = board.DefaultRenderStyle()
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		board:            b,
		tick:             opts.TickInterval,
		style:            opts.Style,
		disp:             opts.Display,
		progressInterval: opts.ProgressInterval,
		ctx:              ctx,
		cancel:           cancel,
	}

	if opts.Watcher != nil {
		opts.Watcher.OnConfigChange(func(_, newConfig *config.Config) {
			r.applyConfig(newConfig)
		})
	}

	return r, nil
}

// Name returns the service name.
func (r *Runner) Name() string {
	return "life-runner"
}

// Start begins the driving loop.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return errors.New("runner already started")
	}
	r.started = true

	r.wg.Add(1)
	go r.loop()

	return nil
}

// Stop halts the driving loop, waiting for the current iteration to
// finish or the context to expire.
func (r *Runner) Stop(ctx context.Context) error {
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("runner did not stop in time: %w", ctx.Err())
	}
}

// Generation returns the current board generation.
func (r *Runner) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board.Generation()
}

// applyConfig picks up hot-reloadable settings from a reloaded config.
func (r *Runner) applyConfig(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tick = cfg.Render.TickInterval.Std()
	r.style = board.RenderStyle{
		Alive: cfg.Render.AliveRune(),
		Dead:  cfg.Render.DeadRune(),
	}
	log.Printf("runner: applied config: tick %s, glyphs %q/%q",
		r.tick, cfg.Render.AliveGlyph, cfg.Render.DeadGlyph)
}

func (r *Runner) loop() {
	defer r.wg.Done()

	r.mu.Lock()
	tick := r.tick
	r.mu.Unlock()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var lastProgress time.Time

	for {
		if err := r.iterate(&lastProgress); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, board.ErrStepTimeout) {
				// Recoverable: the board did not advance, try again on the
				// next tick.
				log.Printf("runner: %v", err)
			} else {
				log.Printf("runner: stopping: %v", err)
				return
			}
		}

		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
		}

		// Pick up a hot-reloaded tick interval between iterations.
		r.mu.Lock()
		if r.tick != tick {
			tick = r.tick
			ticker.Reset(tick)
		}
		r.mu.Unlock()
	}
}

// iterate renders the current generation and advances to the next.
func (r *Runner) iterate(lastProgress *time.Time) error {
	r.mu.Lock()
	b := r.board
	style := r.style
	r.mu.Unlock()

	rows, err := b.Render(r.ctx, style)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	alive, err := b.AliveCount(r.ctx)
	if err != nil {
		return fmt.Errorf("alive count failed: %w", err)
	}

	frame := display.Frame{
		Rows:       rows,
		Generation: b.Generation(),
		Alive:      alive,
	}
	if err := r.disp.Show(frame); err != nil {
		return fmt.Errorf("display failed: %w", err)
	}

	if r.progressInterval > 0 && time.Since(*lastProgress) >= r.progressInterval {
		log.Printf("runner: generation %d, %d alive", b.Generation(), alive)
		*lastProgress = time.Now()
	}

	stepped, err := b.Step(r.ctx)
	if err != nil {
		return fmt.Errorf("step failed: %w", err)
	}

	r.mu.Lock()
	r.board = stepped
	r.mu.Unlock()

	return nil
}
