// Command lifemesh runs the actor-per-cell Game of Life in a terminal.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lifemesh/lifemesh/board"
	"github.com/lifemesh/lifemesh/config"
	"github.com/lifemesh/lifemesh/display"
	"github.com/lifemesh/lifemesh/runner"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (YAML or JSON); watched for changes")
		width      = flag.Int("width", 0, "board width (overrides config)")
		height     = flag.Int("height", 0, "board height (overrides config)")
		seed       = flag.Int64("seed", 0, "random seed for the initial board (overrides config)")
		tui        = flag.Bool("tui", false, "render full-screen in the terminal instead of streaming to stdout")
	)
	flag.Parse()

	loader := config.NewLoader()

	var (
		cfg     *config.Config
		watcher *config.Watcher
	)
	if *configPath != "" {
		w, err := config.NewWatcher(*configPath, loader)
		if err != nil {
			log.Fatalf("lifemesh: failed to load config: %v", err)
		}
		if err := w.Start(); err != nil {
			log.Fatalf("lifemesh: failed to watch config: %v", err)
		}
		defer w.Stop()
		watcher = w
		cfg = w.GetConfig()
	} else {
		var err error
		cfg, err = loader.AutoLoad()
		if err != nil {
			log.Fatalf("lifemesh: failed to load config: %v", err)
		}
	}

	if *width > 0 {
		cfg.Sim.Width = *width
	}
	if *height > 0 {
		cfg.Sim.Height = *height
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}

	b, err := board.Generate(cfg.Sim.Width, cfg.Sim.Height, board.Options{
		Seed:        cfg.Sim.Seed,
		MailboxSize: cfg.Step.MailboxSize,
		StepTimeout: cfg.Step.Timeout.Std(),
	})
	if err != nil {
		log.Fatalf("lifemesh: failed to build board: %v", err)
	}
	defer b.Shutdown()

	var (
		disp display.Display
		quit <-chan struct{}
	)
	progress := 2 * time.Second
	if *tui {
		screen, err := display.NewScreenDisplay()
		if err != nil {
			log.Fatalf("lifemesh: failed to open terminal display: %v", err)
		}
		disp = screen
		quit = screen.Quit()
		// The screen owns the terminal; drop log output instead of
		// scribbling over it.
		log.SetOutput(io.Discard)
		progress = 0
	} else {
		disp = display.NewWriterDisplay(os.Stdout)
	}
	defer disp.Close()

	r, err := runner.New(b, runner.Options{
		Display:      disp,
		TickInterval: cfg.Render.TickInterval.Std(),
		Style: board.RenderStyle{
			Alive: cfg.Render.AliveRune(),
			Dead:  cfg.Render.DeadRune(),
		},
		Watcher:          watcher,
		ProgressInterval: progress,
	})
	if err != nil {
		log.Fatalf("lifemesh: failed to create runner: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := r.Start(ctx); err != nil {
		log.Fatalf("lifemesh: failed to start: %v", err)
	}
	log.Printf("lifemesh: running %dx%d board (seed %d)",
		cfg.Sim.Width, cfg.Sim.Height, cfg.Sim.Seed)

	if quit != nil {
		select {
		case <-ctx.Done():
		case <-quit:
		}
	} else {
		<-ctx.Done()
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		log.Printf("lifemesh: shutdown: %v", err)
	}
}
