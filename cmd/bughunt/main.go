package main

import (
	gocontext "context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/cgast/bughunt/internal/config"
	"github.com/cgast/bughunt/pkg/events"
	"github.com/cgast/bughunt/pkg/gitx"
	"github.com/cgast/bughunt/pkg/hunt"
	"github.com/cgast/bughunt/pkg/ops"
	"github.com/cgast/bughunt/pkg/release"
)

func main() {
	// Check for subcommands that don't need full initialization.
	if len(os.Args) >= 2 && os.Args[1] == "init" {
		if err := handleInit(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading config: %v\n", err)
	}

	mode := detectMode()
	if mode == "" && cfg.Mode != "" {
		mode = cfg.Mode
	}

	a, err := buildApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	// Handle subcommands that need full initialization.
	if len(os.Args) >= 2 && os.Args[1] == "run" {
		if err := handleRun(a); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch mode {
	case "interactive":
		runInteractiveREPL(a)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode: %s\n", mode)
		os.Exit(1)
	}
}

// app bundles everything a front end needs.
type app struct {
	cfg      config.Config
	log      zerolog.Logger
	bus      *events.MemoryBus
	registry *ops.Registry
	router   *ops.Router
	close    func()
}

// buildApp wires the git layer, hunt engine, releaser and operation
// registry from the configuration.
func buildApp(cfg config.Config) (*app, error) {
	log := newLogger(cfg.LogLevel)
	bus := events.NewMemoryBus()
	ctx := gocontext.Background()

	repo, err := gitx.Open(ctx, cfg.Repo.Path,
		gitx.WithLogger(log),
		gitx.WithDefaultBranch(cfg.Repo.DefaultBranch),
	)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", cfg.Repo.Path, err)
	}

	var recorder hunt.Recorder = hunt.NopRecorder{}
	closeRecorder := func() {}
	if cfg.History.Persist {
		if dir := filepath.Dir(cfg.History.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create history dir: %w", err)
			}
		}
		boltRec, err := hunt.NewBoltRecorder(cfg.History.Path)
		if err != nil {
			log.Warn().Err(err).Msg("hunt history disabled")
		} else {
			recorder = boltRec
			closeRecorder = func() {
				if err := boltRec.Close(); err != nil {
					log.Warn().Err(err).Msg("closing history store")
				}
			}
		}
	}

	engineOpts := []hunt.Option{
		hunt.WithBus(bus),
		hunt.WithRecorder(recorder),
		hunt.WithLogger(log),
		hunt.WithSettle(time.Duration(cfg.Hunt.RestartWait) * time.Second),
	}
	if cfg.Hunt.AutoExpand {
		engineOpts = append(engineOpts, hunt.WithAutoExpand(cfg.Hunt.MaxDays))
	}
	engine := hunt.NewEngine(repo, engineOpts...)

	releaseOpts := []release.Option{release.WithLogger(log)}
	if cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "" {
		client, err := release.NewReleaseClient(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo)
		if err != nil {
			log.Warn().Err(err).Msg("github release lookup disabled")
		} else {
			releaseOpts = append(releaseOpts, release.WithGitHub(client))
		}
	}
	releaser := release.New(repo, releaseOpts...)

	registry := ops.NewRegistry()
	tk := &ops.Toolkit{
		Repo:     repo,
		Engine:   engine,
		Releaser: releaser,
		Recorder: recorder,
		LogPath:  cfg.Repo.LogPath,
		Log:      log,
	}
	if err := ops.RegisterBuiltin(registry, tk); err != nil {
		return nil, fmt.Errorf("register operations: %w", err)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		bus:      bus,
		registry: registry,
		router:   ops.NewRouter(registry),
		close:    closeRecorder,
	}, nil
}

// newLogger builds the stderr console logger.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func detectMode() string {
	for i, arg := range os.Args[1:] {
		if arg == "--mode" && i+2 < len(os.Args) {
			return os.Args[i+2]
		}
		if len(arg) > 7 && arg[:7] == "--mode=" {
			return arg[7:]
		}
	}
	if m := os.Getenv("BUGHUNT_MODE"); m != "" {
		return m
	}
	return ""
}

func configPath() string {
	return filepath.Join(".bughunt", "config.yaml")
}
