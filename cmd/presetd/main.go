package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/arcaluminis-presets/internal/app"
	"github.com/coreman2200/arcaluminis-presets/internal/config"
	"github.com/coreman2200/arcaluminis-presets/internal/player"
	"github.com/coreman2200/arcaluminis-presets/internal/ws"
)

func main() {
	// ---- Flags (config.yaml and PRESETS_* env override them) ----
	def := config.Default()
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		addr       = flag.String("addr", def.Addr, "HTTP listen address")
		fps        = flag.Int("fps", def.FPS, "target frames per second")
		presetPath = flag.String("preset", "", "preset file (yaml or json)")
		projPath   = flag.String("project", "", "project document with poses and descriptors")
		solverName = flag.String("solver", "", "run a built-in solver (orbit, pulse) instead of a preset")
		loop       = flag.Bool("loop", false, "loop the preset")
		logLevel   = flag.String("log-level", def.LogLevel, "debug | info | warn | error")
		autoplay   = flag.Bool("autoplay", true, "start playback immediately")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Effective config: flags < config.yaml < env ----
	cfg := def
	cfg.Addr, cfg.FPS, cfg.LogLevel = *addr, *fps, *logLevel
	cfg.Preset, cfg.Project, cfg.Solver, cfg.Loop = *presetPath, *projPath, *solverName, *loop
	if err := config.Decode(*configPath, &cfg); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		log.Fatal().Err(err).Msg("environment")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level; using info")
	}

	// ---- Scene ----
	core, err := app.InitCore(cfg, player.Hooks{
		Looped: func(pass int) { log.Debug().Int("pass", pass).Msg("loop") },
		Ended:  func() { log.Info().Msg("preset ended") },
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init")
	}

	state := ws.NewState(core.Player, core.Pool, core.Camera, core.Project, cfg.FPS,
		func() map[string]float64 { return core.Shapes.Params })
	state.ProjectPath = cfg.Project
	state.PushDiagnostics(core.Diagnostics...)
	if *autoplay {
		if err := core.Player.Start(); err != nil {
			log.Warn().Err(err).Msg("nothing to play; waiting for control")
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(state.Handler()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run render loop & server until a signal ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return state.RunRenderLoop(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("mode", string(core.Player.Mode())).Int("objects", core.Pool.Len()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
