package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-presets/internal/app"
	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/config"
	"github.com/coreman2200/arcaluminis-presets/internal/driver/fake"
	"github.com/coreman2200/arcaluminis-presets/internal/player"
)

func main() {
	var (
		presetPath string
		projPath   string
		solverName string
		fps        int
		seconds    float64
		bpm        float64
		every      int
		loop       bool
		realtime   bool
	)
	flag.StringVar(&presetPath, "preset", "", "preset file (yaml or json)")
	flag.StringVar(&projPath, "project", "", "project document with poses and descriptors")
	flag.StringVar(&solverName, "solver", "", "run a built-in solver instead of a preset")
	flag.IntVar(&fps, "fps", 60, "simulation frames per second")
	flag.Float64Var(&seconds, "seconds", 0, "stop after this much playback (0: preset duration, 10s for solvers)")
	flag.Float64Var(&bpm, "bpm", 120, "tempo of the synthetic audio envelope")
	flag.IntVar(&every, "every", 15, "print every Nth frame (frames with events always print)")
	flag.BoolVar(&loop, "loop", false, "loop the preset")
	flag.BoolVar(&realtime, "realtime", false, "pace frames on the wall clock")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if presetPath == "" && solverName == "" {
		log.Fatal().Msg("provide -preset or -solver")
	}
	if solverName != "" && seconds <= 0 {
		seconds = 10
	}

	cfg := config.Default()
	cfg.FPS, cfg.Preset, cfg.Project, cfg.Solver, cfg.Loop = fps, presetPath, projPath, solverName, loop
	if err := config.ApplyEnv(&cfg); err != nil {
		log.Fatal().Err(err).Msg("environment")
	}
	core, err := app.InitCore(cfg, player.Hooks{
		Looped: func(pass int) { fmt.Printf("[loop] pass %d\n", pass) },
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init")
	}
	for _, d := range core.Diagnostics {
		fmt.Println(d.String())
	}
	if err := core.Player.Start(); err != nil {
		log.Fatal().Err(err).Msg("start")
	}

	drv := &fake.Driver{Out: os.Stdout, Every: every}
	c := &app.Conductor{
		Player:   core.Player,
		Audio:    audio.Synthetic(bpm),
		Realtime: realtime,
		OnTick: func(_ int, res player.Result) {
			if err := drv.Write(res, core.Pool); err != nil {
				log.Error().Err(err).Msg("write")
			}
		},
	}
	start := time.Now()
	frames := c.Run(context.Background(), cfg.FPS, seconds)
	a := core.Actions.Counters
	fmt.Printf("Done: %d frames, t=%.3f, wall=%s, actions burst=%d flash=%d pose=%d shake=%d\n",
		frames, core.Player.Elapsed(), time.Since(start).Round(time.Millisecond), a.Burst, a.Flash, a.Pose, a.Shake)
}
