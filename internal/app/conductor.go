package app

import (
	"context"
	"time"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/player"
)

// Conductor drives a player with a fixed timestep, feeding it audio from a
// source function. It is the headless counterpart of the preview loop.
type Conductor struct {
	Player *player.Player
	// Audio returns band energies for a playback time; nil means silence.
	Audio func(t float64) audio.Bands
	// OnTick sees every result.
	OnTick func(frame int, res player.Result)
	// Realtime paces ticks on a wall-clock ticker instead of running flat out.
	Realtime bool
}

// Run ticks until the player stops on its own, limit seconds of playback
// have been simulated (limit <= 0 means no limit) or ctx is done. It
// returns the number of ticks.
func (c *Conductor) Run(ctx context.Context, fps int, limit float64) int {
	if fps <= 0 {
		fps = 60
	}
	dt := time.Second / time.Duration(fps)
	var tick <-chan time.Time
	if c.Realtime {
		ticker := time.NewTicker(dt)
		defer ticker.Stop()
		tick = ticker.C
	}

	frames := 0
	simulated := 0.0
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return frames
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return frames
		}

		var bands audio.Bands
		if c.Audio != nil {
			bands = c.Audio(c.Player.Elapsed() + dt.Seconds())
		}
		res := c.Player.Tick(dt.Seconds(), bands)
		frames++
		simulated += dt.Seconds()
		if c.OnTick != nil {
			c.OnTick(frames, res)
		}
		if c.Player.State() != player.Running {
			return frames
		}
		if limit > 0 && simulated >= limit {
			return frames
		}
	}
}
