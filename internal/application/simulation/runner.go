package simulation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/domain/events"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

// substepEpsilon absorbs float drift when frame time accumulates
const substepEpsilon = 1e-9

// RunnerConfig controls how wall-clock frames map to simulated time
type RunnerConfig struct {
	// SubstepSeconds is the fixed simulated step passed to every Tick
	SubstepSeconds float64
	// TimeAcceleration multiplies simulated time per frame
	TimeAcceleration float64
	// FrameRate is the number of frames per wall-clock second
	FrameRate float64
	// Clock measures how long frames take; defaults to the system clock
	Clock shared.Clock
}

// RunStats summarises the wall time a Run spent
type RunStats struct {
	Frames       int
	Overruns     int // frames that took longer than one frame interval
	SlowestFrame time.Duration
	WallTime     time.Duration
}

// Runner is the single owner of a World's call serialization. It turns each
// frame into a whole number of fixed substeps (carrying any remainder to the
// next frame) and applies queued ship reports between frames.
type Runner struct {
	engine  *Engine
	cfg     RunnerConfig
	limiter *rate.Limiter
	carry   float64
	onFrame FrameHook
	stats   RunStats
}

// FrameHook runs on the runner goroutine after each frame, so it may read or
// snapshot the world safely. frame counts from 1.
type FrameHook func(w *World, frame int)

// NewRunner creates a runner
func NewRunner(engine *Engine, cfg RunnerConfig) (*Runner, error) {
	if cfg.SubstepSeconds <= 0 {
		return nil, fmt.Errorf("substep must be positive, got %v", cfg.SubstepSeconds)
	}
	if cfg.TimeAcceleration <= 0 {
		return nil, fmt.Errorf("time acceleration must be positive, got %v", cfg.TimeAcceleration)
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %v", cfg.FrameRate)
	}
	if cfg.Clock == nil {
		cfg.Clock = shared.NewRealClock()
	}

	return &Runner{
		engine:  engine,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.FrameRate), 1),
	}, nil
}

// OnFrame installs a hook called after every frame of Run
func (r *Runner) OnFrame(hook FrameHook) {
	r.onFrame = hook
}

// FrameSeconds is the wall-clock length of one frame
func (r *Runner) FrameSeconds() float64 {
	return 1 / r.cfg.FrameRate
}

// Stats reports frame timings of the last Run
func (r *Runner) Stats() RunStats {
	return r.stats
}

// frameBudget is the wall time one frame may take before it delays the next
func (r *Runner) frameBudget() time.Duration {
	return time.Duration(float64(time.Second) / r.cfg.FrameRate)
}

// Frame advances the world by frameSeconds × acceleration of simulated time
// in fixed substeps and returns how many substeps ran
func (r *Runner) Frame(w *World, frameSeconds float64) int {
	if frameSeconds <= 0 {
		return 0
	}

	r.carry += frameSeconds * r.cfg.TimeAcceleration
	steps := 0
	for r.carry+substepEpsilon >= r.cfg.SubstepSeconds {
		r.engine.Tick(w, r.cfg.SubstepSeconds)
		r.carry -= r.cfg.SubstepSeconds
		steps++
	}
	if r.carry < 0 {
		r.carry = 0
	}
	return steps
}

// Run paces frames at the configured frame rate. Reports received on the
// channel are applied between frames, on the same goroutine as Tick. A
// non-positive frame count runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context, w *World, frames int, reports <-chan events.Report) error {
	logger := common.LoggerFromContext(ctx)
	r.stats = RunStats{}
	started := r.cfg.Clock.Now()

	for frame := 0; frames <= 0 || frame < frames; frame++ {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				r.stats.WallTime = r.cfg.Clock.Now().Sub(started)
				logger.Log(common.LevelInfo, "Simulation stopped", r.summary(w))
				return nil
			}
			return fmt.Errorf("frame pacing failed: %w", err)
		}

		frameStart := r.cfg.Clock.Now()
		r.drain(w, reports)
		r.Frame(w, r.FrameSeconds())
		if r.onFrame != nil {
			r.onFrame(w, frame+1)
		}
		r.recordFrame(logger, frame+1, r.cfg.Clock.Now().Sub(frameStart))
	}

	r.stats.WallTime = r.cfg.Clock.Now().Sub(started)
	logger.Log(common.LevelInfo, "Simulation run finished", r.summary(w))
	return nil
}

// recordFrame accounts one frame's wall time. A frame slower than the frame
// interval delays every frame after it, so simulated time falls behind.
func (r *Runner) recordFrame(logger common.Logger, frame int, took time.Duration) {
	r.stats.Frames++
	if took > r.stats.SlowestFrame {
		r.stats.SlowestFrame = took
	}
	if took <= r.frameBudget() {
		return
	}
	r.stats.Overruns++
	logger.Log(common.LevelDebug, "Frame overran its interval", map[string]interface{}{
		"frame":    frame,
		"took":     took.String(),
		"interval": r.frameBudget().String(),
	})
}

func (r *Runner) summary(w *World) map[string]interface{} {
	return map[string]interface{}{
		"frames":          r.stats.Frames,
		"overruns":        r.stats.Overruns,
		"slowest_frame":   r.stats.SlowestFrame.String(),
		"wall_time":       r.stats.WallTime.String(),
		"elapsed_seconds": w.ElapsedSeconds,
	}
}

// drain applies every report currently queued without blocking
func (r *Runner) drain(w *World, reports <-chan events.Report) {
	if reports == nil {
		return
	}
	for {
		select {
		case report, ok := <-reports:
			if !ok {
				return
			}
			r.engine.HandleReport(w, report)
		default:
			return
		}
	}
}
