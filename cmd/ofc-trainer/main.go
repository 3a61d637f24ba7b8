// ofc-trainer runs MCCFR self-play training and periodically checkpoints
// the learned strategy table.
package main

import (
	"flag"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	ofc "github.com/timpalpant/go-ofc"
	"github.com/timpalpant/go-ofc/game"
)

type config struct {
	Iterations uint   `env:"OFC_ITERATIONS" env-default:"100000" env-description:"total training iterations"`
	Workers    int    `env:"OFC_WORKERS" env-default:"0" env-description:"traversal goroutines (0 = NumCPU)"`
	Checkpoint string `env:"OFC_CHECKPOINT" env-default:"ofc-strategy.bin" env-description:"strategy checkpoint path"`
	SaveEvery  uint   `env:"OFC_SAVE_EVERY" env-default:"1000" env-description:"iterations between checkpoints"`
	Resume     bool   `env:"OFC_RESUME" env-default:"true" env-description:"resume from an existing checkpoint"`
	Exhaustive bool   `env:"OFC_EXHAUSTIVE" env-default:"false" env-description:"use the exhaustive placement generator"`
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		glog.Exitf("reading environment config: %v", err)
	}
	flag.UintVar(&cfg.Iterations, "iterations", cfg.Iterations, "total training iterations")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "traversal goroutines (0 = NumCPU)")
	flag.StringVar(&cfg.Checkpoint, "checkpoint", cfg.Checkpoint, "strategy checkpoint path")
	flag.UintVar(&cfg.SaveEvery, "save_every", cfg.SaveEvery, "iterations between checkpoints")
	flag.BoolVar(&cfg.Resume, "resume", cfg.Resume, "resume from an existing checkpoint")
	flag.BoolVar(&cfg.Exhaustive, "exhaustive", cfg.Exhaustive, "use the exhaustive placement generator")
	flag.Parse()

	params := ofc.Params{Workers: cfg.Workers}
	if cfg.Exhaustive {
		params.Generator = game.ExhaustiveGenerator{}
	}
	solver := ofc.NewSolver(params)

	if cfg.Resume {
		if err := solver.LoadStrategy(cfg.Checkpoint); err != nil {
			glog.Exitf("loading checkpoint: %v", err)
		}
	}

	runID := uuid.New()
	glog.Infof("run %v: training %d iterations with %d workers (resuming from %d infosets)",
		runID, cfg.Iterations, cfg.Workers, solver.NumInfoSets())

	start := time.Now()
	bar := progressbar.Default(int64(cfg.Iterations), "training")
	remaining := cfg.Iterations
	for remaining > 0 {
		chunk := cfg.SaveEvery
		if chunk == 0 || chunk > remaining {
			chunk = remaining
		}
		solver.Train(uint32(chunk))
		remaining -= chunk
		_ = bar.Add(int(chunk))

		if err := solver.SaveStrategy(cfg.Checkpoint); err != nil {
			glog.Exitf("run %v: saving checkpoint: %v", runID, err)
		}
	}
	_ = bar.Finish()

	glog.Infof("run %v: finished %d iterations in %v, %d infosets saved to %v",
		runID, cfg.Iterations, time.Since(start).Round(time.Second),
		solver.NumInfoSets(), cfg.Checkpoint)
	glog.Flush()
}
