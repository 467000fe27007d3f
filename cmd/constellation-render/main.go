// Renders the particle field offline into a numbered PNG sequence.
//
// Usage:
//
//	constellation-render -w 1000 -h 800 -frames 120 -out frames/
//
// With -autopilot the pointer drifts over the field along noise curves.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/olivierh59500/constellation/internal/config"
	"github.com/olivierh59500/constellation/internal/field"
	"github.com/olivierh59500/constellation/internal/frame"
	"github.com/olivierh59500/constellation/internal/pointer"
	"github.com/olivierh59500/constellation/internal/surface/raster"
)

type options struct {
	width, height int
	frames        int
	every         int
	out           string
	seed          int64
	autopilot     bool
	away          int
}

func main() {
	var o options
	envFile := flag.String("env", ".env", "optional .env file with CONSTELLATION_* overrides")
	flag.IntVar(&o.width, "w", 0, "viewport width (0 = config window width)")
	flag.IntVar(&o.height, "h", 0, "viewport height (0 = config window height)")
	flag.IntVar(&o.frames, "frames", 60, "number of frames to simulate")
	flag.IntVar(&o.every, "every", 1, "write every n-th frame")
	flag.StringVar(&o.out, "out", "frames", "output directory")
	flag.Int64Var(&o.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.BoolVar(&o.autopilot, "autopilot", true, "drive the pointer with noise")
	flag.IntVar(&o.away, "away", 0, "frames per 240 the autopilot pointer spends outside")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal(err)
	}
	if o.width == 0 {
		o.width = cfg.WindowWidth
	}
	if o.height == 0 {
		o.height = cfg.WindowHeight
	}

	start := time.Now()
	written, err := run(cfg, o)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d frames to %s in %v", written, o.out, time.Since(start).Round(time.Millisecond))
}

// run simulates o.frames frames and returns how many PNGs it wrote
func run(cfg config.Config, o options) (int, error) {
	if o.width <= 0 || o.height <= 0 {
		return 0, fmt.Errorf("invalid viewport %dx%d", o.width, o.height)
	}
	if o.frames < 0 {
		return 0, errors.New("frames must not be negative")
	}
	if o.every <= 0 {
		o.every = 1
	}
	if err := os.MkdirAll(o.out, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	w, h := float64(o.width), float64(o.height)
	f := field.New(cfg, rand.New(rand.NewSource(o.seed)))
	f.Configure(w, h, field.Pointer{})
	surf := raster.New(o.width, o.height, cfg.Background)

	var drift *pointer.Drift
	if o.autopilot {
		drift = pointer.NewDrift(o.seed)
		drift.Away, drift.Cycle = o.away, 240
	}

	var stepper frame.Stepper
	f.Run(&stepper, surf)

	written := 0
	for i := 0; i < o.frames; i++ {
		// pointer events land between frames
		if drift != nil {
			if x, y, ok := drift.Next(w, h); ok {
				f.PointerMoved(x, y)
			} else {
				f.PointerLeft()
			}
		}
		if !stepper.Step() {
			return written, errors.New("frame loop stopped")
		}
		if i%o.every != 0 {
			continue
		}
		if err := writeFrame(filepath.Join(o.out, fmt.Sprintf("frame-%04d.png", i)), surf); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func writeFrame(path string, surf *raster.Surface) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := surf.WritePNG(file); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
