// Runs the particle field in a terminal. Mouse motion attracts particles;
// q, Esc or Ctrl-C quits, space pauses, r reseeds.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/constellation/internal/config"
	"github.com/olivierh59500/constellation/internal/field"
	"github.com/olivierh59500/constellation/internal/frame"
	"github.com/olivierh59500/constellation/internal/surface/term"
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file with CONSTELLATION_* overrides")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	logPath := flag.String("log", "", "log file (the screen owns stdout)")
	cellW := flag.Float64("cell-w", term.DefaultCellWidth, "virtual pixels per column")
	cellH := flag.Float64("cell-h", term.DefaultCellHeight, "virtual pixels per row")
	flag.Parse()

	if *logPath != "" {
		lf, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer lf.Close()
		log.SetOutput(lf)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal(err)
	}

	scr, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := scr.Init(); err != nil {
		log.Fatal(err)
	}
	scr.EnableMouse(tcell.MouseMotionEvents)
	scr.EnableFocus()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a := newApp(cfg, scr, *seed, *cellW, *cellH, cancel)

	err = a.run(ctx)
	scr.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

type app struct {
	scr    tcell.Screen
	field  *field.Field
	surf   *term.Surface
	ticker *frame.Ticker
	quit   context.CancelFunc
	paused bool
}

// newApp seeds the field once for the screen at the given cell geometry
func newApp(cfg config.Config, scr tcell.Screen, seed int64, cellW, cellH float64, quit context.CancelFunc) *app {
	a := &app{
		scr:    scr,
		field:  field.New(cfg, rand.New(rand.NewSource(seed))),
		surf:   term.New(scr, cfg.Background),
		ticker: frame.NewTickerTPS(cfg.TPS),
		quit:   quit,
	}
	a.surf.CellWidth, a.surf.CellHeight = cellW, cellH
	a.resize()
	return a
}

// run drives frames until ctx is done. Screen events are forwarded into the
// ticker's inbox so they are applied between frames.
func (a *app) run(ctx context.Context) error {
	inbox := make(chan frame.Func, 64)
	go func() {
		for {
			ev := a.scr.PollEvent()
			if ev == nil {
				return
			}
			select {
			case inbox <- func() { a.handle(ev) }:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.ticker.Schedule(a.frame)
	return a.ticker.Run(ctx, inbox)
}

// frame is one animation step; it chains the next
func (a *app) frame() {
	if !a.paused {
		a.field.Tick()
	}
	a.field.Render(a.surf)
	a.scr.Show()
	a.ticker.Schedule(a.frame)
}

func (a *app) resize() {
	w, h := a.surf.Viewport()
	a.field.Resize(w, h)
}

func (a *app) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.scr.Sync()
		a.resize()
	case *tcell.EventMouse:
		col, row := ev.Position()
		// aim at the cell centre
		a.field.PointerMoved((float64(col)+0.5)*a.surf.CellWidth, (float64(row)+0.5)*a.surf.CellHeight)
	case *tcell.EventFocus:
		a.focus(ev.Focused)
	case *tcell.EventKey:
		a.key(ev.Key(), ev.Rune())
	}
}

func (a *app) focus(focused bool) {
	if !focused {
		a.field.PointerLeft()
	}
}

func (a *app) key(k tcell.Key, r rune) {
	switch {
	case k == tcell.KeyEscape, k == tcell.KeyCtrlC:
		a.quit()
	case k == tcell.KeyRune:
		switch r {
		case 'q':
			a.quit()
		case ' ':
			a.paused = !a.paused
		case 'r':
			a.resize()
		}
	}
}
