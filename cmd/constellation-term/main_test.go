package main

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/constellation/internal/config"
	"github.com/olivierh59500/constellation/internal/field"
	"github.com/olivierh59500/constellation/internal/surface/term"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("UTF-8")
	if err := scr.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(scr.Fini)
	scr.SetSize(100, 40)
	return scr
}

func newTestApp(t *testing.T) (*app, tcell.SimulationScreen, *bool) {
	t.Helper()
	scr := newScreen(t)
	quit := false
	a := newApp(config.Default(), scr, 1, term.DefaultCellWidth, term.DefaultCellHeight, func() { quit = true })
	return a, scr, &quit
}

func TestNewAppFillsScreen(t *testing.T) {
	a, _, _ := newTestApp(t)
	w, h := a.field.Size()
	if w != 100*term.DefaultCellWidth || h != 40*term.DefaultCellHeight {
		t.Errorf("field size = %v×%v", w, h)
	}
	if a.field.Len() == 0 {
		t.Error("no particles seeded")
	}
}

func TestNewAppUsesCellGeometry(t *testing.T) {
	scr := newScreen(t)
	a := newApp(config.Default(), scr, 1, 4, 8, func() {})

	if w, h := a.field.Size(); w != 400 || h != 320 {
		t.Errorf("field size = %v×%v, want 400×320", w, h)
	}
	want := field.DensityFrom(config.Default()).Count(400, 320)
	if a.field.Len() != want {
		t.Errorf("Len = %d, want %d", a.field.Len(), want)
	}

	// a single seeding draws exactly what a fresh field does
	once := field.New(config.Default(), rand.New(rand.NewSource(1)))
	once.Configure(400, 320, field.Pointer{})
	pa, pb := a.field.Particles(), once.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestHandleResize(t *testing.T) {
	a, scr, _ := newTestApp(t)
	scr.SetSize(40, 20)
	a.handle(tcell.NewEventResize(40, 20))

	if w, h := a.field.Size(); w != 40*term.DefaultCellWidth || h != 20*term.DefaultCellHeight {
		t.Errorf("field size after resize = %v×%v", w, h)
	}
}

func TestHandleMouseAndFocus(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.handle(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone))

	p := a.field.Pointer()
	if !p.Present || p.X != 3.5*term.DefaultCellWidth || p.Y != 2.5*term.DefaultCellHeight {
		t.Fatalf("pointer = %+v", p)
	}

	a.focus(false)
	if a.field.Pointer().Present {
		t.Error("pointer still present after focus loss")
	}
}

func TestHandleKeys(t *testing.T) {
	a, _, quit := newTestApp(t)

	a.key(tcell.KeyRune, ' ')
	if !a.paused {
		t.Error("space did not pause")
	}
	a.frame()
	if a.field.Frame() != 0 {
		t.Error("paused frame advanced the field")
	}

	a.key(tcell.KeyRune, 'q')
	if !*quit {
		t.Error("q did not quit")
	}
}

func TestFrameRendersParticles(t *testing.T) {
	a, scr, _ := newTestApp(t)
	a.frame()

	if a.field.Frame() != 1 {
		t.Fatalf("frame = %d, want 1", a.field.Frame())
	}
	lit := 0
	for _, p := range a.field.Particles() {
		col, row := a.surf.Cell(p.X, p.Y)
		if r, _, _, _ := scr.GetContent(col, row); r != ' ' {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no particle cells drawn")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := a.run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("run = %v, want deadline exceeded", err)
	}
	if a.ticker.Steps() == 0 {
		t.Error("no frames ran")
	}
}
