package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

const (
	windowTitle = "go-flocking-engine"
	fpsCacheMs  = 500
)

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.RGBA{R: 100, G: 200, B: 255, A: 255})
}

// Game is the thin ebiten shell around the engine: it measures frame time,
// forwards input, calls Advance once per frame and draws the snapshot.
type Game struct {
	sim       *flock.Simulation
	width     int
	height    int
	lastFrame time.Time
	fps       *flock.FpsCounter
	fpsCache  *flock.FpsCache
	paused    bool
}

func newGame(sim *flock.Simulation) *Game {
	cfg := sim.Config()
	return &Game{
		sim:       sim,
		width:     int(cfg.WorldWidth),
		height:    int(cfg.WorldHeight),
		lastFrame: time.Now(),
		fps:       flock.NewFpsCounter(),
		fpsCache:  flock.NewFpsCache(fpsCacheMs * time.Millisecond),
	}
}

func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastFrame).Seconds()
	g.lastFrame = now

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Randomise()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.sim.Centralise()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.sim.Zeroise()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.sim.Scatter(time.Now().UnixNano())
	}

	// The cursor is a steering target: attraction while the button is held,
	// repulsion otherwise.
	mx, my := ebiten.CursorPosition()
	g.sim.SetPointer(geometry.Vector2D{X: float64(mx), Y: float64(my)})
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.sim.SetPointerMode(flock.PointerAttract)
	} else {
		g.sim.SetPointerMode(flock.PointerRepel)
	}

	if !g.paused {
		g.sim.Advance(dt)
	}

	g.fps.Tick()
	g.fpsCache.Poll(g.fps, func(fps int) {
		ebiten.SetWindowTitle(fmt.Sprintf("%s - %02d fps", windowTitle, fps))
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	for _, b := range g.sim.Snapshot() {
		drawBoid(screen, b)
	}

	msg := fmt.Sprintf("FPS: %.1f\nBoids: %d\n[R]andomise [C]entralise [F] zeroise [S]catter\nmouse: hold to attract",
		g.fps.Fps(), g.sim.Len())
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

// drawBoid renders one agent as a small triangle pointing along its heading.
func drawBoid(screen *ebiten.Image, b flock.BoidSnapshot) {
	tipX := b.Position.X + math.Cos(b.Heading)*6
	tipY := b.Position.Y + math.Sin(b.Heading)*6
	rightX := b.Position.X + math.Cos(b.Heading+2.5)*5
	rightY := b.Position.Y + math.Sin(b.Heading+2.5)*5
	leftX := b.Position.X + math.Cos(b.Heading-2.5)*5
	leftY := b.Position.Y + math.Sin(b.Heading-2.5)*5

	vertices := []ebiten.Vertex{
		{
			DstX: float32(tipX),
			DstY: float32(tipY),
			SrcX: 1, SrcY: 1,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		},
		{
			DstX: float32(rightX),
			DstY: float32(rightY),
			SrcX: 1, SrcY: 1,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		},
		{
			DstX: float32(leftX),
			DstY: float32(leftY),
			SrcX: 1, SrcY: 1,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		},
	}
	indices := []uint16{0, 1, 2}
	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(vertices, indices, whiteImage, op)
}

func (g *Game) Layout(w, h int) (int, int) {
	return g.width, g.height
}

func main() {
	var (
		configFile = flag.String("config", "", "JSON config file (defaults used when empty)")
		schemaFile = flag.String("schema", "config.schema.json", "JSON schema for config validation")
		boids      = flag.Int("boids", 0, "override population size")
		width      = flag.Float64("width", 0, "override world width")
		height     = flag.Float64("height", 0, "override world height")
		workers    = flag.Int("workers", -1, "override force-computation workers (0 = all CPUs)")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stdout)

	cfg := flock.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = flock.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			logger.Fatal(err)
		}
	}
	// CLI overrides win over file values, file values over defaults.
	if *boids > 0 {
		cfg.Population = *boids
	}
	if *width > 0 {
		cfg.WorldWidth = *width
	}
	if *height > 0 {
		cfg.WorldHeight = *height
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	sim, err := flock.New(cfg, flock.WithLogger(logger))
	if err != nil {
		logger.Fatal(err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle(windowTitle)
	if err := ebiten.RunGame(newGame(sim)); err != nil {
		logger.Fatal(err)
	}
}
