package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/smasonuk/gosie2d"
	"github.com/smasonuk/gosie2d/ebitenpaint"
)

var (
	skyColor   = color.RGBA{R: 30, G: 34, B: 48, A: 255}
	floorColor = color.RGBA{R: 52, G: 46, B: 40, A: 255}
)

type Game struct {
	cfg     *gosie2d.Config
	scene   *gosie2d.Scene
	worker  *gosie2d.BSPWorker
	painter *ebitenpaint.Painter
	minimap ebitenpaint.Minimap

	frame   gosie2d.Frame
	lastLog time.Time
	frames  int
	useBSP  bool
}

func NewGame(ctx context.Context, cfg *gosie2d.Config) (*Game, error) {
	geometry, err := loadMap(cfg.MapPath)
	if err != nil {
		return nil, err
	}

	cam, err := gosie2d.NewCamera(gosie2d.Vector2{2, 2}, math.Pi/4, cfg.FieldOfView)
	if err != nil {
		return nil, err
	}

	worker := gosie2d.NewBSPWorker(ctx)
	scene, err := gosie2d.NewScene(geometry, cam, cfg.Renderer(), cfg.Viewport(), worker)
	if err != nil {
		worker.Close()
		return nil, err
	}

	log.Printf("Loaded %d polygons, %d edges", geometry.Len(), geometry.EdgeCount())
	return &Game{
		cfg:     cfg,
		scene:   scene,
		worker:  worker,
		painter: ebitenpaint.NewPainter(nil),
		minimap: ebitenpaint.Minimap{Origin: gosie2d.Vector2{10, float64(cfg.ScreenHeight) - 10}, Scale: 12},
		lastLog: time.Now(),
		useBSP:  cfg.UseBSP,
	}, nil
}

func loadMap(path string) (*gosie2d.Geometry, error) {
	if path != "" {
		log.Printf("Loading map %s...", path)
		return gosie2d.LoadGeometryFile(path)
	}
	log.Println("No map configured, building demo room...")
	return demoRoom()
}

func demoRoom() (*gosie2d.Geometry, error) {
	stone := gosie2d.Uniform(gosie2d.SolidMaterial(gosie2d.NewColor(180, 170, 150, 1)))
	brick := gosie2d.Directed(
		gosie2d.SolidMaterial(gosie2d.NewColor(170, 70, 50, 1)),
		gosie2d.SolidMaterial(gosie2d.NewColor(90, 110, 160, 1)),
	)
	glass := gosie2d.Uniform(gosie2d.SolidMaterial(gosie2d.NewColor(120, 200, 230, 0.35)))

	room, err := gosie2d.CreatePolygon([]gosie2d.Vector2{{0, 0}, {0, 16}, {16, 16}, {16, 0}}, stone)
	if err != nil {
		return nil, err
	}
	pillar, err := gosie2d.CreatePolygon([]gosie2d.Vector2{{6, 6}, {8, 6}, {8, 8}, {6, 8}}, brick)
	if err != nil {
		return nil, err
	}
	pane, err := gosie2d.CreatePolygon([]gosie2d.Vector2{{10, 3}, {13, 3}, {13, 3.2}, {10, 3.2}}, glass)
	if err != nil {
		return nil, err
	}
	g := gosie2d.NewGeometry(room, pillar, pane)

	// the glass is see-through and walk-through
	for _, e := range pane.Edges() {
		g, err = g.SetEdgeMaterial(e.ID, e.Material, true)
		if err != nil {
			return nil, err
		}
	}

	g, copies, err := g.DuplicatePolygons([]gosie2d.PolygonID{pillar.ID}, gosie2d.Vector2{4, 4})
	if err != nil {
		return nil, err
	}
	return g.RotatePolygons([]gosie2d.PolygonID{copies[0].ID}, gosie2d.Vector2{14, 11})
}

func (g *Game) Update() error {
	cfg := g.cfg
	move, strafe, turn := 0.0, 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		move += cfg.MoveStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		move -= cfg.MoveStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		strafe += cfg.MoveStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		strafe -= cfg.MoveStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		turn += cfg.TurnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		turn -= cfg.TurnStep
	}

	if move != 0 || strafe != 0 || turn != 0 {
		g.scene.UpdateCamera(func(c gosie2d.Camera, geo *gosie2d.Geometry) gosie2d.Camera {
			c = c.Rotate(turn)
			c = c.Move(move, geo, cfg.Clearance)
			return c.Strafe(strafe, geo, cfg.Clearance)
		})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.useBSP = !g.useBSP
		if g.useBSP {
			g.scene.SetCaster(gosie2d.BSPCaster{})
		} else {
			g.scene.SetCaster(gosie2d.BruteForceCaster{})
		}
		log.Printf("BSP casting: %v", g.useBSP)
	}

	frame, ok, err := g.scene.TryRender()
	if err != nil {
		return err
	}
	if ok {
		g.frame = frame
		g.frames++
	}

	if time.Since(g.lastLog) >= time.Second {
		log.Printf("%d frames, %d dropped | %s", g.frames, g.scene.DroppedFrames(), g.frame.Metrics)
		g.frames = 0
		g.lastLog = time.Now()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := float32(g.cfg.ScreenWidth), float32(g.cfg.ScreenHeight)
	screen.Fill(skyColor)
	vector.DrawFilledRect(screen, 0, h/2, w, h/2, floorColor, false)

	g.painter.Draw(screen, g.frame.Commands)
	g.minimap.Draw(screen, g.scene.Geometry(), g.scene.Camera())

	m := g.frame.Metrics
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %0.2f  BSP: %v\nedges %d/%d visible %d misses %d\ncast %v zbuf %v draw %v",
		ebiten.ActualFPS(), m.UsedBSP,
		m.Collision.EdgesTested, m.Collision.EdgesTotal, m.EdgesVisible, m.BSPMisses,
		m.CastTime, m.ZBufferTime, m.DrawTime))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.ScreenWidth, g.cfg.ScreenHeight
}

func main() {
	cfg, err := gosie2d.LoadConfig("GOSIE")
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game, err := NewGame(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.worker.Close()

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle("gosie2d wall viewer")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
