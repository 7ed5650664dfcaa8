package gosie2d

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func newTestScene(t *testing.T, caster Caster, worker *BSPWorker) (*Scene, renderScene) {
	t.Helper()
	rs := newRenderScene(t)
	s, err := NewScene(rs.g, rs.cam, NewRenderer(caster), rs.vp, worker)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return s, rs
}

func TestSceneTryRender(t *testing.T) {
	s, _ := newTestScene(t, BruteForceCaster{}, nil)

	frame, ok, err := s.TryRender()
	if err != nil || !ok {
		t.Fatalf("TryRender: ok=%v err=%v", ok, err)
	}
	if len(frame.Commands) == 0 {
		t.Errorf("expected paint commands")
	}
	if s.DroppedFrames() != 0 {
		t.Errorf("nothing should be dropped yet")
	}
}

func TestSceneDropsOverlappingFrame(t *testing.T) {
	s, _ := newTestScene(t, BruteForceCaster{}, nil)

	s.rendering.Lock()
	_, ok, err := s.TryRender()
	s.rendering.Unlock()

	if err != nil || ok {
		t.Fatalf("expected a dropped frame, got ok=%v err=%v", ok, err)
	}
	if s.DroppedFrames() != 1 {
		t.Errorf("expected 1 dropped frame, got %d", s.DroppedFrames())
	}
	if _, ok, _ := s.TryRender(); !ok {
		t.Errorf("rendering should resume once the previous frame is done")
	}
}

func TestSceneEdit(t *testing.T) {
	s, rs := newTestScene(t, BruteForceCaster{}, nil)
	before := s.Geometry()

	next, err := s.Edit(func(g *Geometry) (*Geometry, error) {
		return g.RemovePolygons(rs.glass.ID)
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if s.Geometry() != next || next.Len() != 1 {
		t.Errorf("the edit should be published")
	}
	if before.Len() != 2 {
		t.Errorf("the previous geometry must stay intact")
	}

	_, err = s.Edit(func(g *Geometry) (*Geometry, error) {
		return g.RemovePolygons(rs.glass.ID)
	})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
	if s.Geometry() != next {
		t.Errorf("a failed edit must publish nothing")
	}
}

func TestSceneConcurrentEdits(t *testing.T) {
	s, _ := newTestScene(t, BruteForceCaster{}, nil)
	start := s.Geometry().Len()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for k := 0; k < 5; k++ {
				_, err := s.Edit(func(g *Geometry) (*Geometry, error) {
					p, err := CreatePolygon([]Vector2{{20, 20}, {21, 20}, {21, 21}}, grey)
					if err != nil {
						return nil, err
					}
					return g.AddPolygons(p), nil
				})
				if err != nil {
					t.Errorf("Edit: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	if got := s.Geometry().Len(); got != start+40 {
		t.Errorf("expected %d polygons, got %d", start+40, got)
	}
}

func TestSceneUpdateCamera(t *testing.T) {
	s, rs := newTestScene(t, BruteForceCaster{}, nil)

	c := s.UpdateCamera(func(c Camera, g *Geometry) Camera {
		return c.Move(1, g, 0.2)
	})
	if !vecAlmostEqual(c.Position, rs.cam.Position.Add(Vector2{1, 0})) {
		t.Errorf("expected to move forward, got %v", c.Position)
	}
	if s.Camera() != c {
		t.Errorf("the new camera should be published")
	}
}

func TestSceneWithBSPWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewBSPWorker(ctx)
	defer w.Close()

	s, _ := newTestScene(t, BSPCaster{}, w)
	waitForRevision(t, w, s.Geometry())

	frame, ok, err := s.TryRender()
	if err != nil || !ok {
		t.Fatalf("TryRender: ok=%v err=%v", ok, err)
	}
	if !frame.Metrics.UsedBSP || frame.Metrics.BSPMisses != 0 {
		t.Errorf("expected a BSP render, got %+v", frame.Metrics)
	}

	brute, err := NewRenderer(BruteForceCaster{}).Render(s.Geometry(), s.Camera(), s.Viewport(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(brute.Commands) != len(frame.Commands) {
		t.Errorf("BSP and brute force renders differ: %d vs %d commands", len(frame.Commands), len(brute.Commands))
	}

	// switching casters needs no tree
	s.SetCaster(BruteForceCaster{})
	if _, ok := s.Caster().(BruteForceCaster); !ok {
		t.Errorf("expected the brute force caster, got %T", s.Caster())
	}
	frame, _, _ = s.TryRender()
	if frame.Metrics.UsedBSP {
		t.Errorf("brute force rendering should not use the tree")
	}
}

func TestSceneSetCasterDuringEdits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewBSPWorker(ctx)
	defer w.Close()

	s, _ := newTestScene(t, BruteForceCaster{}, w)
	start := s.Geometry().Len()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				s.SetCaster(BSPCaster{})
			} else {
				s.SetCaster(BruteForceCaster{})
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := s.Edit(func(g *Geometry) (*Geometry, error) {
				p, err := CreatePolygon([]Vector2{{20, 20}, {21, 20}, {21, 21}}, grey)
				if err != nil {
					return nil, err
				}
				return g.AddPolygons(p), nil
			})
			if err != nil {
				t.Errorf("Edit: %v", err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if _, _, err := s.TryRender(); err != nil {
				t.Errorf("TryRender: %v", err)
			}
		}
	}()
	wg.Wait()

	if got := s.Geometry().Len(); got != start+50 {
		t.Errorf("expected %d polygons, got %d", start+50, got)
	}
	if _, ok := s.Caster().(BruteForceCaster); !ok {
		t.Errorf("the last caster set should win, got %T", s.Caster())
	}
	if _, ok := s.Renderer().Caster.(BruteForceCaster); !ok {
		t.Errorf("the renderer the scene was built with must not change")
	}
}
