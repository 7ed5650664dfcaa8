package gosie2d

import (
	"sync"
	"sync/atomic"
)

// Scene publishes the geometry and camera a renderer draws. Both are
// replaced wholesale: readers always see a complete value, never one in the
// middle of an edit.
type Scene struct {
	geometry atomic.Pointer[Geometry]
	camera   atomic.Pointer[Camera]

	renderer *Renderer
	caster   atomic.Pointer[casterSlot]
	viewport Viewport
	worker   *BSPWorker

	rendering sync.Mutex
	dropped   atomic.Int64
}

// casterSlot boxes a Caster so differently typed casters can share one
// atomic pointer.
type casterSlot struct {
	Caster
}

// NewScene wires a renderer to its inputs. worker may be nil, in which case
// BSP casters fall back to testing every edge.
func NewScene(g *Geometry, c Camera, r *Renderer, vp Viewport, worker *BSPWorker) (*Scene, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		g = NewGeometry()
	}
	if r == nil {
		r = NewRenderer(nil)
	}
	caster := r.Caster
	if caster == nil {
		caster = BruteForceCaster{}
	}
	s := &Scene{renderer: r, viewport: vp, worker: worker}
	s.caster.Store(&casterSlot{caster})
	s.camera.Store(&c)
	s.SetGeometry(g)
	return s, nil
}

func (s *Scene) Geometry() *Geometry { return s.geometry.Load() }
func (s *Scene) Camera() Camera      { return *s.camera.Load() }
func (s *Scene) Viewport() Viewport  { return s.viewport }

// Renderer is the renderer the scene was built with. Its Caster field is
// not updated by SetCaster; use Caster for the current one.
func (s *Scene) Renderer() *Renderer { return s.renderer }

// Caster is the casting strategy the next frame will use.
func (s *Scene) Caster() Caster { return s.caster.Load().Caster }

// SetGeometry publishes g and queues a BSP rebuild for it.
func (s *Scene) SetGeometry(g *Geometry) {
	s.geometry.Store(g)
	s.rebuild(g)
}

func (s *Scene) rebuild(g *Geometry) {
	if s.worker != nil && s.Caster().RequiresBSP() {
		s.worker.Submit(g)
	}
}

// Edit applies fn to the current geometry and publishes the result. If
// another edit was published in between, fn runs again on the newer value.
// A failed edit publishes nothing.
func (s *Scene) Edit(fn func(*Geometry) (*Geometry, error)) (*Geometry, error) {
	for {
		old := s.geometry.Load()
		next, err := fn(old)
		if err != nil {
			return nil, err
		}
		if s.geometry.CompareAndSwap(old, next) {
			s.rebuild(next)
			return next, nil
		}
	}
}

func (s *Scene) SetCamera(c Camera) {
	s.camera.Store(&c)
}

// UpdateCamera replaces the camera with fn's result, retrying on a
// concurrent update.
func (s *Scene) UpdateCamera(fn func(Camera, *Geometry) Camera) Camera {
	for {
		old := s.camera.Load()
		next := fn(*old, s.geometry.Load())
		if s.camera.CompareAndSwap(old, &next) {
			return next
		}
	}
}

// SetCaster swaps the casting strategy for the following frames, queueing
// a BSP build if the new caster wants one. A frame already rendering keeps
// the caster it started with.
func (s *Scene) SetCaster(c Caster) {
	if c == nil {
		c = BruteForceCaster{}
	}
	s.caster.Store(&casterSlot{c})
	s.rebuild(s.geometry.Load())
}

// TryRender renders the latest geometry and camera. When a render is still
// in progress the frame is dropped and ok is false.
func (s *Scene) TryRender() (frame Frame, ok bool, err error) {
	if !s.rendering.TryLock() {
		s.dropped.Add(1)
		return Frame{}, false, nil
	}
	defer s.rendering.Unlock()

	r := *s.renderer
	r.Caster = s.Caster()

	var bsp *BSP
	if s.worker != nil && r.Caster.RequiresBSP() {
		bsp = s.worker.Latest()
	}
	frame, err = r.Render(s.geometry.Load(), *s.camera.Load(), s.viewport, bsp)
	if err != nil {
		return Frame{}, false, err
	}
	return frame, true, nil
}

// DroppedFrames counts renders skipped because another was in progress.
func (s *Scene) DroppedFrames() int64 {
	return s.dropped.Load()
}
