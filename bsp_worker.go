package gosie2d

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// BSPWorker rebuilds BSP trees in the background. Submit never blocks and
// only the newest pending geometry is built; Latest never blocks and keeps
// returning the last finished tree until a newer one arrives.
type BSPWorker struct {
	requests chan *Geometry
	latest   atomic.Pointer[BSP]
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	built    atomic.Int64
}

func NewBSPWorker(ctx context.Context) *BSPWorker {
	w := &BSPWorker{
		requests: make(chan *Geometry, 1),
		stop:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run(ctx)
	return w
}

func (w *BSPWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case g := <-w.requests:
			if w.latest.Load().Current(g) {
				continue
			}
			bsp := BuildBSP(g)
			w.latest.Store(bsp)
			w.built.Add(1)
			log.Printf("BSP worker: revision %s ready", g.Revision)
		}
	}
}

// Submit queues g for building, replacing any request not yet started.
func (w *BSPWorker) Submit(g *Geometry) {
	if g == nil {
		return
	}
	select {
	case <-w.stop:
		return
	default:
	}

	for {
		select {
		case w.requests <- g:
			return
		default:
		}
		select {
		case old := <-w.requests:
			log.Printf("BSP worker: skipping stale revision %s", old.Revision)
		default:
		}
	}
}

// Latest returns the most recently built tree, or nil before the first one.
func (w *BSPWorker) Latest() *BSP {
	return w.latest.Load()
}

// Built counts finished trees.
func (w *BSPWorker) Built() int64 {
	return w.built.Load()
}

func (w *BSPWorker) Close() {
	w.once.Do(func() { close(w.stop) })
	w.wg.Wait()
}
