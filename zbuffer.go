package gosie2d

import (
	"container/heap"
)

// WallProps is one wall span in one screen column. Top and Bottom are pixel
// rows, Left and Right pixel columns.
type WallProps struct {
	Column     int
	Height     float64
	Top        float64
	Bottom     float64
	Left       float64
	Right      float64
	Distance   float64
	Material   *Material
	Polygon    PolygonID
	Edge       EdgeID
	Face       Face
	Luminosity float64
	Offset     float64
}

// Invisible is true for spans that would paint nothing.
func (w WallProps) Invisible() bool {
	return w.Material == nil || w.Material.Color.Invisible()
}

// spanHeap is a max-heap on distance.
type spanHeap []WallProps

func (h spanHeap) Len() int           { return len(h) }
func (h spanHeap) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h spanHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *spanHeap) Push(x any) { *h = append(*h, x.(WallProps)) }

func (h *spanHeap) Pop() any {
	old := *h
	n := len(old)
	w := old[n-1]
	*h = old[:n-1]
	return w
}

// ZBufferColumn holds the spans of one screen column and hands them back
// farthest first.
type ZBufferColumn struct {
	spans spanHeap
	full  bool
}

// Add queues a span. The column turns full once an opaque span arrives and
// stays full until Clear.
func (c *ZBufferColumn) Add(w WallProps) {
	heap.Push(&c.spans, w)
	if w.Material != nil && w.Material.Color.Opaque() {
		c.full = true
	}
}

func (c *ZBufferColumn) Full() bool { return c.full }
func (c *ZBufferColumn) Len() int   { return c.spans.Len() }

// Pop removes and returns the farthest span.
func (c *ZBufferColumn) Pop() (WallProps, bool) {
	if c.spans.Len() == 0 {
		return WallProps{}, false
	}
	return heap.Pop(&c.spans).(WallProps), true
}

func (c *ZBufferColumn) Clear() {
	c.spans = c.spans[:0]
	c.full = false
}

type ZBuffer struct {
	columns []ZBufferColumn
}

func NewZBuffer(columns int) *ZBuffer {
	return &ZBuffer{columns: make([]ZBufferColumn, columns)}
}

func (z *ZBuffer) Width() int { return len(z.columns) }

func (z *ZBuffer) Column(i int) *ZBufferColumn {
	return &z.columns[i]
}

// Add files w under its column. Spans outside the buffer are dropped.
func (z *ZBuffer) Add(w WallProps) {
	if w.Column < 0 || w.Column >= len(z.columns) {
		return
	}
	z.columns[w.Column].Add(w)
}

func (z *ZBuffer) Clear() {
	for i := range z.columns {
		z.columns[i].Clear()
	}
}

// SpanGroup is a run of spans of one edge over contiguous columns, painted
// as a single quad.
type SpanGroup struct {
	Edge    EdgeID
	Polygon PolygonID
	// Spans are ordered by column.
	Spans []WallProps

	farthest float64
	nearest  int
	order    int
}

// Nearest is the span of the group closest to the camera.
func (g *SpanGroup) Nearest() WallProps {
	return g.Spans[g.nearest]
}

// Drawable is false when the nearest span has no height or no alpha.
func (g *SpanGroup) Drawable() bool {
	n := g.Nearest()
	return n.Height > 0 && !n.Invisible()
}

func (g *SpanGroup) First() WallProps { return g.Spans[0] }
func (g *SpanGroup) Last() WallProps  { return g.Spans[len(g.Spans)-1] }

func (g *SpanGroup) add(w WallProps) {
	g.Spans = append(g.Spans, w)
	if w.Distance > g.farthest {
		g.farthest = w.Distance
	}
	if w.Distance < g.Spans[g.nearest].Distance {
		g.nearest = len(g.Spans) - 1
	}
}

// groupHeap pops the farthest ready group; ties go to the group created
// first so the order is deterministic.
type groupHeap []*SpanGroup

func (h groupHeap) Len() int { return len(h) }
func (h groupHeap) Less(i, j int) bool {
	if h[i].farthest != h[j].farthest {
		return h[i].farthest > h[j].farthest
	}
	return h[i].order < h[j].order
}
func (h groupHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *groupHeap) Push(x any)   { *h = append(*h, x.(*SpanGroup)) }
func (h *groupHeap) Pop() any {
	old := *h
	n := len(old)
	g := old[n-1]
	*h = old[:n-1]
	return g
}

// Groups drains every column and returns the spans grouped by edge over
// contiguous columns, ordered back to front. Within any one column a group
// holding a farther span always comes before a group holding a nearer one;
// where columns disagree (walls that cross each other on screen) the group
// reaching farthest is painted first. The buffer is empty afterwards.
func (z *ZBuffer) Groups() []*SpanGroup {
	var groups []*SpanGroup
	open := make(map[EdgeID]*SpanGroup)
	// per column, the groups of its spans from farthest to nearest
	stacks := make([][]*SpanGroup, len(z.columns))

	for c := range z.columns {
		col := &z.columns[c]
		for {
			w, ok := col.Pop()
			if !ok {
				break
			}
			g, ok := open[w.Edge]
			if !ok || g.Last().Column != c-1 {
				g = &SpanGroup{Edge: w.Edge, Polygon: w.Polygon, order: len(groups)}
				g.Spans = append(g.Spans, w)
				g.farthest = w.Distance
				groups = append(groups, g)
				open[w.Edge] = g
			} else {
				g.add(w)
			}
			stacks[c] = append(stacks[c], g)
		}
		col.full = false
	}

	// group a must be painted before b when a is directly behind b in some
	// column
	after := make(map[*SpanGroup][]*SpanGroup)
	indegree := make(map[*SpanGroup]int, len(groups))
	seen := make(map[[2]*SpanGroup]bool)
	for _, stack := range stacks {
		for i := 1; i < len(stack); i++ {
			a, b := stack[i-1], stack[i]
			if a == b || seen[[2]*SpanGroup{a, b}] {
				continue
			}
			seen[[2]*SpanGroup{a, b}] = true
			after[a] = append(after[a], b)
			indegree[b]++
		}
	}

	ready := &groupHeap{}
	for _, g := range groups {
		if indegree[g] == 0 {
			heap.Push(ready, g)
		}
	}

	out := make([]*SpanGroup, 0, len(groups))
	done := make(map[*SpanGroup]bool, len(groups))
	for len(out) < len(groups) {
		if ready.Len() == 0 {
			// cycle: force the farthest remaining group
			var pick *SpanGroup
			for _, g := range groups {
				if done[g] {
					continue
				}
				if pick == nil || g.farthest > pick.farthest {
					pick = g
				}
			}
			indegree[pick] = 0
			heap.Push(ready, pick)
		}

		g := heap.Pop(ready).(*SpanGroup)
		if done[g] {
			continue
		}
		done[g] = true
		out = append(out, g)
		for _, next := range after[g] {
			if done[next] {
				continue
			}
			indegree[next]--
			if indegree[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}
	return out
}
