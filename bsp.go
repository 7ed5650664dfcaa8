package gosie2d

import (
	"log"

	"github.com/google/uuid"
)

// EdgeRef names edge Index of a polygon.
type EdgeRef struct {
	Polygon PolygonID
	Index   int
}

// bspSegment is an edge, or the piece of an edge left after splitting.
type bspSegment struct {
	ref  EdgeRef
	line Line
}

type segmentStore struct {
	segments []bspSegment
}

func newSegmentStore(capacity int) *segmentStore {
	return &segmentStore{segments: make([]bspSegment, 0, capacity)}
}

func (s *segmentStore) add(seg bspSegment)   { s.segments = append(s.segments, seg) }
func (s *segmentStore) get(i int) bspSegment { return s.segments[i] }
func (s *segmentStore) count() int           { return len(s.segments) }
func (s *segmentStore) removeAt(i int) bspSegment {
	seg := s.segments[i]
	s.segments = append(s.segments[:i], s.segments[i+1:]...)
	return seg
}

type BspNode struct {
	splitter Line
	// segments lying on the splitter
	segments []bspSegment
	// Left holds what is on the left of the splitter, Right the rest.
	Left  *BspNode
	Right *BspNode
	box   BoundingBox
}

// BSP is a binary space partition over the edges of one geometry revision.
// It only ever reads the polygons it was built from, so a BSP stays safe to
// use after the geometry has moved on.
type BSP struct {
	Revision uuid.UUID
	root     *BspNode
	known    map[PolygonID]*Polygon
	nodes    int
	segments int
}

// splitter search is quadratic; beyond this many segments only a sample is
// scored
const maxSplitterCandidates = 48

func BuildBSP(g *Geometry) *BSP {
	b := &BSP{
		Revision: g.Revision,
		known:    make(map[PolygonID]*Polygon, g.Len()),
	}

	store := newSegmentStore(g.EdgeCount())
	for _, p := range g.Polygons() {
		b.known[p.ID] = p
		for i, seg := range p.segments {
			store.add(bspSegment{ref: EdgeRef{Polygon: p.ID, Index: i}, line: seg})
		}
	}

	log.Printf("Creating BSP tree for %d edges...", store.count())
	if store.count() > 0 {
		b.root = b.createBspTree(store)
	}
	log.Printf("BSP tree created: %d nodes, %d segments", b.nodes, b.segments)

	return b
}

// Current reports whether the tree was built from exactly this revision.
func (b *BSP) Current(g *Geometry) bool {
	return b != nil && g != nil && b.Revision != uuid.Nil && b.Revision == g.Revision
}

func (b *BSP) NodeCount() int    { return b.nodes }
func (b *BSP) SegmentCount() int { return b.segments }

// Knows reports whether p is exactly the polygon value the tree was built
// from.
func (b *BSP) Knows(p *Polygon) bool {
	if b == nil {
		return false
	}
	known, ok := b.known[p.ID]
	return ok && known == p
}

func (b *BSP) createBspTree(segs *segmentStore) *BspNode {
	if segs.count() == 0 {
		return nil
	}

	parent := segs.removeAt(b.choosePlane(segs))
	node := &BspNode{
		splitter: parent.line,
		segments: []bspSegment{parent},
		box:      emptyBox(),
	}
	node.box.extend(parent.line.Start)
	node.box.extend(parent.line.End)
	b.nodes++
	b.segments++

	left := newSegmentStore(segs.count())
	right := newSegmentStore(segs.count())

	for i := 0; i < segs.count(); i++ {
		cur := segs.get(i)
		node.box.extend(cur.line.Start)
		node.box.extend(cur.line.End)

		sa := node.splitter.Side(cur.line.Start)
		sb := node.splitter.Side(cur.line.End)
		switch {
		case sa == 0 && sb == 0:
			node.segments = append(node.segments, cur)
			b.segments++
		case sa >= 0 && sb >= 0:
			left.add(cur)
		case sa <= 0 && sb <= 0:
			right.add(cur)
		default:
			first, second, ok := splitSegment(node.splitter, cur)
			if !ok {
				// numerically parallel; keep it whole on the start side
				if sa > 0 {
					left.add(cur)
				} else {
					right.add(cur)
				}
				continue
			}
			if sa > 0 {
				left.add(first)
				right.add(second)
			} else {
				right.add(first)
				left.add(second)
			}
		}
	}

	if left.count() > 0 {
		node.Left = b.createBspTree(left)
	}
	if right.count() > 0 {
		node.Right = b.createBspTree(right)
	}
	return node
}

// choosePlane picks the segment whose line splits the fewest others.
func (b *BSP) choosePlane(segs *segmentStore) int {
	n := segs.count()
	step := 1
	if n > maxSplitterCandidates {
		step = n / maxSplitterCandidates
	}

	leastSeg, leastTotal := 0, n+1
	for chosen := 0; chosen < n; chosen += step {
		splitter := segs.get(chosen).line
		total := 0
		for i := 0; i < n; i++ {
			if i == chosen {
				continue
			}
			l := segs.get(i).line
			sa := splitter.Side(l.Start)
			sb := splitter.Side(l.End)
			if (sa > 0 && sb < 0) || (sa < 0 && sb > 0) {
				total++
			}
		}
		if total < leastTotal {
			leastTotal = total
			leastSeg = chosen
			if total == 0 {
				break
			}
		}
	}
	return leastSeg
}

// splitSegment cuts seg where it crosses the splitter's line.
func splitSegment(splitter Line, seg bspSegment) (first, second bspSegment, ok bool) {
	point, _, tb, ok := IntersectLines(splitter, seg.line)
	if !ok || tb <= 0 || tb >= 1 {
		return bspSegment{}, bspSegment{}, false
	}
	first = bspSegment{ref: seg.ref, line: Line{Start: seg.line.Start, End: point}}
	second = bspSegment{ref: seg.ref, line: Line{Start: point, End: seg.line.End}}
	return first, second, true
}

// frustum is the view wedge between the two screen-edge rays.
type frustum struct {
	origin Vector2
	left   Vector2
	right  Vector2
}

func newFrustum(c Camera) frustum {
	l, r := c.ScreenEdges()
	return frustum{origin: c.Position, left: l.Direction, right: r.Direction}
}

// outside is true when every point lies beyond the same screen edge.
func (f frustum) outside(points ...Vector2) bool {
	beyondRight, beyondLeft := true, true
	for _, p := range points {
		v := p.Sub(f.origin)
		if Cross2(f.right, v) >= 0 {
			beyondRight = false
		}
		if Cross2(v, f.left) >= 0 {
			beyondLeft = false
		}
	}
	return beyondRight || beyondLeft
}

// Visible walks the tree front to back from the camera and returns the
// edges that may be seen, nearest subtrees first. Each edge appears once.
func (b *BSP) Visible(c Camera) []EdgeRef {
	if b == nil || b.root == nil {
		return nil
	}
	f := newFrustum(c)
	seen := make(map[EdgeRef]bool)
	var out []EdgeRef
	b.root.walk(c.Position, f, func(seg bspSegment) {
		if !seen[seg.ref] {
			seen[seg.ref] = true
			out = append(out, seg.ref)
		}
	})
	return out
}

func (n *BspNode) walk(eye Vector2, f frustum, visit func(bspSegment)) {
	if n == nil {
		return
	}
	corners := n.box.Corners()
	if f.outside(corners[:]...) {
		return
	}

	near, far := n.Left, n.Right
	if n.splitter.Side(eye) < 0 {
		near, far = n.Right, n.Left
	}

	near.walk(eye, f, visit)
	for _, seg := range n.segments {
		if !f.outside(seg.line.Start, seg.line.End) {
			visit(seg)
		}
	}
	far.walk(eye, f, visit)
}

// Candidates resolves the visible edges against g. Polygons the tree does
// not know (added or edited since it was built) are tested in full and
// counted as misses. When g is the revision the tree was built from every
// polygon is known.
func (b *BSP) Candidates(g *Geometry, c Camera) (cands []Candidate, visible, misses int) {
	refs := b.Visible(c)
	byPolygon := make(map[PolygonID][]int)
	for _, ref := range refs {
		byPolygon[ref.Polygon] = append(byPolygon[ref.Polygon], ref.Index)
	}

	current := b.Current(g)
	for _, p := range g.Polygons() {
		if !current && !b.Knows(p) {
			misses++
			cands = append(cands, Candidate{Polygon: p})
			continue
		}
		if idx := byPolygon[p.ID]; len(idx) > 0 {
			visible += len(idx)
			cands = append(cands, Candidate{Polygon: p, Edges: idx})
		}
	}
	return cands, visible, misses
}
