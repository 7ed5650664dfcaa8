package gosie2d

import (
	"math"
	"sort"
)

// Hit is one intersection of a ray with an edge. A hit with an empty Edge
// is the sky: the ray left the geometry without meeting an opaque wall.
type Hit struct {
	Point Vector2
	// Distance is corrected for fisheye; RawDistance is Euclidean.
	Distance    float64
	RawDistance float64
	Polygon     PolygonID
	Edge        EdgeID
	EdgeIndex   int
	Face        Face
	Material    *Material
	Immaterial  bool
	Luminosity  float64
	// Offset is how far along the edge the hit lies, from its start.
	Offset float64
}

func skyHit() Hit {
	return Hit{
		Distance:    math.Inf(1),
		RawDistance: math.Inf(1),
		EdgeIndex:   -1,
	}
}

func (h Hit) IsSky() bool {
	return h.Edge == ""
}

// CollisionStats counts how much work the bounding-box prefilter saved.
type CollisionStats struct {
	EdgesTested     int
	EdgesTotal      int
	PolygonsSkipped int
}

func (s *CollisionStats) Add(o CollisionStats) {
	s.EdgesTested += o.EdgesTested
	s.EdgesTotal += o.EdgesTotal
	s.PolygonsSkipped += o.PolygonsSkipped
}

// Ratio is the share of edges that needed an exact intersection test.
func (s CollisionStats) Ratio() float64 {
	if s.EdgesTotal == 0 {
		return 0
	}
	return float64(s.EdgesTested) / float64(s.EdgesTotal)
}

// Candidate restricts collision testing to some edges of a polygon. A nil
// Edges slice means every edge.
type Candidate struct {
	Polygon *Polygon
	Edges   []int
}

func AllCandidates(polygons []*Polygon) []Candidate {
	out := make([]Candidate, len(polygons))
	for i, p := range polygons {
		out[i] = Candidate{Polygon: p}
	}
	return out
}

// DetectCollisions returns every hit of ray against the polygons, nearest
// first. stats may be nil.
func DetectCollisions(ray Ray, polygons []*Polygon, stats *CollisionStats) []Hit {
	var hits []Hit
	for _, p := range polygons {
		hits = collidePolygon(ray, p, nil, hits, stats)
	}
	return finishHits(hits)
}

func detectCandidates(ray Ray, candidates []Candidate, stats *CollisionStats) []Hit {
	var hits []Hit
	for _, c := range candidates {
		hits = collidePolygon(ray, c.Polygon, c.Edges, hits, stats)
	}
	return finishHits(hits)
}

// rayCrossesBox tests the ray against the four box sides.
func rayCrossesBox(ray Ray, box BoundingBox) bool {
	if box.Contains(ray.Origin) {
		return true
	}
	for _, side := range box.Sides() {
		if _, _, _, ok := IntersectRay(ray, side); ok {
			return true
		}
	}
	return false
}

func collidePolygon(ray Ray, p *Polygon, indices []int, hits []Hit, stats *CollisionStats) []Hit {
	if stats != nil {
		stats.EdgesTotal += p.EdgeCount()
	}
	if !rayCrossesBox(ray, p.box) {
		if stats != nil {
			stats.PolygonsSkipped++
		}
		return hits
	}

	test := func(i int) {
		if stats != nil {
			stats.EdgesTested++
		}
		seg := p.segments[i]
		point, _, u, ok := IntersectRay(ray, seg)
		if !ok {
			return
		}

		e := p.edges[i]
		face := FaceInterior
		if Cross2(ray.Direction, seg.Direction()) < 0 {
			face = FaceExterior
		}
		mat := e.Material.For(face)
		lum := p.EdgeLuminosity(i)
		if mat.Luminosity != nil {
			lum = *mat.Luminosity
		}

		raw := point.Sub(ray.Origin).Len()
		hits = append(hits, Hit{
			Point:       point,
			Distance:    raw * math.Cos(ray.Angle),
			RawDistance: raw,
			Polygon:     p.ID,
			Edge:        e.ID,
			EdgeIndex:   i,
			Face:        face,
			Material:    mat,
			Immaterial:  e.Immaterial,
			Luminosity:  lum,
			Offset:      u * seg.Length(),
		})
	}

	if indices == nil {
		for i := range p.segments {
			test(i)
		}
	} else {
		for _, i := range indices {
			test(i)
		}
	}
	return hits
}

// finishHits sorts by distance and drops the second hit when a ray passes
// exactly through a vertex shared by two edges of one polygon.
func finishHits(hits []Hit) []Hit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	out := hits[:0]
	for _, h := range hits {
		if n := len(out); n > 0 {
			prev := out[n-1]
			if prev.Polygon == h.Polygon && math.Abs(prev.RawDistance-h.RawDistance) < 1e-9 {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// AccumulateTranslucent keeps hits while they are translucent and stops
// after the first opaque one. When every hit is translucent a sky hit is
// appended.
//
// Immaterial edges take part like any other edge: the flag only affects
// movement, never what is drawn.
func AccumulateTranslucent(hits []Hit) []Hit {
	out := make([]Hit, 0, len(hits)+1)
	for _, h := range hits {
		out = append(out, h)
		if h.Material != nil && !h.Material.Color.Translucent() {
			return out
		}
	}
	return append(out, skyHit())
}

// NearestSolidHit is the closest hit on an edge that blocks movement.
func NearestSolidHit(ray Ray, polygons []*Polygon) (Hit, bool) {
	for _, h := range DetectCollisions(ray, polygons, nil) {
		if !h.Immaterial {
			return h, true
		}
	}
	return Hit{}, false
}

// DetectCollisionAt picks the feature under point: the nearest vertex within
// tolerance, else the nearest edge within tolerance, else the polygon that
// contains the point.
func DetectCollisionAt(point Vector2, polygons []*Polygon, tolerance float64) (Selection, bool) {
	best := Selection{Distance: math.Inf(1)}

	for _, p := range polygons {
		for _, e := range p.edges {
			d := p.vertices[e.Start].Sub(point).Len()
			if d <= tolerance && d < best.Distance {
				best = Selection{Kind: SelectVertex, Polygon: p.ID, Vertex: e.Start, Distance: d}
			}
		}
	}
	if best.Kind != SelectNone {
		return best, true
	}

	for _, p := range polygons {
		for i, seg := range p.segments {
			d := seg.DistanceTo(point)
			if d <= tolerance && d < best.Distance {
				best = Selection{Kind: SelectEdge, Polygon: p.ID, Edge: p.edges[i].ID, Distance: d}
			}
		}
	}
	if best.Kind != SelectNone {
		return best, true
	}

	for i := len(polygons) - 1; i >= 0; i-- {
		if polygons[i].Contains(point) {
			return Selection{Kind: SelectPolygon, Polygon: polygons[i].ID}, true
		}
	}
	return Selection{}, false
}
