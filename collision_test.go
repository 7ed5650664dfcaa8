package gosie2d

import (
	"math"
	"testing"
)

var (
	red  = SolidMaterial(Color{R: 255, A: 1})
	blue = SolidMaterial(Color{B: 255, A: 1})
)

func TestDetectCollisionsFacesAndOrder(t *testing.T) {
	box, err := CreatePolygon([]Vector2{{4, -2}, {8, -2}, {8, 2}, {4, 2}}, Directed(red, blue))
	if err != nil {
		t.Fatal(err)
	}
	ray := Ray{Origin: Vector2{0, 0}, Direction: Vector2{1, 0}}

	hits := DetectCollisions(ray, []*Polygon{box}, nil)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	near, far := hits[0], hits[1]
	if !almostEqual(near.Distance, 4) || !almostEqual(far.Distance, 8) {
		t.Errorf("expected distances 4 and 8, got %v and %v", near.Distance, far.Distance)
	}
	if near.Face != FaceExterior || far.Face != FaceInterior {
		t.Errorf("expected exterior then interior, got %v then %v", near.Face, far.Face)
	}
	if near.Material.Color != red.Color || far.Material.Color != blue.Color {
		t.Errorf("directed material not applied per face")
	}
	if near.Edge != box.Edge(3).ID || near.EdgeIndex != 3 {
		t.Errorf("expected the left edge, got %s (%d)", near.Edge, near.EdgeIndex)
	}
	if !almostEqual(near.Offset, 2) {
		t.Errorf("expected offset 2 along the edge, got %v", near.Offset)
	}
	if !almostEqual(near.Luminosity, 1) {
		t.Errorf("vertical walls are fully lit, got %v", near.Luminosity)
	}
}

func TestHitMaterialIsACopy(t *testing.T) {
	box, err := CreatePolygon([]Vector2{{4, -2}, {8, -2}, {8, 2}, {4, 2}}, Directed(red, blue))
	if err != nil {
		t.Fatal(err)
	}
	ray := Ray{Origin: Vector2{0, 0}, Direction: Vector2{1, 0}}

	for _, h := range DetectCollisions(ray, []*Polygon{box}, nil) {
		h.Material.Color = Color{G: 255, A: 0.1}
	}

	for i := 0; i < box.EdgeCount(); i++ {
		em := box.Edge(i).Material
		if em.Front.Color != red.Color || em.Back.Color != blue.Color {
			t.Errorf("edge %d material changed through a hit: %+v", i, em)
		}
	}
}

func TestDetectCollisionsFisheye(t *testing.T) {
	box := square(t, 4, -2, 4)
	ray := Ray{Origin: Vector2{0, 0}, Direction: Vector2{1, 0}, Angle: math.Pi / 3}

	hits := DetectCollisions(ray, []*Polygon{box}, nil)
	if len(hits) == 0 {
		t.Fatal("expected a hit")
	}
	if !almostEqual(hits[0].RawDistance, 4) || !almostEqual(hits[0].Distance, 2) {
		t.Errorf("expected raw 4 corrected 2, got %v and %v", hits[0].RawDistance, hits[0].Distance)
	}
}

func TestDetectCollisionsThroughVertex(t *testing.T) {
	box := square(t, 4, -2, 4)
	ray := Ray{Origin: Vector2{0, -6}, Direction: Vector2{1, 1}}

	hits := DetectCollisions(ray, []*Polygon{box}, nil)
	if len(hits) != 2 {
		t.Fatalf("a ray through two corners should hit twice, got %d", len(hits))
	}
	if !vecAlmostEqual(hits[0].Point, Vector2{4, -2}) || !vecAlmostEqual(hits[1].Point, Vector2{8, 2}) {
		t.Errorf("unexpected hit points %v %v", hits[0].Point, hits[1].Point)
	}
}

func TestDetectCollisionsBoxPrefilter(t *testing.T) {
	ahead := square(t, 4, -2, 4)
	aside := square(t, 0, 10, 1)
	ray := Ray{Origin: Vector2{0, 0}, Direction: Vector2{1, 0}}

	var stats CollisionStats
	hits := DetectCollisions(ray, []*Polygon{ahead, aside}, &stats)
	if len(hits) != 2 {
		t.Errorf("expected 2 hits, got %d", len(hits))
	}
	if stats.EdgesTotal != 8 || stats.EdgesTested != 4 || stats.PolygonsSkipped != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if !almostEqual(stats.Ratio(), 0.5) {
		t.Errorf("expected ratio 0.5, got %v", stats.Ratio())
	}
}

func TestDetectCollisionsFromInsideBox(t *testing.T) {
	room := square(t, 0, 0, 10)
	ray := Ray{Origin: Vector2{5, 5}, Direction: Vector2{0, 1}}

	hits := DetectCollisions(ray, []*Polygon{room}, nil)
	if len(hits) != 1 || !almostEqual(hits[0].Distance, 5) {
		t.Fatalf("expected one hit at 5, got %v", hits)
	}
	if hits[0].Face != FaceInterior {
		t.Errorf("a wall seen from inside a counter-clockwise room is its interior face")
	}
}

func hitWithAlpha(d, alpha float64) Hit {
	m := SolidMaterial(Color{R: 10, G: 20, B: 30, A: alpha})
	return Hit{Distance: d, RawDistance: d, Edge: NewEdgeID(), Material: &m}
}

func TestAccumulateTranslucent(t *testing.T) {
	testCases := []struct {
		name     string
		alphas   []float64
		expected int
		sky      bool
	}{
		{"stops at first opaque", []float64{0.5, 0.3, 1.0, 1.0}, 3, false},
		{"opaque first", []float64{1.0, 0.5}, 1, false},
		{"all translucent", []float64{0.5, 0.2}, 3, true},
		{"invisible passes", []float64{0, 1}, 2, false},
		{"nothing hit", nil, 1, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var hits []Hit
			for i, a := range tc.alphas {
				hits = append(hits, hitWithAlpha(float64(i+1), a))
			}
			got := AccumulateTranslucent(hits)
			if len(got) != tc.expected {
				t.Fatalf("expected %d hits, got %d", tc.expected, len(got))
			}
			last := got[len(got)-1]
			if last.IsSky() != tc.sky {
				t.Errorf("expected sky=%v, got %v", tc.sky, last.IsSky())
			}
			if tc.sky && !math.IsInf(last.Distance, 1) {
				t.Errorf("sky should be infinitely far, got %v", last.Distance)
			}
		})
	}
}

func TestNearestSolidHitSkipsImmaterial(t *testing.T) {
	curtain := square(t, 2, -1, 1)
	wall := square(t, 6, -1, 1)
	g := NewGeometry(curtain, wall)
	for _, e := range curtain.Edges() {
		var err error
		g, err = g.SetEdgeMaterial(e.ID, e.Material, true)
		if err != nil {
			t.Fatal(err)
		}
	}

	ray := Ray{Origin: Vector2{0, -0.5}, Direction: Vector2{1, 0}}
	hit, ok := NearestSolidHit(ray, g.Polygons())
	if !ok {
		t.Fatal("expected a solid hit")
	}
	if hit.Polygon != wall.ID || !almostEqual(hit.Distance, 6) {
		t.Errorf("expected the wall at 6, got %s at %v", hit.Polygon, hit.Distance)
	}

	// immaterial edges are still drawn
	all := DetectCollisions(ray, g.Polygons(), nil)
	if len(all) != 4 || all[0].Polygon != curtain.ID || !all[0].Immaterial {
		t.Errorf("expected the curtain to be hit first and flagged immaterial")
	}
}

func TestDetectCollisionAt(t *testing.T) {
	a := square(t, 0, 0, 4)
	b := square(t, 10, 0, 4)
	polys := []*Polygon{a, b}

	testCases := []struct {
		name    string
		point   Vector2
		kind    SelectionKind
		polygon PolygonID
	}{
		{"vertex", Vector2{4.1, 4.05}, SelectVertex, a.ID},
		{"edge", Vector2{12, -0.1}, SelectEdge, b.ID},
		{"inside", Vector2{2, 2}, SelectPolygon, a.ID},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sel, ok := DetectCollisionAt(tc.point, polys, 0.25)
			if !ok {
				t.Fatal("expected a pick")
			}
			if sel.Kind != tc.kind || sel.Polygon != tc.polygon {
				t.Errorf("expected %v of %s, got %v", tc.kind, tc.polygon, sel)
			}
		})
	}

	if sel, ok := DetectCollisionAt(Vector2{7, 7}, polys, 0.25); ok {
		t.Errorf("expected nothing, got %v", sel)
	}

	sel, _ := DetectCollisionAt(Vector2{4.1, 4.05}, polys, 0.25)
	if sel.Vertex != a.Edge(2).Start {
		t.Errorf("expected the top-right vertex, got %s", sel.Vertex)
	}
}
