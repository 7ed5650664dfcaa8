package gosie2d

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGeometryRoundTrip(t *testing.T) {
	g := bspWorld(t)

	data, err := StoreGeometry(g)
	if err != nil {
		t.Fatalf("StoreGeometry: %v", err)
	}
	loaded, err := LoadGeometry(data)
	if err != nil {
		t.Fatalf("LoadGeometry: %v", err)
	}

	if loaded.Len() != g.Len() || loaded.EdgeCount() != g.EdgeCount() {
		t.Fatalf("expected %d polygons / %d edges, got %d / %d", g.Len(), g.EdgeCount(), loaded.Len(), loaded.EdgeCount())
	}
	for i, p := range g.Polygons() {
		q := loaded.Polygons()[i]
		checkCycle(t, q)
		pv, qv := p.Vertices(), q.Vertices()
		for k := range pv {
			if pv[k].Position.Sub(qv[k].Position).Len() > Epsilon {
				t.Errorf("polygon %d vertex %d moved from %v to %v", i, k, pv[k].Position, qv[k].Position)
			}
		}
		for k := range p.Edges() {
			if p.Edge(k).Material.Front.Color != q.Edge(k).Material.Front.Color {
				t.Errorf("polygon %d edge %d lost its colour", i, k)
			}
		}
	}
}

func TestGeometryRoundTripMaterials(t *testing.T) {
	lum := 0.8
	tex := TextureRef{Set: uuid.New(), Index: 7}
	front := Material{Color: Color{R: 10, G: 20, B: 30, A: 0.25}, Texture: &tex, Luminosity: &lum}
	back := SolidMaterial(Color{R: 40, G: 50, B: 60, A: 1})

	p, err := CreatePolygon([]Vector2{{0, 0}, {3, 0}, {0, 3}}, Directed(front, back))
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGeometry(p).SetEdgeMaterial(p.Edge(1).ID, Uniform(back), true)
	if err != nil {
		t.Fatal(err)
	}

	data, err := StoreGeometry(g)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadGeometry(data)
	if err != nil {
		t.Fatal(err)
	}

	q := loaded.Polygons()[0]
	e0 := q.Edge(0).Material
	if !e0.IsDirected() || e0.Back.Color != back.Color {
		t.Errorf("directed material lost: %+v", e0)
	}
	if e0.Front.Color != front.Color {
		t.Errorf("expected %v, got %v", front.Color, e0.Front.Color)
	}
	if e0.Front.Texture == nil || *e0.Front.Texture != tex {
		t.Errorf("texture lost: %v", e0.Front.Texture)
	}
	if e0.Front.Luminosity == nil || *e0.Front.Luminosity != lum {
		t.Errorf("luminosity override lost")
	}

	e1 := q.Edge(1)
	if !e1.Immaterial || e1.Material.IsDirected() {
		t.Errorf("edge 1 should be a uniform immaterial edge, got %+v", e1)
	}
}

func TestStoredFormat(t *testing.T) {
	p := mustPolygon(t, Vector2{0, 0}, Vector2{1, 0}, Vector2{0, 1})
	data, err := StoreGeometry(NewGeometry(p))
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string][]map[string][]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unexpected layout: %v\n%s", err, data)
	}
	edges := doc["polygons"][0]["edges"]
	if len(edges) != 3 {
		t.Fatalf("expected 3 stored edges, got %d", len(edges))
	}
	var start struct {
		Vector [2]float64 `json:"vector"`
	}
	if err := json.Unmarshal(edges[1]["start"], &start); err != nil {
		t.Fatal(err)
	}
	if start.Vector != [2]float64{1, 0} {
		t.Errorf("expected edge 1 to start at [1,0], got %v", start.Vector)
	}
}

func TestLoadGeometryTopologyError(t *testing.T) {
	doc := `{"polygons":[
		{"edges":[
			{"start":{"vector":[0,0]},"end":{"vector":[1,0]}},
			{"start":{"vector":[1,0]},"end":{"vector":[0,1]}},
			{"start":{"vector":[0,1]},"end":{"vector":[0,0]}}]},
		{"edges":[
			{"start":{"vector":[5,5]},"end":{"vector":[6,5]}},
			{"start":{"vector":[6,5.5]},"end":{"vector":[5,6]}},
			{"start":{"vector":[5,6]},"end":{"vector":[5,5]}}]}
	]}`

	_, err := LoadGeometry([]byte(doc))
	topo, ok := err.(*TopologyError)
	if !ok {
		t.Fatalf("expected a bare TopologyError, got %T: %v", err, err)
	}
	if topo.Polygon != 1 || topo.Index != 0 || !almostEqual(topo.Gap, 0.5) {
		t.Errorf("unexpected error details %+v", topo)
	}
	if strings.Count(err.Error(), "polygon 1") != 1 {
		t.Errorf("the polygon should be named once: %q", err.Error())
	}
}

func TestLoadGeometryDefaults(t *testing.T) {
	doc := `{"polygons":[{"edges":[
		{"start":{"vector":[0,0]},"end":{"vector":[1,0]}},
		{"start":{"vector":[1,0]},"end":{"vector":[0,1]}},
		{"start":{"vector":[0,1]},"end":{"vector":[0,0]}}]}]}`

	g, err := LoadGeometry([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	e := g.Polygons()[0].Edge(0)
	if e.Material.Front.Color != DefaultMaterial.Front.Color || e.Immaterial {
		t.Errorf("expected the default material, got %+v", e)
	}
}

func TestLoadGeometryInvalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"not json", `{"polygons":`},
		{"wrong type", `{"polygons":[{"edges":"none"}]}`},
		{"too few edges", `{"polygons":[{"edges":[
			{"start":{"vector":[0,0]},"end":{"vector":[1,0]}},
			{"start":{"vector":[1,0]},"end":{"vector":[0,0]}}]}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadGeometry([]byte(tc.doc)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestCameraRoundTrip(t *testing.T) {
	c := mustCamera(t, Vector2{3, 4}, 1.1, 1.3)
	data, err := StoreCamera(c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"position":[3,4]`) {
		t.Errorf("unexpected camera encoding %s", data)
	}

	loaded, err := LoadCamera(data)
	if err != nil {
		t.Fatalf("LoadCamera: %v", err)
	}
	if !vecAlmostEqual(loaded.Position, c.Position) || !vecAlmostEqual(loaded.Direction, c.Direction) || !vecAlmostEqual(loaded.Plane, c.Plane) {
		t.Errorf("expected %+v, got %+v", c, loaded)
	}
	if math.Abs(loaded.FieldOfView()-1.3) > 1e-9 {
		t.Errorf("fov changed to %v", loaded.FieldOfView())
	}
}

func TestLoadCameraInvalid(t *testing.T) {
	_, err := LoadCamera([]byte(`{"position":[0,0],"direction":[0,0],"plane":[0,1]}`))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}
