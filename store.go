package gosie2d

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// DefaultMaterial is given to stored edges that carry no material.
var DefaultMaterial = Uniform(SolidMaterial(Color{R: 200, G: 200, B: 200, A: 1}))

type storedVector struct {
	Vector [2]float64 `json:"vector"`
}

type storedTexture struct {
	Set   uuid.UUID `json:"set"`
	Index int       `json:"index"`
}

type storedMaterial struct {
	Color      [4]float64      `json:"color"`
	Texture    *storedTexture  `json:"texture,omitempty"`
	Luminosity *float64        `json:"luminosity,omitempty"`
	Back       *storedMaterial `json:"back,omitempty"`
}

type storedEdge struct {
	Start      storedVector    `json:"start"`
	End        storedVector    `json:"end"`
	Material   *storedMaterial `json:"material,omitempty"`
	Immaterial bool            `json:"immaterial,omitempty"`
}

type storedPolygon struct {
	Edges []storedEdge `json:"edges"`
}

type storedGeometry struct {
	Polygons []storedPolygon `json:"polygons"`
}

func storeMaterial(m Material) *storedMaterial {
	out := &storedMaterial{
		Color: [4]float64{float64(m.Color.R), float64(m.Color.G), float64(m.Color.B), m.Color.A},
	}
	if m.Texture != nil {
		out.Texture = &storedTexture{Set: m.Texture.Set, Index: m.Texture.Index}
	}
	if m.Luminosity != nil {
		lum := *m.Luminosity
		out.Luminosity = &lum
	}
	return out
}

func storeEdgeMaterial(em EdgeMaterial) *storedMaterial {
	out := storeMaterial(em.Front)
	if em.Back != nil {
		out.Back = storeMaterial(*em.Back)
	}
	return out
}

func channel(v float64) uint8 {
	return uint8(clamp(int(v+0.5), 0, 255))
}

func (sm *storedMaterial) material() Material {
	m := Material{
		Color: Color{R: channel(sm.Color[0]), G: channel(sm.Color[1]), B: channel(sm.Color[2]), A: sm.Color[3]},
	}
	if m.Color.A < 0 {
		m.Color.A = 0
	} else if m.Color.A > 1 {
		m.Color.A = 1
	}
	if sm.Texture != nil {
		m.Texture = &TextureRef{Set: sm.Texture.Set, Index: sm.Texture.Index}
	}
	if sm.Luminosity != nil {
		lum := *sm.Luminosity
		m.Luminosity = &lum
	}
	return m
}

func (sm *storedMaterial) edgeMaterial() EdgeMaterial {
	if sm == nil {
		return DefaultMaterial.Clone()
	}
	em := Uniform(sm.material())
	if sm.Back != nil {
		back := sm.Back.material()
		em.Back = &back
	}
	return em
}

// StoreGeometry encodes g as JSON: per polygon, its edges in cycle order
// with raw endpoint positions. Identities are not stored.
func StoreGeometry(g *Geometry) ([]byte, error) {
	doc := storedGeometry{Polygons: make([]storedPolygon, 0, g.Len())}
	for _, p := range g.Polygons() {
		sp := storedPolygon{Edges: make([]storedEdge, 0, p.EdgeCount())}
		for _, se := range p.Store() {
			sp.Edges = append(sp.Edges, storedEdge{
				Start:      storedVector{Vector: se.Start},
				End:        storedVector{Vector: se.End},
				Material:   storeEdgeMaterial(se.Material),
				Immaterial: se.Immaterial,
			})
		}
		doc.Polygons = append(doc.Polygons, sp)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return data, nil
}

// LoadGeometry decodes JSON written by StoreGeometry, assigning fresh
// identities. Continuity is checked per polygon; the first failure is
// returned and nothing is loaded.
func LoadGeometry(data []byte) (*Geometry, error) {
	var doc storedGeometry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode geometry: %w", err)
	}

	polygons := make([]*Polygon, 0, len(doc.Polygons))
	for i, sp := range doc.Polygons {
		edges := make([]StoredEdge, len(sp.Edges))
		for k, se := range sp.Edges {
			edges[k] = StoredEdge{
				Start:      se.Start.Vector,
				End:        se.End.Vector,
				Material:   se.Material.edgeMaterial(),
				Immaterial: se.Immaterial,
			}
		}
		// the typed errors reach the caller as they are; TopologyError names
		// the polygon itself
		p, err := loadPolygon(i, edges)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, p)
	}
	return NewGeometry(polygons...), nil
}

func LoadGeometryFile(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry file: %w", err)
	}
	return LoadGeometry(data)
}

func SaveGeometryFile(path string, g *Geometry) error {
	data, err := StoreGeometry(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geometry file: %w", err)
	}
	return nil
}

func StoreCamera(c Camera) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode camera: %w", err)
	}
	return data, nil
}

func LoadCamera(data []byte) (Camera, error) {
	var c Camera
	if err := json.Unmarshal(data, &c); err != nil {
		return Camera{}, fmt.Errorf("failed to decode camera: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Camera{}, err
	}
	return c, nil
}
