package gosie2d

import "fmt"

type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectVertex
	SelectEdge
	SelectPolygon
)

func (k SelectionKind) String() string {
	switch k {
	case SelectVertex:
		return "vertex"
	case SelectEdge:
		return "edge"
	case SelectPolygon:
		return "polygon"
	default:
		return "none"
	}
}

// Selection is a picked feature. Kind says which of Vertex or Edge is set;
// Polygon is always the owner.
type Selection struct {
	Kind     SelectionKind
	Polygon  PolygonID
	Vertex   VertexID
	Edge     EdgeID
	Distance float64
}

func (s Selection) String() string {
	switch s.Kind {
	case SelectVertex:
		return fmt.Sprintf("vertex %s of %s", s.Vertex, s.Polygon)
	case SelectEdge:
		return fmt.Sprintf("edge %s of %s", s.Edge, s.Polygon)
	case SelectPolygon:
		return fmt.Sprintf("polygon %s", s.Polygon)
	default:
		return "nothing"
	}
}

// Validate reports a *NotFoundError when the selection no longer refers to
// something in g, for example after an unrelated edit replaced the polygon.
// Malformed ids are rejected before any lookup.
func (g *Geometry) Validate(s Selection) error {
	if err := s.checkIDs(); err != nil {
		return err
	}
	switch s.Kind {
	case SelectNone:
		return nil
	case SelectPolygon:
		_, err := g.Polygon(s.Polygon)
		return err
	case SelectVertex:
		p, err := g.Polygon(s.Polygon)
		if err != nil {
			return err
		}
		if _, ok := p.VertexPosition(s.Vertex); !ok {
			return notFound(KindVertex, string(s.Vertex))
		}
		return nil
	case SelectEdge:
		p, err := g.Polygon(s.Polygon)
		if err != nil {
			return err
		}
		if p.EdgeIndex(s.Edge) < 0 {
			return notFound(KindEdge, string(s.Edge))
		}
		return nil
	default:
		return fmt.Errorf("unknown selection kind %d", s.Kind)
	}
}

func (s Selection) checkIDs() error {
	if s.Kind == SelectNone {
		return nil
	}
	if err := ValidateID(string(s.Polygon), PrefixPolygon); err != nil {
		return fmt.Errorf("invalid %s selection: %w", s.Kind, err)
	}
	switch s.Kind {
	case SelectVertex:
		if err := ValidateID(string(s.Vertex), PrefixVertex); err != nil {
			return fmt.Errorf("invalid vertex selection: %w", err)
		}
	case SelectEdge:
		if err := ValidateID(string(s.Edge), PrefixEdge); err != nil {
			return fmt.Errorf("invalid edge selection: %w", err)
		}
	}
	return nil
}
