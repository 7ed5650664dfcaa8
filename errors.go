package gosie2d

import "fmt"

// TopologyError reports a break in a polygon's edge cycle: the end of edge
// Index is Gap units away from the start of the following edge.
type TopologyError struct {
	Polygon int
	Index   int
	Gap     float64
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("polygon %d: edge %d does not connect to the next edge (gap %.4f)", e.Polygon, e.Index, e.Gap)
}

// DegenerateGeometryError reports input with too few distinct points, or an
// edit that would produce a zero-length edge.
type DegenerateGeometryError struct {
	Points int
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	if e.Reason != "" {
		return "degenerate geometry: " + e.Reason
	}
	return fmt.Sprintf("degenerate geometry: %d distinct points, need at least 3", e.Points)
}

// InvalidPolygonError reports an edit that would leave a polygon with fewer
// than 3 vertices or otherwise break it.
type InvalidPolygonError struct {
	Polygon PolygonID
	Reason  string
}

func (e *InvalidPolygonError) Error() string {
	return fmt.Sprintf("invalid polygon %s: %s", e.Polygon, e.Reason)
}

type EntityKind string

const (
	KindVertex  EntityKind = "vertex"
	KindEdge    EntityKind = "edge"
	KindPolygon EntityKind = "polygon"
)

// NotFoundError reports an identity that is not part of the geometry it was
// used with.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func notFound(kind EntityKind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
