package gosie2d

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixVertex  = "vert"
	PrefixEdge    = "edge"
	PrefixPolygon = "poly"
)

type (
	VertexID  string
	EdgeID    string
	PolygonID string
)

func newID(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewVertexID() VertexID   { return VertexID(newID(PrefixVertex)) }
func NewEdgeID() EdgeID       { return EdgeID(newID(PrefixEdge)) }
func NewPolygonID() PolygonID { return PolygonID(newID(PrefixPolygon)) }

// ValidateID checks that id is a well formed typeid carrying expectedPrefix.
func ValidateID(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
