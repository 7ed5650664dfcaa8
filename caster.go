package gosie2d

// Caster turns a fan of rays into per-ray hit lists, nearest first.
type Caster interface {
	// RequiresBSP reports whether the caster makes use of a BSP. Casters
	// that need one still work without it, testing every edge instead.
	RequiresBSP() bool
	Cast(rays []Ray, g *Geometry, bsp *BSP, c Camera, m *Metrics) [][]Hit
}

// BruteForceCaster tests every ray against every polygon.
type BruteForceCaster struct{}

func (BruteForceCaster) RequiresBSP() bool { return false }

func (BruteForceCaster) Cast(rays []Ray, g *Geometry, _ *BSP, _ Camera, m *Metrics) [][]Hit {
	out := make([][]Hit, len(rays))
	for i, ray := range rays {
		out[i] = DetectCollisions(ray, g.Polygons(), &m.Collision)
	}
	return out
}

// BSPCaster prunes the edge set with a BSP before casting. Without a BSP, or
// for polygons the BSP does not know, it falls back to testing everything.
type BSPCaster struct{}

func (BSPCaster) RequiresBSP() bool { return true }

func (BSPCaster) Cast(rays []Ray, g *Geometry, bsp *BSP, c Camera, m *Metrics) [][]Hit {
	if bsp == nil {
		m.BSPMisses += g.Len()
		return BruteForceCaster{}.Cast(rays, g, nil, c, m)
	}

	cands, visible, misses := bsp.Candidates(g, c)
	m.UsedBSP = true
	m.EdgesVisible = visible
	m.BSPMisses += misses

	// pruned polygons still count towards the total so the ratio compares
	// with brute force
	total := g.EdgeCount()
	out := make([][]Hit, len(rays))
	for i, ray := range rays {
		var stats CollisionStats
		out[i] = detectCandidates(ray, cands, &stats)
		stats.EdgesTotal = total
		m.Collision.Add(stats)
	}
	return out
}
