package atlas

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/aeskulapp/atlaspack/atlas/internal/polypack"
	"github.com/aeskulapp/atlaspack/atlas/progress"
)

// PolyPacker drives the external polygon container for sprites carrying a
// triangulated mesh. See SPEC_FULL.md §4.4. No multi-page overflow is
// attempted; rotated is always false.
type PolyPacker struct {
	cfg      Config
	progress progress.Sink
}

func NewPolyPacker(cfg Config, sink progress.Sink) *PolyPacker {
	if sink == nil {
		sink = progress.Noop{}
	}
	return &PolyPacker{cfg: cfg, progress: sink}
}

// Pack places every sprite's mesh bounding box and returns the placements;
// the compositor derives the page size from them.
func (p *PolyPacker) Pack(sprites []*Sprite) ([]polyPlacement, error) {
	if p.progress.Cancelled() {
		return nil, ErrCancelled
	}
	p.progress.SetText("Build pack contents...")

	ordered := sortByDescendingMeshArea(sprites)

	inputs := make([]polypack.Input, len(ordered))
	bySpriteID := make(map[int]*Sprite, len(ordered))
	for i, s := range ordered {
		bySpriteID[i] = s
		inputs[i] = polypack.Input{
			ID:      i,
			Bounds:  meshBounds(s),
			Padding: p.cfg.SpriteBorder,
		}
	}

	total := len(inputs)
	placed, _, ok := polypack.Place(inputs, p.cfg.MaxTextureSize)
	if !ok {
		return nil, ErrMaxTextureTooSmall
	}

	result := make([]polyPlacement, len(placed))
	for i, pl := range placed {
		if p.progress.Cancelled() {
			return nil, ErrCancelled
		}
		p.progress.SetText(fmt.Sprintf("Placing: %d/%d", i+1, total))
		result[i] = polyPlacement{
			source: bySpriteID[pl.ID],
			pos:    pl.Pos,
			size:   pl.Size,
		}
	}
	return result, nil
}

func meshBounds(s *Sprite) image.Rectangle {
	if len(s.Mesh.Verts) == 0 {
		return s.Rect
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range s.Mesh.Verts {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

func sortByDescendingMeshArea(sprites []*Sprite) []*Sprite {
	ordered := make([]*Sprite, len(sprites))
	copy(ordered, sprites)
	sort.SliceStable(ordered, func(i, j int) bool {
		bi, bj := meshBounds(ordered[i]), meshBounds(ordered[j])
		return bi.Dx()*bi.Dy() > bj.Dx()*bj.Dy()
	})
	return ordered
}
