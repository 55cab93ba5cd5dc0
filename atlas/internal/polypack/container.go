// Package polypack implements the polygon-packing container collaborator
// (SPEC_FULL.md §4.4). No standalone polygon-nesting library exists in the
// retrieved corpus (a search for "nest"/"polygon pack"/"shape pack" across
// _examples/other_examples turned up nothing) — so, per spec.md §4.4, where
// only a bounds rectangle and an axis-aligned placement list are required,
// this container packs each mesh's bounding box through the same
// github.com/ForeverZer0/rectpack primitive atlas/internal/rectpack wraps,
// then hands placements back keyed by ID the same way. The polygon shape
// itself is only consulted later, by the compositor, for the clip mask.
package polypack

import (
	"image"

	"github.com/aeskulapp/atlaspack/atlas/internal/rectpack"
)

// Input is one mesh's axis-aligned bounding content to place.
type Input struct {
	ID      int
	Bounds  image.Rectangle // local bounding box of the mesh's vertices
	Padding int             // sprite_border, applied like rectpack's border
}

// Placed is the location assigned to one Input's bounding box.
type Placed struct {
	ID   int
	Pos  image.Point
	Size image.Point
}

// Bounds is the minimal rectangle (anchored at the origin) containing every
// Placed rect.
type Bounds struct {
	Width, Height int
}

// Place packs every input's padded bounding box within maxSize x maxSize. No
// multi-page overflow is attempted (per spec.md §4.4); a false result means
// the caller should treat it as an internal failure for this run.
func Place(inputs []Input, maxSize int) (placements []Placed, bounds Bounds, ok bool) {
	rpInputs := make([]rectpack.Input, len(inputs))
	for i, in := range inputs {
		rpInputs[i] = rectpack.Input{
			ID:     in.ID,
			Width:  in.Bounds.Dx() + in.Padding,
			Height: in.Bounds.Dy() + in.Padding,
		}
	}

	placed, _, success := rectpack.Place(rpInputs, maxSize, maxSize, false)
	if !success {
		return nil, Bounds{}, false
	}

	result := make([]Placed, len(placed))
	for i, p := range placed {
		result[i] = Placed{
			ID:   p.ID,
			Pos:  image.Pt(p.X, p.Y),
			Size: image.Pt(p.Width, p.Height),
		}
		if p.X+p.Width > bounds.Width {
			bounds.Width = p.X + p.Width
		}
		if p.Y+p.Height > bounds.Height {
			bounds.Height = p.Y + p.Height
		}
	}
	return result, bounds, true
}
