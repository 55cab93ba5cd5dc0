// Package rectpack adapts github.com/ForeverZer0/rectpack to the placement
// contract SPEC_FULL.md §4.3 expects: given a set of sized inputs and a
// canvas, report which fit and which don't, with no implicit growth — the
// caller (atlas.RectPacker) drives the canvas search.
package rectpack

import (
	"github.com/ForeverZer0/rectpack"
)

// Input is one rectangle to place, referenced by an opaque ID the caller
// assigns (the atlas driver uses the sprite's index in its input slice).
type Input struct {
	ID            int
	Width, Height int
}

// Placed is the location assigned to one Input.
type Placed struct {
	ID            int
	X, Y          int
	Width, Height int
	Rotated       bool
}

// Place attempts to fit every input within a canvasW x canvasH area,
// allowing rotation when allowRotate is set. It returns the rectangles that
// fit and the inputs that didn't (the "remainder" of SPEC_FULL.md §4.3).
// success is true iff remainder is empty.
func Place(inputs []Input, canvasW, canvasH int, allowRotate bool) (placed []Placed, remainder []Input, success bool) {
	if canvasW <= 0 || canvasH <= 0 {
		return nil, inputs, len(inputs) == 0
	}

	packer := rectpack.NewPacker(canvasW, canvasH, rectpack.MaxRectsBSSF)
	packer.AllowFlip(allowRotate)
	// Descending area is handled by the caller before invoking Place, but
	// keep the packer's own sort as a defensive no-op match (stable on ties
	// via insertion order, same as the driver's own pre-sort).
	packer.Sorter(rectpack.SortArea, true)

	sizes := make([]rectpack.Size, len(inputs))
	for i, in := range inputs {
		sizes[i] = rectpack.NewSizeID(in.ID, in.Width, in.Height)
	}
	packer.Insert(sizes...)
	ok := packer.Pack()

	byID := make(map[int]Input, len(inputs))
	for _, in := range inputs {
		byID[in.ID] = in
	}

	for _, r := range packer.Rects() {
		placed = append(placed, Placed{
			ID:      r.ID,
			X:       r.X,
			Y:       r.Y,
			Width:   r.Width,
			Height:  r.Height,
			Rotated: r.Rotated,
		})
		delete(byID, r.ID)
	}
	for _, in := range byID {
		remainder = append(remainder, in)
	}
	return placed, remainder, ok && len(remainder) == 0
}
