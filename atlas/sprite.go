package atlas

import (
	"encoding/json"
	"image"
	"image/png"
	"io"
)

// Point is a 2D coordinate used by polygon outlines and triangle meshes.
type Point struct {
	X, Y float64
}

// Polygon is a single closed outline, stored without a repeated closing
// point (first and last vertices are implicitly connected).
type Polygon []Point

// Mesh is a triangulated polygon: Indices reference Verts in groups of
// three, one group per triangle.
type Mesh struct {
	Verts   []Point
	Indices [][3]int
}

// Empty reports whether the mesh carries no triangles.
func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// Sprite is the in-memory unit of work produced by the preprocessor (C2)
// and consumed by the dedupe, packing, and compositing stages. See
// SPEC_FULL.md §3.
type Sprite struct {
	// Name is the stable identifier, normally the path relative to the
	// source root it was discovered under.
	Name string

	// Image holds the full (post-scale, post-mask) decoded pixels.
	Image *image.NRGBA

	// Rect is the opaque sub-rectangle within Image; after trimming its width
	// and height share the parity of Image's. No minimum size is enforced: a
	// one-pixel-wide opaque region in an odd-width image, or an untrimmed
	// 1-pixel image, gives a Rect narrower than 2. A fully transparent
	// trimmed image gets (0,0,2,2), which extends past a 1-pixel image.
	Rect image.Rectangle

	// Polygons and Mesh are populated only when polygon mode is enabled and
	// trimming produced a non-degenerate rect.
	Polygons []Polygon
	Mesh     Mesh
}

// HasMesh reports whether this sprite carries a usable triangulated mesh.
func (s *Sprite) HasMesh() bool {
	return !s.Mesh.Empty()
}

// Placement is produced by the rect or polygon packer for one Sprite.
type Placement struct {
	Source *Sprite

	// CanvasPos is the top-left corner on the atlas canvas, pre-border.
	CanvasPos image.Point
	// CanvasSize includes the sprite border.
	CanvasSize image.Point

	// Rotated is always false for the polygon packer (C5).
	Rotated bool
}

// SpriteFrameInfo is the public per-sprite record returned to the caller.
type SpriteFrameInfo struct {
	Frame           image.Rectangle
	Offset          Point
	Rotated         bool
	SourceColorRect image.Rectangle
	SourceSize      image.Point
	Triangles       Mesh
}

// OutputData is one packed atlas page plus its sprite metadata.
type OutputData struct {
	AtlasImage   *image.NRGBA
	SpriteFrames map[string]SpriteFrameInfo

	// PageIndex is the overflow-page ordinal; 0 is the first page attempted.
	// Purely diagnostic, does not change any packing invariant.
	PageIndex int
}

// EncodePNG writes the atlas bitmap to w.
func (o *OutputData) EncodePNG(w io.Writer) error {
	return png.Encode(w, o.AtlasImage)
}

// MarshalJSON renders OutputData as its sprite frame map plus page index,
// omitting the pixel buffer (callers write AtlasImage separately via
// EncodePNG).
func (o *OutputData) MarshalJSON() ([]byte, error) {
	type alias struct {
		PageIndex    int                        `json:"page_index"`
		SpriteFrames map[string]SpriteFrameInfo `json:"sprites"`
	}
	return json.Marshal(alias{PageIndex: o.PageIndex, SpriteFrames: o.SpriteFrames})
}
