package atlas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// compositeRect renders a rect-packed page: a cleared atlas bitmap of
// (w, h), one blit per Placement, plus the SpriteFrameInfo bookkeeping
// described in SPEC_FULL.md §4.5. background fills the canvas before any
// sprite is blitted; the zero value (fully transparent) matches the
// original behavior.
func compositeRect(placements []Placement, w, h, border, spriteBorder int, aliases map[string][]string, background color.NRGBA) *OutputData {
	atlasImg := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillBackground(atlasImg, background)

	frames := make(map[string]SpriteFrameInfo, len(placements))

	for _, pl := range placements {
		s := pl.Source
		dst := image.Pt(pl.CanvasPos.X+border, pl.CanvasPos.Y+border)

		var frame SpriteFrameInfo
		if pl.Rotated {
			cropped := imaging.Crop(s.Image, s.Rect)
			rotated := imaging.Rotate90(cropped)
			drawPaste(atlasImg, rotated, dst)
			frame.Frame = image.Rect(
				pl.CanvasPos.X, pl.CanvasPos.Y,
				pl.CanvasPos.X+pl.CanvasSize.Y-spriteBorder,
				pl.CanvasPos.Y+pl.CanvasSize.X-spriteBorder,
			)
		} else {
			drawPasteRect(atlasImg, s.Image, s.Rect, dst)
			frame.Frame = image.Rect(
				dst.X, dst.Y,
				dst.X+pl.CanvasSize.X-spriteBorder,
				dst.Y+pl.CanvasSize.Y-spriteBorder,
			)
		}

		if s.HasMesh() {
			frame.Offset = Point{X: float64(s.Rect.Min.X), Y: float64(s.Rect.Min.Y)}
		} else {
			frame.Offset = Point{
				X: float64(s.Rect.Min.X) + (float64(-s.Image.Rect.Dx()+pl.CanvasSize.X-spriteBorder))/2,
				Y: -float64(s.Rect.Min.Y) + (float64(s.Image.Rect.Dy()-pl.CanvasSize.Y+spriteBorder))/2,
			}
		}
		frame.Rotated = pl.Rotated
		frame.SourceColorRect = s.Rect
		frame.SourceSize = image.Pt(s.Image.Rect.Dx(), s.Image.Rect.Dy())
		frame.Triangles = s.Mesh

		frames[s.Name] = frame
		for _, alias := range aliases[s.Name] {
			frames[alias] = frame
		}
	}

	return &OutputData{AtlasImage: atlasImg, SpriteFrames: frames}
}

// compositePoly renders a polygon-packed page: each sprite is drawn clipped
// to the union of its polygons, per SPEC_FULL.md §4.6. background fills the
// canvas before any sprite is blitted.
func compositePoly(placements []polyPlacement, border int, aliases map[string][]string, background color.NRGBA) *OutputData {
	maxX, maxY := 0, 0
	for _, pl := range placements {
		if pl.pos.X+pl.size.X > maxX {
			maxX = pl.pos.X + pl.size.X
		}
		if pl.pos.Y+pl.size.Y > maxY {
			maxY = pl.pos.Y + pl.size.Y
		}
	}
	w, h := maxX+2*border, maxY+2*border
	atlasImg := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillBackground(atlasImg, background)

	frames := make(map[string]SpriteFrameInfo, len(placements))

	for _, pl := range placements {
		s := pl.source
		origin := image.Pt(pl.pos.X+border, pl.pos.Y+border)

		mask := rasterizePolygons(s.Polygons, s.Rect)
		drawMaskedRect(atlasImg, s.Image, s.Rect, origin, mask)

		frame := SpriteFrameInfo{
			Frame:           image.Rect(origin.X, origin.Y, origin.X+pl.size.X, origin.Y+pl.size.Y),
			Offset:          Point{X: float64(s.Rect.Min.X), Y: float64(s.Rect.Min.Y)},
			Rotated:         false,
			SourceColorRect: s.Rect,
			SourceSize:      image.Pt(s.Image.Rect.Dx(), s.Image.Rect.Dy()),
			Triangles:       s.Mesh,
		}
		frames[s.Name] = frame
		for _, alias := range aliases[s.Name] {
			frames[alias] = frame
		}
	}

	return &OutputData{AtlasImage: atlasImg, SpriteFrames: frames}
}

type polyPlacement struct {
	source *Sprite
	pos    image.Point
	size   image.Point
}

// fillBackground fills dst with c. A zero-value c (fully transparent black)
// is a no-op since a freshly allocated NRGBA already reads as such.
func fillBackground(dst *image.NRGBA, c color.NRGBA) {
	if c == (color.NRGBA{}) {
		return
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func drawPaste(dst *image.NRGBA, src image.Image, at image.Point) {
	b := src.Bounds()
	r := image.Rect(at.X, at.Y, at.X+b.Dx(), at.Y+b.Dy())
	draw.Draw(dst, r, src, b.Min, draw.Src)
}

func drawPasteRect(dst *image.NRGBA, src image.Image, srcRect image.Rectangle, at image.Point) {
	r := image.Rect(at.X, at.Y, at.X+srcRect.Dx(), at.Y+srcRect.Dy())
	draw.Draw(dst, r, src, srcRect.Min, draw.Src)
}

func drawMaskedRect(dst *image.NRGBA, src image.Image, srcRect image.Rectangle, at image.Point, mask *image.Alpha) {
	r := image.Rect(at.X, at.Y, at.X+srcRect.Dx(), at.Y+srcRect.Dy())
	draw.DrawMask(dst, r, src, srcRect.Min, mask, image.Point{}, draw.Over)
}

// rasterizePolygons fills the union of polys (in sprite-local coordinates,
// relative to rect's top-left) into an alpha mask sized to fit, using
// golang.org/x/image/vector the way the corpus uses it for font/vector
// rendering (see _examples/other_examples, golang.org/x/image/vector).
func rasterizePolygons(polys []Polygon, rect image.Rectangle) *image.Alpha {
	w, h := rect.Dx(), rect.Dy()
	raster := vector.NewRasterizer(w, h)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		raster.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, p := range poly[1:] {
			raster.LineTo(float32(p.X), float32(p.Y))
		}
		raster.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	raster.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
