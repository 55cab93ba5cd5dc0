package atlas

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/aeskulapp/atlaspack/atlas/internal/mesh"
)

// Preprocessor turns a decoded raw image into a Sprite: scale, heuristic
// mask, trim, and (optionally) mesh extraction. See SPEC_FULL.md §4.1.
type Preprocessor struct {
	cfg Config
}

func NewPreprocessor(cfg Config) *Preprocessor {
	return &Preprocessor{cfg: cfg}
}

// Process runs the full pipeline for one decoded image. A nil img (failed
// decode) is the caller's responsibility to skip before calling Process;
// Process itself never returns a "skip" signal, only success or an error
// from mesh extraction.
func (p *Preprocessor) Process(name string, img image.Image) (*Sprite, error) {
	nrgba := toNRGBA(img)

	if p.cfg.Scale != 1 && p.cfg.Scale > 0 {
		nrgba = p.scale(nrgba)
	}

	if p.cfg.HeuristicMask {
		nrgba = applyHeuristicMask(nrgba)
	}

	rect := image.Rect(0, 0, nrgba.Rect.Dx(), nrgba.Rect.Dy())
	if p.cfg.Trim > 0 {
		rect = trim(nrgba, p.cfg.Trim)
	}

	s := &Sprite{
		Name:  name,
		Image: nrgba,
		Rect:  rect,
	}

	if p.cfg.Trim > 0 && p.cfg.PolygonMode.Enable {
		m, polys, err := mesh.Extract(nrgba, rect, p.cfg.Trim, p.cfg.PolygonMode.Epsilon)
		if err != nil {
			return nil, err
		}
		s.Mesh = convertMesh(m)
		s.Polygons = convertPolygons(polys)
	}

	return s, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}

// scale resamples to (ceil(w*scale), ceil(h*scale)), preserving aspect
// ratio as both dimensions are derived from the same factor. FastScale
// trades imaging's higher quality Lanczos filter for nfnt/resize's cheaper
// bilinear filter on large batches.
func (p *Preprocessor) scale(img *image.NRGBA) *image.NRGBA {
	w := int(math.Ceil(float64(img.Rect.Dx()) * p.cfg.Scale))
	h := int(math.Ceil(float64(img.Rect.Dy()) * p.cfg.Scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if p.cfg.FastScale {
		resized := resize.Resize(uint(w), uint(h), img, resize.Bilinear)
		return toNRGBA(resized)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// applyHeuristicMask derives an alpha mask from the image's four corners: the
// most common of the four corner colors is treated as background and every
// pixel matching it (within a small tolerance, to absorb compression noise)
// becomes fully transparent. This mirrors the "heuristic mask" behavior of
// Qt's QPixmap::createHeuristicMask, which spec.md §4.1 names as the model
// to follow; no Go library in the retrieved corpus implements this narrow
// heuristic, so it is implemented directly.
func applyHeuristicMask(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}
	corners := [4]struct{ r, g, bch, a uint8 }{}
	pts := [4]image.Point{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X - 1, Y: b.Min.Y},
		{X: b.Min.X, Y: b.Max.Y - 1},
		{X: b.Max.X - 1, Y: b.Max.Y - 1},
	}
	for i, pt := range pts {
		c := img.NRGBAAt(pt.X, pt.Y)
		corners[i] = struct{ r, g, bch, a uint8 }{c.R, c.G, c.B, c.A}
	}

	// Majority vote among the four corners; ties favor the top-left corner.
	counts := make([]int, 4)
	for i := range corners {
		for j := range corners {
			if corners[i] == corners[j] {
				counts[i]++
			}
		}
	}
	best := 0
	for i := 1; i < 4; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	bg := corners[best]

	const tolerance = 16
	out := imaging.Clone(img)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if closeColor(c.R, bg.r, tolerance) && closeColor(c.G, bg.g, tolerance) && closeColor(c.B, bg.bch, tolerance) {
				i := out.PixOffset(x, y)
				out.Pix[i+3] = 0
			}
		}
	}
	return out
}

func closeColor(a, b uint8, tolerance int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// trim scans for the smallest axis-aligned rectangle containing every pixel
// with alpha >= threshold, then corrects parity so rect.Dx()/rect.Dy() match
// image.Dx()/image.Dy() in parity (spec.md §4.1 step 3; the intended rule,
// not the dead self-comparison noted in spec.md §9).
func trim(img *image.NRGBA, threshold uint8) image.Rectangle {
	b := img.Bounds()
	l, t := b.Dx(), b.Dy()
	r, bot := -1, -1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		ly := y - b.Min.Y
		rowFilled := false
		for x := b.Min.X; x < b.Max.X; x++ {
			lx := x - b.Min.X
			_, _, _, a := img.NRGBAAt(x, y).RGBA()
			if uint8(a>>8) >= threshold {
				rowFilled = true
				if lx > r {
					r = lx
				}
				if lx < l {
					l = lx
				}
			}
		}
		if rowFilled {
			if ly < t {
				t = ly
			}
			bot = ly
		}
	}

	if r < 0 || bot < 0 {
		return image.Rect(0, 0, 2, 2)
	}

	rect := image.Rect(l, t, r+1, bot+1)
	rect = fixParity(rect, b.Dx(), true)
	rect = fixParity(rect, b.Dy(), false)

	if rect.Dx() < 0 || rect.Dy() < 0 {
		return image.Rect(0, 0, 2, 2)
	}
	return rect
}

// fixParity expands rect by one pixel on the in-bounds side (preferring the
// low side) when its width (axis=true) or height (axis=false) doesn't share
// the parity of imgLen.
func fixParity(rect image.Rectangle, imgLen int, axis bool) image.Rectangle {
	var length, lo, hi int
	if axis {
		length, lo, hi = rect.Dx(), rect.Min.X, rect.Max.X
	} else {
		length, lo, hi = rect.Dy(), rect.Min.Y, rect.Max.Y
	}
	if length%2 == imgLen%2 {
		return rect
	}
	if lo > 0 {
		lo--
	} else {
		hi++
	}
	if axis {
		return image.Rect(lo, rect.Min.Y, hi, rect.Max.Y)
	}
	return image.Rect(rect.Min.X, lo, rect.Max.X, hi)
}

func convertMesh(m mesh.Mesh) Mesh {
	verts := make([]Point, len(m.Verts))
	for i, v := range m.Verts {
		verts[i] = Point{X: v.X, Y: v.Y}
	}
	return Mesh{Verts: verts, Indices: m.Indices}
}

func convertPolygons(polys []mesh.Polygon) []Polygon {
	out := make([]Polygon, len(polys))
	for i, p := range polys {
		poly := make(Polygon, len(p))
		for j, v := range p {
			poly[j] = Point{X: v.X, Y: v.Y}
		}
		out[i] = poly
	}
	return out
}
