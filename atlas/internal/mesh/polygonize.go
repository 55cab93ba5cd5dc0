// Package mesh implements the polygon-extractor collaborator (SPEC_FULL.md
// §6.5): given an image, the opaque sub-rectangle within it, and a simplify
// tolerance, it returns the opaque region's outline polygons and a
// triangulation of those polygons.
//
// No dedicated "image to polygon" Go library turned up anywhere in the
// retrieved corpus, so outline extraction (Moore-neighbor boundary tracing)
// and simplification (Douglas-Peucker) are implemented directly; only the
// triangulation step, which the corpus does name a library for, is
// delegated to github.com/rclancey/earcut.
package mesh

import (
	"image"
	"math"

	"github.com/rclancey/earcut"
)

// Point is a local 2D coordinate, relative to the sprite rect's top-left
// corner (so it composes directly with SpriteFrameInfo.Offset at draw time).
type Point struct {
	X, Y float64
}

// Polygon is a closed outline without a repeated closing vertex.
type Polygon []Point

// Mesh is a triangulated set of polygons.
type Mesh struct {
	Verts   []Point
	Indices [][3]int
}

// Extract finds the outer boundary of every 8-connected opaque region within
// rect (alpha >= alphaThreshold), simplifies each boundary to within
// epsilon pixels, and triangulates the result.
func Extract(img *image.NRGBA, rect image.Rectangle, alphaThreshold uint8, epsilon float64) (Mesh, []Polygon, error) {
	mask := buildMask(img, rect, alphaThreshold)
	raw := traceBoundaries(mask, rect)

	polygons := make([]Polygon, 0, len(raw))
	for _, p := range raw {
		if len(p) < 3 {
			continue
		}
		simplified := simplify(p, epsilon)
		if len(simplified) >= 3 {
			polygons = append(polygons, simplified)
		}
	}

	m, err := triangulate(polygons)
	if err != nil {
		return Mesh{}, nil, err
	}
	return m, polygons, nil
}

// boolMask is a rect-local opacity grid; w/h are rect's dimensions.
type boolMask struct {
	w, h int
	bits []bool
}

func (m *boolMask) at(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.bits[y*m.w+x]
}

func buildMask(img *image.NRGBA, rect image.Rectangle, alphaThreshold uint8) *boolMask {
	w, h := rect.Dx(), rect.Dy()
	m := &boolMask{w: w, h: h, bits: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := img.NRGBAAt(rect.Min.X+x, rect.Min.Y+y).RGBA()
			m.bits[y*w+x] = uint8(a>>8) >= alphaThreshold
		}
	}
	return m
}

// traceBoundaries walks the outer edge of every opaque connected component
// using Moore-neighbor tracing. A trace starts at any unvisited opaque pixel
// whose west neighbor is background, so a pixel on the east edge of an
// interior hole starts a further trace and the hole's edge comes back as an
// additional polygon. The clip path is the union of every returned polygon.
func traceBoundaries(m *boolMask, rect image.Rectangle) []Polygon {
	visited := make([]bool, m.w*m.h)
	var polygons []Polygon

	// 8 clockwise neighbor offsets, starting "west", used by the classic
	// Moore-neighbor boundary tracing algorithm.
	dx := [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
	dy := [8]int{0, -1, -1, -1, 0, 1, 1, 1}

	for sy := 0; sy < m.h; sy++ {
		for sx := 0; sx < m.w; sx++ {
			idx := sy*m.w + sx
			if visited[idx] || !m.at(sx, sy) {
				continue
			}
			// Only start tracing on a pixel whose west neighbor is
			// background, i.e. the leftmost pixel of a boundary run; avoids
			// retracing the same component from an interior pixel.
			if m.at(sx-1, sy) {
				continue
			}

			poly := traceOne(m, sx, sy, dx, dy)
			for _, p := range poly {
				px, py := int(p.X), int(p.Y)
				if px >= 0 && py >= 0 && px < m.w && py < m.h {
					visited[py*m.w+px] = true
				}
			}
			if len(poly) >= 3 {
				polygons = append(polygons, poly)
			}
		}
	}
	return polygons
}

func traceOne(m *boolMask, startX, startY int, dx, dy [8]int) Polygon {
	poly := Polygon{{X: float64(startX), Y: float64(startY)}}
	cx, cy := startX, startY
	// Entry direction: we arrived from the west (background), so begin the
	// neighbor search looking "backwards" from index 0.
	backtrack := 0

	for i := 0; i < m.w*m.h*8+8; i++ {
		found := false
		for k := 0; k < 8; k++ {
			dir := (backtrack + k) % 8
			nx, ny := cx+dx[dir], cy+dy[dir]
			if m.at(nx, ny) {
				cx, cy = nx, ny
				// Next search starts from the neighbor just behind the one
				// we arrived from.
				backtrack = (dir + 5) % 8
				found = true
				break
			}
		}
		if !found {
			break
		}
		if cx == startX && cy == startY {
			break
		}
		poly = append(poly, Point{X: float64(cx), Y: float64(cy)})
	}
	return poly
}

// simplify runs Douglas-Peucker line simplification with the given pixel
// tolerance; closed polygons are handled by anchoring on the two points
// furthest apart before recursing.
func simplify(poly Polygon, epsilon float64) Polygon {
	if epsilon <= 0 || len(poly) < 4 {
		return poly
	}
	a, b := farthestPair(poly)
	if a > b {
		a, b = b, a
	}
	left := douglasPeucker(poly[a:b+1], epsilon)
	right := douglasPeucker(append(Polygon{}, append(poly[b:], poly[:a+1]...)...), epsilon)
	result := make(Polygon, 0, len(left)+len(right))
	result = append(result, left[:len(left)-1]...)
	result = append(result, right[:len(right)-1]...)
	return result
}

func farthestPair(poly Polygon) (int, int) {
	best := -1.0
	ai, bi := 0, 1
	for i := 0; i < len(poly); i++ {
		for j := i + 1; j < len(poly); j++ {
			d := dist2(poly[i], poly[j])
			if d > best {
				best, ai, bi = d, i, j
			}
		}
	}
	return ai, bi
}

func douglasPeucker(pts Polygon, epsilon float64) Polygon {
	if len(pts) < 3 {
		return pts
	}
	first, last := pts[0], pts[len(pts)-1]
	maxDist := -1.0
	maxIdx := -1
	for i := 1; i < len(pts)-1; i++ {
		d := perpendicularDistance(pts[i], first, last)
		if d > maxDist {
			maxDist, maxIdx = d, i
		}
	}
	if maxDist <= epsilon || maxIdx < 0 {
		return Polygon{first, last}
	}
	left := douglasPeucker(pts[:maxIdx+1], epsilon)
	right := douglasPeucker(pts[maxIdx:], epsilon)
	return append(left[:len(left)-1], right...)
}

func perpendicularDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return dist(p, a)
	}
	num := dx*(a.Y-p.Y) - (a.X-p.X)*dy
	if num < 0 {
		num = -num
	}
	return num / dist(Point{}, Point{X: dx, Y: dy})
}

func dist(a, b Point) float64 {
	return math.Sqrt(dist2(a, b))
}

func dist2(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// triangulate runs ear-clipping triangulation (via earcut) over each
// polygon independently and concatenates the results into one Mesh, with
// Indices referencing the concatenated Verts slice.
func triangulate(polygons []Polygon) (Mesh, error) {
	var result Mesh
	for _, poly := range polygons {
		flat := make([]float64, 0, len(poly)*2)
		for _, p := range poly {
			flat = append(flat, p.X, p.Y)
		}
		tris := earcut.Earcut(flat, nil, 2)

		base := len(result.Verts)
		result.Verts = append(result.Verts, poly...)
		for i := 0; i+2 < len(tris); i += 3 {
			result.Indices = append(result.Indices, [3]int{
				base + tris[i],
				base + tris[i+1],
				base + tris[i+2],
			})
		}
	}
	return result, nil
}
