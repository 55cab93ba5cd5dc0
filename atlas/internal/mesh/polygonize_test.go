package mesh

import (
	"image"
	"image/color"
	"testing"
)

func square(w, h int, minX, minY, maxX, maxY int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= minX && x < maxX && y >= minY && y < maxY {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func TestExtractFindsSquareOutline(t *testing.T) {
	img := square(10, 10, 2, 2, 8, 8)
	rect := image.Rect(0, 0, 10, 10)

	m, polys, err := Extract(img, rect, 128, 0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(polys) != 1 {
		t.Fatalf("expected 1 boundary polygon, got %d", len(polys))
	}
	if len(m.Indices) == 0 {
		t.Fatalf("expected a non-empty triangulation")
	}
	for _, v := range m.Verts {
		if v.X < 1 || v.X > 9 || v.Y < 1 || v.Y > 9 {
			t.Fatalf("vertex %v outside expected boundary region", v)
		}
	}
}

func TestExtractEmptyMaskProducesNoPolygons(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	rect := image.Rect(0, 0, 8, 8)

	m, polys, err := Extract(img, rect, 128, 0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(polys) != 0 {
		t.Fatalf("expected no polygons for a fully transparent image, got %d", len(polys))
	}
	if len(m.Verts) != 0 {
		t.Fatalf("expected no vertices for a fully transparent image")
	}
}

func TestSimplifyReducesCollinearPoints(t *testing.T) {
	poly := Polygon{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
		{X: 3, Y: 3}, {X: 0, Y: 3},
	}
	out := simplify(poly, 0.5)
	if len(out) >= len(poly) {
		t.Fatalf("expected simplification to reduce point count, got %d from %d", len(out), len(poly))
	}
}

func TestSimplifyZeroEpsilonIsNoop(t *testing.T) {
	poly := Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	out := simplify(poly, 0)
	if len(out) != len(poly) {
		t.Fatalf("expected epsilon 0 to leave polygon unchanged, got %d points", len(out))
	}
}
