package atlas

import (
	"image"
	"image/color"
	"testing"
)

func filledSprite(name string, w, h int, c color.NRGBA) *Sprite {
	img := makeTestImage(w, h, func(x, y int) color.NRGBA { return c })
	return &Sprite{Name: name, Image: img, Rect: img.Bounds()}
}

func TestCompositeRectPlacesPixelsAtCanvasPos(t *testing.T) {
	s := filledSprite("a", 4, 4, color.NRGBA{10, 20, 30, 255})
	placements := []Placement{{
		Source:     s,
		CanvasPos:  image.Pt(2, 3),
		CanvasSize: image.Pt(4, 4),
	}}

	page := compositeRect(placements, 16, 16, 0, 0, map[string][]string{}, color.NRGBA{})

	got := page.AtlasImage.NRGBAAt(2, 3)
	want := color.NRGBA{10, 20, 30, 255}
	if got != want {
		t.Fatalf("expected pixel at (2,3) to be %v, got %v", want, got)
	}

	frame, ok := page.SpriteFrames["a"]
	if !ok {
		t.Fatalf("expected frame info for sprite a")
	}
	if frame.Frame.Min.X != 2 || frame.Frame.Min.Y != 3 {
		t.Fatalf("expected frame origin (2,3), got %v", frame.Frame.Min)
	}
}

func TestCompositeRectAppliesAliases(t *testing.T) {
	s := filledSprite("a", 2, 2, color.NRGBA{1, 1, 1, 255})
	placements := []Placement{{
		Source:     s,
		CanvasPos:  image.Pt(0, 0),
		CanvasSize: image.Pt(2, 2),
	}}
	aliases := map[string][]string{"a": {"a-dupe"}}

	page := compositeRect(placements, 8, 8, 0, 0, aliases, color.NRGBA{})

	if _, ok := page.SpriteFrames["a-dupe"]; !ok {
		t.Fatalf("expected alias a-dupe to share frame info with a")
	}
}

func TestCompositeRectRotatedSwapsDimensions(t *testing.T) {
	s := filledSprite("a", 6, 2, color.NRGBA{5, 5, 5, 255})
	placements := []Placement{{
		Source:     s,
		CanvasPos:  image.Pt(0, 0),
		CanvasSize: image.Pt(2, 6),
		Rotated:    true,
	}}

	page := compositeRect(placements, 16, 16, 0, 0, map[string][]string{}, color.NRGBA{})
	frame := page.SpriteFrames["a"]
	if !frame.Rotated {
		t.Fatalf("expected frame to report rotated")
	}
}

func TestCompositeRectFillsBackground(t *testing.T) {
	page := compositeRect(nil, 4, 4, 0, 0, map[string][]string{}, color.NRGBA{20, 30, 40, 255})

	got := page.AtlasImage.NRGBAAt(0, 0)
	want := color.NRGBA{20, 30, 40, 255}
	if got != want {
		t.Fatalf("expected background-filled pixel %v, got %v", want, got)
	}
}

func TestCompositeRectTransparentBackgroundIsNoop(t *testing.T) {
	page := compositeRect(nil, 4, 4, 0, 0, map[string][]string{}, color.NRGBA{})

	got := page.AtlasImage.NRGBAAt(0, 0)
	if got.A != 0 {
		t.Fatalf("expected transparent canvas with zero-value background, got %v", got)
	}
}

func TestRasterizePolygonsFillsTriangle(t *testing.T) {
	rect := image.Rect(0, 0, 10, 10)
	poly := Polygon{{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 0, Y: 9}}
	mask := rasterizePolygons([]Polygon{poly}, rect)

	if mask.Bounds().Dx() != 10 || mask.Bounds().Dy() != 10 {
		t.Fatalf("expected 10x10 mask, got %v", mask.Bounds())
	}
	if mask.AlphaAt(1, 1).A == 0 {
		t.Fatalf("expected interior point (1,1) to be covered by the triangle")
	}
	if mask.AlphaAt(9, 9).A != 0 {
		t.Fatalf("expected far corner (9,9) to be outside the triangle")
	}
}
