package polypack

import (
	"image"
	"testing"
)

func TestPlaceFitsEveryInputWithinMaxSize(t *testing.T) {
	inputs := []Input{
		{ID: 0, Bounds: image.Rect(0, 0, 20, 10)},
		{ID: 1, Bounds: image.Rect(0, 0, 10, 10)},
	}
	placed, bounds, ok := Place(inputs, 64)
	if !ok {
		t.Fatalf("expected both inputs to fit within a 64x64 area")
	}
	if len(placed) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placed))
	}
	if bounds.Width == 0 || bounds.Height == 0 {
		t.Fatalf("expected non-zero bounds, got %+v", bounds)
	}
}

func TestPlaceAppliesPadding(t *testing.T) {
	inputs := []Input{
		{ID: 0, Bounds: image.Rect(0, 0, 10, 10), Padding: 4},
	}
	placed, _, ok := Place(inputs, 64)
	if !ok {
		t.Fatalf("expected input to fit")
	}
	if placed[0].Size.X != 14 || placed[0].Size.Y != 14 {
		t.Fatalf("expected padded size 14x14, got %v", placed[0].Size)
	}
}

func TestPlaceFailsWhenMaxSizeTooSmall(t *testing.T) {
	inputs := []Input{{ID: 0, Bounds: image.Rect(0, 0, 100, 100)}}
	_, _, ok := Place(inputs, 8)
	if ok {
		t.Fatalf("expected failure when max size is smaller than a single input")
	}
}
