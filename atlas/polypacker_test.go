package atlas

import (
	"image"
	"testing"

	"github.com/aeskulapp/atlaspack/atlas/progress"
)

func meshSprite(name string, w, h int) *Sprite {
	s := rectSprite(name, w, h)
	s.Mesh = Mesh{
		Verts: []Point{
			{X: 0, Y: 0},
			{X: float64(w), Y: 0},
			{X: float64(w), Y: float64(h)},
			{X: 0, Y: float64(h)},
		},
		Indices: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
	return s
}

func TestPolyPackerPlacesEveryMesh(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTextureSize = 256
	packer := NewPolyPacker(cfg, progress.Noop{})

	sprites := []*Sprite{
		meshSprite("a", 20, 10),
		meshSprite("b", 10, 10),
	}

	placed, err := packer.Pack(sprites)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(placed) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placed))
	}
	for _, pl := range placed {
		if pl.pos.X < 0 || pl.pos.Y < 0 {
			t.Fatalf("placement %s has negative position", pl.source.Name)
		}
	}
}

func TestPolyPackerFailsWhenTooSmall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTextureSize = 4
	packer := NewPolyPacker(cfg, progress.Noop{})

	_, err := packer.Pack([]*Sprite{meshSprite("a", 100, 100)})
	if err != ErrMaxTextureTooSmall {
		t.Fatalf("expected ErrMaxTextureTooSmall, got %v", err)
	}
}

func TestMeshBoundsFallsBackToRectWithoutMesh(t *testing.T) {
	s := rectSprite("a", 12, 6)
	b := meshBounds(s)
	if b != s.Rect {
		t.Fatalf("expected bounds to equal rect for meshless sprite, got %v", b)
	}
}

func TestMeshBoundsCoversVertices(t *testing.T) {
	s := meshSprite("a", 20, 10)
	b := meshBounds(s)
	want := image.Rect(0, 0, 20, 10)
	if b != want {
		t.Fatalf("expected mesh bounds %v, got %v", want, b)
	}
}
