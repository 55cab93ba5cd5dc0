package atlas

import (
	"image"
	"testing"

	"github.com/aeskulapp/atlaspack/atlas/progress"
)

func rectSprite(name string, w, h int) *Sprite {
	return &Sprite{
		Name:  name,
		Image: image.NewNRGBA(image.Rect(0, 0, w, h)),
		Rect:  image.Rect(0, 0, w, h),
	}
}

func TestRectPackerPlacesAllSpritesOnePage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTextureSize = 256
	packer := NewRectPacker(cfg, progress.Noop{})

	sprites := []*Sprite{
		rectSprite("a", 16, 16),
		rectSprite("b", 32, 8),
		rectSprite("c", 8, 8),
	}

	pages, err := packer.Pack(sprites)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected all sprites to fit on one page, got %d pages", len(pages))
	}
	if len(pages[0].placements) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(pages[0].placements))
	}
	seen := map[string]bool{}
	for _, pl := range pages[0].placements {
		seen[pl.Source.Name] = true
		if pl.CanvasPos.X < 0 || pl.CanvasPos.Y < 0 {
			t.Fatalf("placement %s has negative position %v", pl.Source.Name, pl.CanvasPos)
		}
	}
	for _, name := range []string{"a", "b", "c"} {
		if !seen[name] {
			t.Fatalf("sprite %s missing from placements", name)
		}
	}
}

func TestRectPackerReturnsErrMaxTextureTooSmallWithoutProgress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTextureSize = 16

	packer := NewRectPacker(cfg, progress.Noop{})
	_, err := packer.Pack([]*Sprite{rectSprite("a", 64, 64)})
	if err != ErrMaxTextureTooSmall {
		t.Fatalf("expected ErrMaxTextureTooSmall, got %v", err)
	}
}

func TestRectPackerOverflowsToMultiplePages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTextureSize = 32

	var sprites []*Sprite
	for i := 0; i < 20; i++ {
		sprites = append(sprites, rectSprite("s", 30, 30))
	}

	packer := NewRectPacker(cfg, progress.Noop{})
	pages, err := packer.Pack(sprites)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(pages) < 2 {
		t.Fatalf("expected overflow to produce multiple pages, got %d", len(pages))
	}
	total := 0
	for _, p := range pages {
		total += len(p.placements)
	}
	if total != len(sprites) {
		t.Fatalf("expected every sprite placed across pages, got %d of %d", total, len(sprites))
	}
}

func TestRectPackerPow2ProducesPowerOfTwoCanvas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pow2 = true
	cfg.MaxTextureSize = 512

	packer := NewRectPacker(cfg, progress.Noop{})
	pages, err := packer.Pack([]*Sprite{rectSprite("a", 17, 9)})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected single page, got %d", len(pages))
	}
	if !isPow2(pages[0].canvasW) || !isPow2(pages[0].canvasH) {
		t.Fatalf("expected power-of-two canvas, got %dx%d", pages[0].canvasW, pages[0].canvasH)
	}
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func TestRectPackerCancellation(t *testing.T) {
	cfg := DefaultConfig()
	sink := cancelledSink{}
	packer := NewRectPacker(cfg, sink)

	_, err := packer.Pack([]*Sprite{rectSprite("a", 8, 8)})
	if err != ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

type cancelledSink struct{}

func (cancelledSink) SetText(string)  {}
func (cancelledSink) Cancelled() bool { return true }
