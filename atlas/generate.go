// Package atlas implements the sprite atlas generation pipeline: C1-C6 of
// SPEC_FULL.md. Generate is the single public entry point; it is
// single-threaded and synchronous, with no suspension points exposed to the
// caller (SPEC_FULL.md §5).
package atlas

import (
	"fmt"

	"github.com/aeskulapp/atlaspack/atlas/progress"
	"github.com/aeskulapp/atlaspack/atlas/walk"
)

// Generator owns everything Generate needs beyond the per-call Config: the
// replaceable collaborators. A zero-value Generator uses the production
// defaults (filesystem walking, stdlib+x/image decoding, a no-op progress
// sink).
type Generator struct {
	Walker   walk.Walker
	Decoder  Decoder
	Progress progress.Sink
	NameHook NameHook
}

// NewGenerator returns a Generator wired to the default collaborators.
func NewGenerator() *Generator {
	return &Generator{
		Walker:   walk.NewFileSystemWalker(),
		Decoder:  StdDecoder{},
		Progress: progress.Noop{},
	}
}

// Generate runs the full pipeline for cfg and returns one OutputData per
// atlas page, most-recently-packed page first. On cancellation it returns
// ErrCancelled and no pages.
func (g *Generator) Generate(cfg Config) ([]OutputData, error) {
	if g.Walker == nil {
		g.Walker = walk.NewFileSystemWalker()
	}
	if g.Decoder == nil {
		g.Decoder = StdDecoder{}
	}
	sink := g.Progress
	if sink == nil {
		sink = progress.Noop{}
	}

	sink.SetText("Optimizing sprites...")

	entries, err := g.Walker.Walk(cfg.SourceList)
	if err != nil {
		return nil, fmt.Errorf("atlas: discover sources: %w", err)
	}

	pre := NewPreprocessor(cfg)
	deduper := NewDeduper()

	for _, entry := range entries {
		if sink.Cancelled() {
			return nil, ErrCancelled
		}

		img, err := g.Decoder.Decode(entry.AbsPath)
		if err != nil {
			// Skip (non-fatal): undecodable image, per spec.md §7.
			continue
		}

		name := entry.RelName
		if g.NameHook != nil {
			name, err = g.NameHook.Rewrite(name)
			if err != nil {
				return nil, fmt.Errorf("atlas: rename %q: %w", entry.RelName, err)
			}
		}

		sprite, err := pre.Process(name, img)
		if err != nil {
			return nil, fmt.Errorf("atlas: preprocess %q: %w", entry.RelName, err)
		}
		deduper.Offer(sprite)
	}

	accepted := deduper.Accepted()
	if len(accepted) == 0 {
		return nil, ErrNoSprites
	}

	var pages []OutputData
	if cfg.Algorithm == AlgorithmPolygon && cfg.PolygonMode.Enable {
		placements, err := NewPolyPacker(cfg, sink).Pack(accepted)
		if err != nil {
			return nil, err
		}
		if sink.Cancelled() {
			return nil, ErrCancelled
		}
		page := compositePoly(placements, cfg.TextureBorder, deduper.Aliases, cfg.Background)
		pages = []OutputData{*page}
	} else {
		results, err := NewRectPacker(cfg, sink).Pack(accepted)
		if err != nil {
			return nil, err
		}
		for i, r := range results {
			if sink.Cancelled() {
				return nil, ErrCancelled
			}
			page := compositeRect(r.placements, r.canvasW, r.canvasH, cfg.TextureBorder, cfg.SpriteBorder, deduper.Aliases, cfg.Background)
			// results is most-recently-packed first; PageIndex counts from
			// the first page attempted.
			page.PageIndex = len(results) - 1 - i
			pages = append(pages, *page)
		}
	}

	return pages, nil
}

// Generate is a package-level convenience wrapping NewGenerator().Generate,
// matching the "scan"-style top-level helpers the teacher exposes in
// arduboy/device.go (GetBasicDevices etc.) for the common case.
func Generate(cfg Config) ([]OutputData, error) {
	return NewGenerator().Generate(cfg)
}
