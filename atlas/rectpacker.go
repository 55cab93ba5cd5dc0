package atlas

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/aeskulapp/atlaspack/atlas/internal/rectpack"
	"github.com/aeskulapp/atlaspack/atlas/progress"
)

// RectPacker drives the canvas-sizing search around the external rectangle
// packer. See SPEC_FULL.md §4.3.
type RectPacker struct {
	cfg      Config
	progress progress.Sink
}

func NewRectPacker(cfg Config, sink progress.Sink) *RectPacker {
	if sink == nil {
		sink = progress.Noop{}
	}
	return &RectPacker{cfg: cfg, progress: sink}
}

type rectPackResult struct {
	placements []Placement
	canvasW    int
	canvasH    int
}

// Pack places every sprite, recursing into additional pages on overflow.
// Pages are returned with the most-recently-packed page first, per
// spec.md §3 ("order: the most-recently-packed page is inserted at the
// front of the result sequence").
func (p *RectPacker) Pack(sprites []*Sprite) ([]rectPackResult, error) {
	return p.packRemaining(sprites)
}

func (p *RectPacker) packRemaining(sprites []*Sprite) ([]rectPackResult, error) {
	if len(sprites) == 0 {
		return nil, nil
	}
	if p.progress.Cancelled() {
		return nil, ErrCancelled
	}

	B := p.cfg.TextureBorder
	M := p.cfg.MaxTextureSize

	ordered := sortByDescendingArea(sprites)
	inputs := make([]rectpack.Input, len(ordered))
	bySpriteID := make(map[int]*Sprite, len(ordered))
	var volume float64
	for i, s := range ordered {
		w := s.Rect.Dx() + p.cfg.SpriteBorder
		h := s.Rect.Dy() + p.cfg.SpriteBorder
		inputs[i] = rectpack.Input{ID: i, Width: w, Height: h}
		bySpriteID[i] = s
		volume += float64(w) * float64(h)
	}

	guess := int(math.Min(float64(M), math.Ceil(math.Sqrt(1.02*volume))))
	w, h := guess, guess
	if p.cfg.ForceSquared {
		h = w
	}

	var placedRaw []rectpack.Placed
	var remainderRaw []rectpack.Input
	var success bool

	if p.cfg.Pow2 {
		w = nextPow2(w)
		h = nextPow2(h)
		if p.cfg.ForceSquared {
			h = w
		}

		growW := true
		for {
			if p.progress.Cancelled() {
				return nil, ErrCancelled
			}
			p.progress.SetText("Optimizing atlas...")
			placedRaw, remainderRaw, success = rectpack.Place(inputs, w-2*B, h-2*B, p.cfg.RotateSprites)
			if success {
				break
			}
			if w == M && h == M {
				break
			}
			if growW || p.cfg.ForceSquared {
				growW = false
				w = min(w*2, M)
			} else {
				growW = true
				h = min(h*2, M)
			}
			if p.cfg.ForceSquared {
				h = w
			}
		}

		if success {
			for w > 2 {
				if p.progress.Cancelled() {
					return nil, ErrCancelled
				}
				nw := w / 2
				nh := h
				if p.cfg.ForceSquared {
					nh = nw
				}
				pl, rem, ok := rectpack.Place(inputs, nw-2*B, nh-2*B, p.cfg.RotateSprites)
				if !ok {
					break
				}
				w, h = nw, nh
				placedRaw, remainderRaw = pl, rem
			}
			if !p.cfg.ForceSquared {
				for h > 2 {
					if p.progress.Cancelled() {
						return nil, ErrCancelled
					}
					nh := h / 2
					pl, rem, ok := rectpack.Place(inputs, w-2*B, nh-2*B, p.cfg.RotateSprites)
					if !ok {
						break
					}
					h = nh
					placedRaw, remainderRaw = pl, rem
				}
			}
		}
	} else {
		step := max((w+h)/20, 1)
		growW := true
		for {
			if p.progress.Cancelled() {
				return nil, ErrCancelled
			}
			p.progress.SetText("Optimizing atlas...")
			placedRaw, remainderRaw, success = rectpack.Place(inputs, w-2*B, h-2*B, p.cfg.RotateSprites)
			if success {
				break
			}
			if w == M && h == M {
				break
			}
			if growW || p.cfg.ForceSquared {
				growW = false
				w = min(w+step, M)
			} else {
				growW = true
				h = min(h+step, M)
			}
			if p.cfg.ForceSquared {
				h = w
			}
		}

		if success {
			step = max((w+h)/20, 1)
			for w > 0 {
				if p.progress.Cancelled() {
					return nil, ErrCancelled
				}
				nw := w - step
				nh := h
				if p.cfg.ForceSquared {
					nh = nw
				}
				pl, rem, ok := rectpack.Place(inputs, nw-2*B, nh-2*B, p.cfg.RotateSprites)
				if !ok {
					if step > 1 {
						step = max(step/2, 1)
						continue
					}
					break
				}
				w, h = nw, nh
				placedRaw, remainderRaw = pl, rem
			}
			if !p.cfg.ForceSquared {
				step = max((w+h)/20, 1)
				for h > 0 {
					if p.progress.Cancelled() {
						return nil, ErrCancelled
					}
					nh := h - step
					pl, rem, ok := rectpack.Place(inputs, w-2*B, nh-2*B, p.cfg.RotateSprites)
					if !ok {
						if step > 1 {
							step = max(step/2, 1)
							continue
						}
						break
					}
					h = nh
					placedRaw, remainderRaw = pl, rem
				}
			}
		}
	}

	if len(placedRaw) == 0 {
		// No progress: not even the largest remaining sprite fits within
		// max_texture_size. Recursing here would just hand packRemaining the
		// same input set forever.
		return nil, ErrMaxTextureTooSmall
	}

	placements := make([]Placement, len(placedRaw))
	for i, pr := range placedRaw {
		placements[i] = Placement{
			Source:     bySpriteID[pr.ID],
			CanvasPos:  image.Pt(pr.X, pr.Y),
			CanvasSize: image.Pt(pr.Width, pr.Height),
			Rotated:    pr.Rotated,
		}
	}
	p.progress.SetText(fmt.Sprintf("Found optimize size: %dx%d", w, h))

	page := rectPackResult{placements: placements, canvasW: w, canvasH: h}

	if len(remainderRaw) == 0 {
		return []rectPackResult{page}, nil
	}

	remainder := make([]*Sprite, len(remainderRaw))
	for i, r := range remainderRaw {
		remainder[i] = bySpriteID[r.ID]
	}
	rest, err := p.packRemaining(remainder)
	if err != nil {
		return nil, err
	}
	// Most-recently-packed page goes first.
	return append(rest, page), nil
}

func sortByDescendingArea(sprites []*Sprite) []*Sprite {
	ordered := make([]*Sprite, len(sprites))
	copy(ordered, sprites)
	sort.SliceStable(ordered, func(i, j int) bool {
		ai := ordered[i].Rect.Dx() * ordered[i].Rect.Dy()
		aj := ordered[j].Rect.Dx() * ordered[j].Rect.Dy()
		return ai > aj
	})
	return ordered
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

