package atlas

import (
	"github.com/cespare/xxhash/v2"
)

// Deduper collapses pixel-identical sprites into aliases of a canonical
// name. See SPEC_FULL.md §4.2: exact comparison still gates equality, but a
// content hash (github.com/cespare/xxhash/v2, grounded on
// woozymasta/imageset-packer's own use of xxhash for its asset cache) is
// used as a cheap pre-filter so the exact comparison only runs on
// collisions.
type Deduper struct {
	accepted []*Sprite
	hashes   []uint64
	// Aliases maps a canonical sprite name to every duplicate name that was
	// dropped in its favor, in first-seen order.
	Aliases map[string][]string
}

func NewDeduper() *Deduper {
	return &Deduper{Aliases: make(map[string][]string)}
}

// Offer considers one candidate Sprite. It returns true if the sprite was
// accepted (kept), or false if it was discarded as a duplicate of an
// already-accepted sprite (in which case it has been recorded in Aliases).
func (d *Deduper) Offer(candidate *Sprite) bool {
	h := contentHash(candidate)
	for i, a := range d.accepted {
		if d.hashes[i] != h {
			continue
		}
		if identical(a, candidate) {
			d.Aliases[a.Name] = append(d.Aliases[a.Name], candidate.Name)
			return false
		}
	}
	d.accepted = append(d.accepted, candidate)
	d.hashes = append(d.hashes, h)
	return true
}

// Accepted returns every sprite kept so far, in first-accepted order.
func (d *Deduper) Accepted() []*Sprite {
	return d.accepted
}

func contentHash(s *Sprite) uint64 {
	h := xxhash.New()
	var sizeBuf [8]byte
	putSize(&sizeBuf, s.Rect.Dx(), s.Rect.Dy())
	h.Write(sizeBuf[:])
	row := make([]byte, s.Rect.Dx()*4)
	for y := s.Rect.Min.Y; y < s.Rect.Max.Y; y++ {
		off := 0
		for x := s.Rect.Min.X; x < s.Rect.Max.X; x++ {
			c := s.Image.NRGBAAt(x, y)
			row[off], row[off+1], row[off+2], row[off+3] = c.R, c.G, c.B, c.A
			off += 4
		}
		h.Write(row)
	}
	return h.Sum64()
}

func putSize(buf *[8]byte, w, h int) {
	buf[0] = byte(w)
	buf[1] = byte(w >> 8)
	buf[2] = byte(w >> 16)
	buf[3] = byte(w >> 24)
	buf[4] = byte(h)
	buf[5] = byte(h >> 8)
	buf[6] = byte(h >> 16)
	buf[7] = byte(h >> 24)
}

// identical reports whether a and b have equal rects and byte-identical
// pixels inside those rects.
func identical(a, b *Sprite) bool {
	if a.Rect != b.Rect {
		return false
	}
	for y := a.Rect.Min.Y; y < a.Rect.Max.Y; y++ {
		for x := a.Rect.Min.X; x < a.Rect.Max.X; x++ {
			if a.Image.NRGBAAt(x, y) != b.Image.NRGBAAt(x, y) {
				return false
			}
		}
	}
	return true
}
