package atlas

import "image/color"

// Algorithm selects the packing strategy used by Generate.
type Algorithm string

const (
	AlgorithmRect    Algorithm = "Rect"
	AlgorithmPolygon Algorithm = "Polygon"
)

// PolygonModeConfig controls mesh extraction and the choice of packer.
type PolygonModeConfig struct {
	Enable  bool
	Epsilon float64
}

// Config enumerates every knob Generate consumes. See SPEC_FULL.md §6.
type Config struct {
	SourceList []string

	TextureBorder int
	SpriteBorder  int

	// Trim is the alpha threshold in [0..255]; 0 disables trimming.
	Trim uint8

	HeuristicMask bool
	Pow2          bool
	ForceSquared  bool
	MaxTextureSize int
	Scale          float64

	Algorithm     Algorithm
	RotateSprites bool
	PolygonMode   PolygonModeConfig

	// FastScale selects nfnt/resize's bilinear filter instead of imaging's
	// Lanczos filter for the scale step. Bilinear is considerably cheaper on
	// very large batches at some cost to resample quality; off by default.
	FastScale bool

	// Background fills the atlas canvas before any sprite is blitted. The
	// zero value is fully transparent, matching the original's behavior.
	Background color.NRGBA
}

// DefaultConfig returns a Config with the same baseline behavior as the
// program this pipeline was distilled from: no scaling, no trimming, no
// masking, rectangle packing without rotation, one square-less free-form
// atlas bounded by a generous default maximum.
func DefaultConfig() Config {
	return Config{
		TextureBorder:  0,
		SpriteBorder:   0,
		Trim:           0,
		HeuristicMask:  false,
		Pow2:           false,
		ForceSquared:   false,
		MaxTextureSize: 2048,
		Scale:          1,
		Algorithm:      AlgorithmRect,
		RotateSprites:  false,
	}
}
