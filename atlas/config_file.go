package atlas

import (
	"fmt"
	"image/color"
	"os"

	"github.com/mazznoer/csscolorparser"
	"github.com/pelletier/go-toml"
)

// fileConfig mirrors Config field-for-field but with TOML tags; kept
// separate from Config so the public type has no serialization tags tying
// it to one file format, the same separation the teacher keeps between
// arduboy.PackageInfo (JSON) and its callers.
type fileConfig struct {
	SourceList     []string `toml:"source_list"`
	TextureBorder  int      `toml:"texture_border"`
	SpriteBorder   int      `toml:"sprite_border"`
	Trim           int      `toml:"trim"`
	HeuristicMask  bool     `toml:"heuristic_mask"`
	Pow2           bool     `toml:"pow2"`
	ForceSquared   bool     `toml:"force_squared"`
	MaxTextureSize int      `toml:"max_texture_size"`
	Scale          float64  `toml:"scale"`
	Algorithm      string   `toml:"algorithm"`
	RotateSprites  bool     `toml:"rotate_sprites"`
	FastScale      bool     `toml:"fast_scale"`
	Background     string   `toml:"background"`

	PolygonMode struct {
		Enable  bool    `toml:"enable"`
		Epsilon float64 `toml:"epsilon"`
	} `toml:"polygon_mode"`
}

// LoadConfigFile reads a TOML configuration file into a Config, applying
// DefaultConfig for any field the file leaves at its zero value that would
// otherwise be invalid (scale, max_texture_size, algorithm).
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("atlas: read config %q: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("atlas: parse config %q: %w", path, err)
	}

	cfg := DefaultConfig()
	cfg.SourceList = fc.SourceList
	cfg.TextureBorder = fc.TextureBorder
	cfg.SpriteBorder = fc.SpriteBorder
	if fc.Trim >= 0 && fc.Trim <= 255 {
		cfg.Trim = uint8(fc.Trim)
	}
	cfg.HeuristicMask = fc.HeuristicMask
	cfg.Pow2 = fc.Pow2
	cfg.ForceSquared = fc.ForceSquared
	if fc.MaxTextureSize > 0 {
		cfg.MaxTextureSize = fc.MaxTextureSize
	}
	if fc.Scale > 0 {
		cfg.Scale = fc.Scale
	}
	if fc.Algorithm == string(AlgorithmPolygon) {
		cfg.Algorithm = AlgorithmPolygon
	}
	cfg.RotateSprites = fc.RotateSprites
	cfg.FastScale = fc.FastScale
	cfg.PolygonMode = PolygonModeConfig{
		Enable:  fc.PolygonMode.Enable,
		Epsilon: fc.PolygonMode.Epsilon,
	}

	if fc.Background != "" {
		bg, err := ParseBackgroundColor(fc.Background)
		if err != nil {
			return Config{}, fmt.Errorf("atlas: parse background %q: %w", fc.Background, err)
		}
		cfg.Background = bg
	}

	return cfg, nil
}

// ParseBackgroundColor parses a CSS color string (hex, rgb(), named color,
// ...) the same way the teacher's image commands parse --black/--white, for
// Config.Background.
func ParseBackgroundColor(s string) (color.NRGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA), nil
}
