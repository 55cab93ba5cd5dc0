package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/aeskulapp/atlaspack/atlas"
	"github.com/aeskulapp/atlaspack/atlas/progress"
)

const AppVersion = "0.1.0"

// Quick way to fail on error, since most commands are "doing" something on
// behalf of something else.
func fatalIfErr(subject string, doing string, err error) {
	if err != nil {
		log.Fatalf("%s - Couldn't %s: %s", subject, doing, err)
	}
}

func printJson(obj interface{}) {
	rawjson, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		log.Fatalln("Couldn't serialize json: ", err)
	}
	fmt.Println(string(rawjson))
}

// signalSink is a progress.Sink backed by os/signal.NotifyContext, the
// cancellation mechanism the teacher uses for its device-connect loops
// (arduboy.ConnectWithBootloader's retry timeout) adapted to a single
// Ctrl-C driven cancel instead of a deadline.
type signalSink struct {
	ctx    context.Context
	quiet  bool
	lastAt string
}

func newSignalSink(ctx context.Context, quiet bool) *signalSink {
	return &signalSink{ctx: ctx, quiet: quiet}
}

func (s *signalSink) SetText(text string) {
	if !s.quiet && text != s.lastAt {
		log.Println(text)
		s.lastAt = text
	}
}

func (s *signalSink) Cancelled() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// Generate command
type GenerateCmd struct {
	Source     []string `arg:"" help:"Source files/folders to pack into an atlas"`
	Config     string   `type:"path" short:"c" help:"TOML config file overriding the defaults"`
	Out        string   `type:"path" short:"o" default:"atlas" help:"Output file prefix (writes <prefix>-N.png and <prefix>-N.json)"`
	Algorithm  string   `enum:"rect,polygon" default:"rect" help:"Packing algorithm"`
	Trim       int      `default:"0" help:"Alpha threshold (0-255) for trimming and, in polygon mode, mesh extraction; 0 disables both"`
	Pow2       bool     `help:"Force power-of-two canvas dimensions"`
	MaxTexSize int      `default:"4096" help:"Maximum atlas dimension in pixels"`
	Background string   `help:"CSS color (e.g. #000000, rgb(0,0,0)) to fill the atlas canvas with instead of leaving it transparent"`
	Quiet      bool     `short:"q" help:"Suppress progress output"`
	NameScript string   `type:"path" help:"Lua script exposing a rename(name) function for sprite renaming"`
}

func (c *GenerateCmd) Run() error {
	var cfg atlas.Config
	var err error
	if c.Config != "" {
		cfg, err = atlas.LoadConfigFile(c.Config)
		fatalIfErr(c.Config, "load config", err)
	} else {
		cfg = atlas.DefaultConfig()
	}

	cfg.SourceList = c.Source
	if c.Algorithm == "polygon" {
		cfg.Algorithm = atlas.AlgorithmPolygon
		cfg.PolygonMode.Enable = true
	}
	if c.Trim > 0 {
		cfg.Trim = uint8(c.Trim)
	}
	if cfg.PolygonMode.Enable && cfg.Trim == 0 {
		return fmt.Errorf("generate: polygon mode requires --trim > 0 to extract meshes from")
	}
	cfg.Pow2 = cfg.Pow2 || c.Pow2
	if c.MaxTexSize > 0 {
		cfg.MaxTextureSize = c.MaxTexSize
	}
	if c.Background != "" {
		bg, err := atlas.ParseBackgroundColor(c.Background)
		fatalIfErr(c.Background, "parse background color", err)
		cfg.Background = bg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := atlas.NewGenerator()
	gen.Progress = newSignalSink(ctx, c.Quiet)

	if c.NameScript != "" {
		src, err := os.ReadFile(c.NameScript)
		fatalIfErr(c.NameScript, "read name script", err)
		hook, err := atlas.NewLuaNameHook(string(src), "rename")
		fatalIfErr(c.NameScript, "load name script", err)
		defer hook.Close()
		gen.NameHook = hook
	}

	pages, err := gen.Generate(cfg)
	fatalIfErr("generate", "build atlas", err)

	for i, page := range pages {
		pngPath := fmt.Sprintf("%s-%d.png", c.Out, i)
		f, err := os.Create(pngPath)
		fatalIfErr(pngPath, "create output file", err)
		err = page.EncodePNG(f)
		f.Close()
		fatalIfErr(pngPath, "encode png", err)
		log.Printf("Wrote %s (%d sprites)\n", pngPath, len(page.SpriteFrames))

		jsonPath := fmt.Sprintf("%s-%d.json", c.Out, i)
		rawjson, err := json.MarshalIndent(&page, "", "  ")
		fatalIfErr(jsonPath, "serialize frame data", err)
		err = os.WriteFile(jsonPath, rawjson, 0644)
		fatalIfErr(jsonPath, "write frame data", err)
	}

	printJson(pages)
	return nil
}

// Preview command: run the whole pipeline in memory and report the sprite
// names that would be packed, without writing any atlas image. Useful for checking source
// folders the way arduboy's Scan command reports device inventory before
// any destructive operation.
type PreviewCmd struct {
	Source []string `arg:"" help:"Source files/folders to inspect"`
	Quiet  bool     `short:"q" help:"Suppress progress output"`
}

func (c *PreviewCmd) Run() error {
	cfg := atlas.DefaultConfig()
	cfg.SourceList = c.Source

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := atlas.NewGenerator()
	gen.Progress = newSignalSink(ctx, c.Quiet)

	pages, err := gen.Generate(cfg)
	fatalIfErr("preview", "scan sources", err)

	names := make([]string, 0)
	for _, page := range pages {
		for name := range page.SpriteFrames {
			names = append(names, name)
		}
	}
	printJson(names)
	return nil
}

var cli struct {
	Generate GenerateCmd `cmd:"" help:"Pack sprites from sources into one or more atlas pages"`
	Preview  PreviewCmd  `cmd:"" help:"Preprocess and dedup sources without writing an atlas"`
	Version  kong.VersionFlag `help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("atlaspack"),
		kong.ShortUsageOnError(),
		kong.Description("Packs sprite images into texture atlases"),
		kong.Vars{
			"version": AppVersion,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
