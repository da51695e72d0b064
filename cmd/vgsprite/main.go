// Command vgsprite compiles an indexed-texture sprite and renders it.
//
// The sprite is a YAML document (see itex.Sprite). It is compiled through a
// vg library on a CPU surface, drawn scaled into the framebuffer, and either
// saved as PNG or shown in the terminal.
//
//	vgsprite -in heart.yaml -out heart.png -scale 8
//	vgsprite -in heart.yaml -preview -tile 3 -wrap repeat
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/itex"
	"github.com/gogpu/vg/present"
	"github.com/gogpu/vg/surface"
)

func main() {
	var (
		input   = flag.String("in", "", "sprite YAML file")
		output  = flag.String("out", "sprite.png", "output PNG file")
		scale   = flag.Int("scale", 8, "pixels per texel")
		tile    = flag.Int("tile", 1, "repeat the sprite tile x tile times")
		filter  = flag.String("filter", "", "override the sprite filter (nearest, linear)")
		wrap    = flag.String("wrap", "", "override the sprite wrap mode (clamp, repeat)")
		preview = flag.Bool("preview", false, "show the result in the terminal instead of saving it")
		verbose = flag.Bool("v", false, "log library events to stderr")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		vg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	sprite, err := itex.LoadSprite(*input)
	if err != nil {
		log.Fatalf("Failed to load sprite: %v", err)
	}
	if *filter != "" {
		sprite.Filter = *filter
	}
	if *wrap != "" {
		sprite.Wrap = *wrap
	}

	lib, err := render(sprite, max(*scale, 1), max(*tile, 1))
	if err != nil {
		log.Fatalf("Failed to render %s: %v", sprite.Name, err)
	}

	if *preview {
		err = show(lib)
	} else {
		err = save(lib, *output)
	}
	if cerr := lib.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Failed to output %s: %v", sprite.Name, err)
	}
	if !*preview {
		log.Printf("%s saved to %s (%dx%d texels)\n", sprite.Name, *output, sprite.Width, sprite.Height)
	}
}

// render compiles the sprite and draws it tile x tile times over a
// transparent framebuffer.
func render(sprite itex.Sprite, scale, tile int) (*vg.Library, error) {
	grid := max(sprite.Width, sprite.Height, itex.DefaultGridSize)
	w := sprite.Width * scale * tile
	h := sprite.Height * scale * tile

	lib, err := vg.New(surface.NewImageSurface(w, h),
		vg.WithTextureCapacity(16),
		vg.WithShapeCapacity(16),
		vg.WithITexOptions(itex.WithGridSize(grid)))
	if err != nil {
		return nil, err
	}

	tex, err := sprite.Compile(lib.ITex(), lib)
	if err != nil {
		_ = lib.Close()
		return nil, fmt.Errorf("compile: %w", err)
	}

	// One quad with texture coordinates past 1 shows the wrap mode.
	fw, fh, n := float32(w), float32(h), float32(tile)
	quad := []surface.Vec2{{X: 0, Y: 0}, {X: 0, Y: fh}, {X: fw, Y: fh}, {X: fw, Y: 0}}
	uv := []surface.Vec2{{X: 0, Y: 0}, {X: 0, Y: n}, {X: n, Y: n}, {X: n, Y: 0}}
	shape, err := lib.CompileShapeTextured(quad, uv)
	if err != nil {
		_ = lib.Close()
		return nil, fmt.Errorf("compile quad: %w", err)
	}

	lib.UseTexture(tex)
	if err := lib.DrawShapeTextured(shape, 0, 0, 0, 1); err != nil {
		_ = lib.Close()
		return nil, fmt.Errorf("draw: %w", err)
	}
	return lib, nil
}

func save(lib *vg.Library, path string) error {
	fb, ok := lib.Surface().(surface.Framebuffer)
	if !ok {
		return present.ErrNoFramebuffer
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.Snapshot()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func show(lib *vg.Library) error {
	term, err := present.Open()
	if err != nil {
		return err
	}
	defer term.Close()

	if err := term.Present(lib.Surface()); err != nil {
		return err
	}
	term.WaitKey()
	return nil
}
