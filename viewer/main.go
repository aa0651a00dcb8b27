package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-halftone-raytracer/pkg/halftone"
	"github.com/df07/go-halftone-raytracer/pkg/raster"
	"github.com/df07/go-halftone-raytracer/pkg/renderer"
	"github.com/df07/go-halftone-raytracer/pkg/scene"
	"github.com/df07/go-halftone-raytracer/viewer/watchface"
)

func main() {
	sceneName := flag.String("scene", scene.DefaultSceneName, "Scene name, file:<name>, or path to a .yaml scene")
	width := flag.Int("width", 0, "Canvas width and height in pixels, even (0 = scene default)")
	kernelName := flag.String("kernel", halftone.FloydSteinberg.Name, "Error diffusion kernel")
	scale := flag.Int("scale", 3, "Window scale factor")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	kernel, err := halftone.KernelByName(*kernelName)
	if err != nil {
		log.Fatal().Err(err).Msg("bad kernel")
	}
	s, err := scene.Create(*sceneName, scene.RenderOverride{Width: *width})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load scene")
	}
	rt, err := renderer.NewRaytracer(s, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot render scene")
	}

	g := newGame(rt, kernel)
	g.rerender()

	w, h := watchface.ScreenWidth, watchface.ScreenHeight
	w, h = max(w, rt.Width()), max(h, rt.Width())
	ebiten.SetWindowTitle(fmt.Sprintf("Halftone Raytracer (%s)", s.Name))
	ebiten.SetWindowSize(w**scale, h**scale)
	ebiten.SetTPS(30)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal().Err(err).Msg("viewer failed")
	}
}

// game shows the latest render and re-renders in the background on request
type game struct {
	raytracer *renderer.Raytracer
	kernel    halftone.Kernel
	mode      watchface.Mode

	face      *watchface.Face
	faceImg   *ebiten.Image
	dirty     bool
	rendering bool
	results   chan *raster.Gray
}

func newGame(rt *renderer.Raytracer, kernel halftone.Kernel) *game {
	return &game{
		raytracer: rt,
		kernel:    kernel,
		results:   make(chan *raster.Gray, 1),
	}
}

// rerender starts a render unless one is already running
func (g *game) rerender() {
	if g.rendering {
		return
	}
	g.rendering = true

	go func() {
		pr := renderer.NewProgressiveRaytracer(g.raytracer, renderer.DefaultProgressiveConfig(), log.Logger)
		img, stats, err := pr.Render(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("render failed")
			g.results <- nil
			return
		}
		log.Info().Dur("elapsed", stats.Elapsed).Float64("mean_luminance", stats.MeanLuminance).Msg("rendered")
		g.results <- img
	}()
}

func (g *game) Update() error {
	select {
	case img := <-g.results:
		g.rendering = false
		if img != nil {
			face, err := watchface.New(img, g.kernel)
			if err != nil {
				log.Error().Err(err).Msg("halftone failed")
				break
			}
			g.face = face
			g.dirty = true
		}
	default:
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.rerender()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.mode = g.mode.Toggle()
		g.dirty = true
		log.Debug().Str("mode", g.mode.String()).Msg("view changed")
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		g.kernel = watchface.NextKernel(g.kernel)
		if g.face != nil {
			if err := g.face.SetKernel(g.kernel); err != nil {
				return err
			}
			g.dirty = true
		}
		log.Info().Str("kernel", g.kernel.Name).Msg("kernel changed")
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.face == nil {
		screen.Fill(color.White)
		return
	}

	w, h := g.face.Size()
	if g.faceImg == nil || g.faceImg.Bounds().Dx() != w || g.faceImg.Bounds().Dy() != h {
		if g.faceImg != nil {
			g.faceImg.Deallocate()
		}
		g.faceImg = ebiten.NewImage(w, h)
		g.dirty = true
	}
	if g.dirty {
		g.faceImg.WritePixels(g.face.RGBA(g.mode))
		g.dirty = false
	}
	screen.DrawImage(g.faceImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return max(watchface.ScreenWidth, g.raytracer.Width()), max(watchface.ScreenHeight, g.raytracer.Width())
}
