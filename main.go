package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-halftone-raytracer/pkg/halftone"
	"github.com/df07/go-halftone-raytracer/pkg/loaders"
	"github.com/df07/go-halftone-raytracer/pkg/raster"
	"github.com/df07/go-halftone-raytracer/pkg/renderer"
	"github.com/df07/go-halftone-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName string
	width     int
	depth     int // -1 keeps the scene's own depth
	workers   int
	kernel    string
	format    string
	outDir    string
	input     string
	sheet     int // magnification of the comparison sheet, 0 skips it
	verbose   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.sceneName, "scene", scene.DefaultSceneName, "Scene name, file:<name>, or path to a .yaml scene")
	flag.IntVar(&opts.width, "width", 0, "Canvas width and height in pixels, even (0 = scene default)")
	flag.IntVar(&opts.depth, "depth", -1, "Reflection depth (-1 = scene default)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.StringVar(&opts.kernel, "kernel", halftone.FloydSteinberg.Name, "Error diffusion kernel: "+strings.Join(halftone.KernelNames(), ", "))
	flag.StringVar(&opts.format, "format", string(raster.FormatPNG), "Halftone output format: png, pbm or ascii")
	flag.StringVar(&opts.outDir, "out", "output", "Output directory")
	flag.StringVar(&opts.input, "input", "", "Halftone an existing PNG or JPEG instead of rendering")
	flag.IntVar(&opts.sheet, "sheet", 0, "Also write a side-by-side comparison PNG magnified by this factor (0 = off)")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := run(ctx, opts, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("halftone raytracer failed")
	}
	for _, f := range files {
		log.Info().Str("file", f).Msg("saved")
	}
}

func showHelp() {
	fmt.Println("Halftone Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Printf("  %-14s - %s\n", info.ID, info.Description)
	}
	if files, err := scene.ListSceneFiles(); err == nil {
		for _, info := range files {
			fmt.Printf("  %-14s - %s\n", info.ID, info.DisplayName)
		}
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>_{gray,halftone,sheet}.*")
}

// run renders (or loads) a grayscale image, halftones it and writes both
// rasters, returning the files written.
func run(ctx context.Context, opts options, logger zerolog.Logger) ([]string, error) {
	kernel, err := halftone.KernelByName(opts.kernel)
	if err != nil {
		return nil, err
	}
	format, err := raster.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	var gray *raster.Gray
	var name string
	if opts.input != "" {
		name = strings.TrimSuffix(filepath.Base(opts.input), filepath.Ext(opts.input))
		if gray, err = loaders.LoadGray(opts.input); err != nil {
			return nil, err
		}
		logger.Info().Str("input", opts.input).Int("width", gray.Width).Int("height", gray.Height).Msg("loaded image")
	} else {
		s, err := createScene(opts.sceneName, opts.width, opts.depth)
		if err != nil {
			return nil, err
		}
		name = s.Name
		if gray, err = render(ctx, s, opts.workers, logger); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	binary, err := halftone.Dither(gray, halftone.WithKernel(kernel))
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("kernel", kernel.Name).Dur("elapsed", time.Since(start)).Msg("halftone complete")

	outputDir := filepath.Join(opts.outDir, name)
	prefix := filepath.Join(outputDir, "render_"+time.Now().Format("20060102_150405"))

	grayPath := prefix + "_gray.png"
	if err := raster.SavePNG(grayPath, gray); err != nil {
		return nil, err
	}
	halftonePath := prefix + "_halftone" + format.Extension()
	if err := raster.SaveBinary(halftonePath, binary, format); err != nil {
		return nil, err
	}

	files := []string{grayPath, halftonePath}
	if opts.sheet > 0 {
		sheetPath := prefix + "_sheet.png"
		caption := "halftone (" + kernel.Name + ")"
		if err := raster.SaveSheet(sheetPath, gray, binary, caption, opts.sheet); err != nil {
			return nil, err
		}
		files = append(files, sheetPath)
	}
	return files, nil
}

// createScene resolves a scene and applies the command line overrides
func createScene(name string, width, depth int) (*scene.Scene, error) {
	return scene.Create(name, scene.RenderOverride{Width: width, MaxDepth: scene.DepthOverride(depth)})
}

func render(ctx context.Context, s *scene.Scene, workers int, logger zerolog.Logger) (*raster.Gray, error) {
	rt, err := renderer.NewRaytracer(s, logger)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultProgressiveConfig()
	config.NumWorkers = workers
	pr := renderer.NewProgressiveRaytracer(rt, config, logger)

	img, stats, err := pr.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("render of %s failed: %w", s.Name, err)
	}

	logger.Info().
		Str("scene", s.Name).
		Int("lit_pixels", stats.LitPixels).
		Float64("mean_luminance", stats.MeanLuminance).
		Dur("elapsed", stats.Elapsed).
		Msg("render finished")
	return img, nil
}
