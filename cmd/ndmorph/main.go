package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ndmorph/pkg/config"
	"ndmorph/pkg/morphology"
	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/perf"
	"ndmorph/pkg/strel"
	"ndmorph/pkg/visualization"
	"ndmorph/pkg/volume"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	input := flag.String("input", "", "Input image file or directory of numbered slices")
	output := flag.String("output", "", "Output image file, or directory for volumes")
	opName := flag.String("op", "", "Operation: erode, dilate, opening, closing, gradient, whitetophat, blacktophat")
	algName := flag.String("algorithm", "", "Algorithm: auto, basic, histogram, anchor, vhgw")
	shape := flag.String("shape", "", "Structuring element: box, ball, poly, cross, annulus")
	radius := flag.String("radius", "", "Element radius, one value or one per axis separated by commas")
	lines := flag.Int("lines", 0, "Number of lines of a poly element (0 picks a default)")
	safeBorder := flag.Bool("safe-border", false, "Keep structures touching the image edge in openings and closings")
	workers := flag.Int("workers", 0, "Number of regions processed concurrently")
	iterations := flag.Int("iterations", 1, "Number of times the operation is applied")
	kernelOut := flag.String("kernel-out", "", "Write an image of the structuring element to this file")
	slices := flag.String("slices", "", "Write 3-D results as planes orthogonal to this axis: x, y or z")
	perfMode := flag.Bool("perf", false, "Time every algorithm instead of writing a result")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// flags given on the command line override the config
	var radiusOverride []int
	var parseErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "op":
			cfg.Operation.Name = *opName
		case "algorithm":
			cfg.Operation.Algorithm = *algName
		case "shape":
			cfg.Element.Shape = *shape
		case "radius":
			radiusOverride, parseErr = parseRadius(*radius)
			cfg.Element.Radius = radiusOverride
		case "lines":
			cfg.Element.Lines = *lines
		case "safe-border":
			cfg.Processing.SafeBorder = *safeBorder
		case "workers":
			cfg.Processing.Workers = *workers
		case "iterations":
			cfg.Processing.Iterations = *iterations
		case "slices":
			cfg.Output.SliceAxis = *slices
		}
	})

	logger := newLogger(*logLevel, cfg.Output.Verbose)
	if parseErr != nil {
		logger.Fatal().Err(parseErr).Msg("invalid radius")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if *perfMode {
		if err := runPerf(cfg, *input, logger); err != nil {
			logger.Fatal().Err(err).Msg("perf run failed")
		}
		return
	}

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}
	if err := runOperation(cfg, *input, *output, *kernelOut, logger); err != nil {
		logger.Fatal().Err(err).Msg("operation failed")
	}
}

// newLogger builds the console logger; an explicit level wins over the
// verbose setting of the config.
func newLogger(level string, verbose bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown log level %q, using %v\n", level, lvl)
		} else {
			lvl = parsed
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "ndmorph").
		Logger()
}

func runOperation(cfg *config.Config, input, output, kernelOut string, logger zerolog.Logger) error {
	op, err := morphology.ParseOperation(cfg.Operation.Name)
	if err != nil {
		return err
	}
	alg, err := morphology.ParseAlgorithm(cfg.Operation.Algorithm)
	if err != nil {
		return err
	}

	start := time.Now()
	img, err := volume.Load(input)
	if err != nil {
		return err
	}
	logger.Info().Str("input", input).Stringer("region", img.Region()).Dur("elapsed", time.Since(start)).Msg("loaded image")

	se, err := buildElement(cfg, img.Dim())
	if err != nil {
		return err
	}
	if kernelOut != "" {
		if err := visualization.SaveElement(se, kernelOut, 8); err != nil {
			return fmt.Errorf("failed to write element image: %w", err)
		}
		logger.Info().Str("path", kernelOut).Stringer("element", se).Msg("wrote element image")
	}

	opLogger := logger.With().Str("component", "morphology").Logger()
	opts := morphology.Options[uint8]{
		Algorithm:  alg,
		SafeBorder: cfg.Processing.SafeBorder,
		Workers:    cfg.Processing.Workers,
		Logger:     &opLogger,
	}
	if cfg.Operation.Boundary != nil {
		b := uint8(math.Max(0, math.Min(255, math.Round(*cfg.Operation.Boundary))))
		opts.Boundary = &b
	}

	fn, err := morphology.OperatorFor[uint8](op)
	if err != nil {
		return err
	}
	start = time.Now()
	result, err := morphology.Iterate(img, se, fn, cfg.Processing.Iterations, opts)
	if err != nil {
		return err
	}
	logger.Info().
		Stringer("operation", op).
		Stringer("element", se).
		Int("iterations", cfg.Processing.Iterations).
		Dur("elapsed", time.Since(start)).
		Msg("operation completed")

	if output == "" {
		output = defaultOutput(cfg, input, op, result.Dim())
	}
	if err := writeResult(cfg, result, output); err != nil {
		return err
	}
	logger.Info().Str("output", output).Str("sliceAxis", cfg.Output.SliceAxis).Msg("result saved")
	return nil
}

// writeResult saves result to output. A 3-D result is written as the planes
// orthogonal to the configured slice axis when one is set, and as z planes
// otherwise.
func writeResult(cfg *config.Config, result *ndimage.Image[uint8], output string) error {
	if result.Dim() != 3 || cfg.Output.SliceAxis == "" {
		return volume.Save(result, output, cfg.Output.Format)
	}
	viewer, err := visualization.NewViewer(result)
	if err != nil {
		return err
	}
	return viewer.SaveSliceSequence(strings.ToLower(cfg.Output.SliceAxis), output, cfg.Output.Format)
}

func runPerf(cfg *config.Config, input string, logger zerolog.Logger) error {
	op, err := morphology.ParseOperation(cfg.Operation.Name)
	if err != nil {
		return err
	}
	var algs []morphology.Algorithm
	for _, name := range cfg.Perf.Algorithms {
		alg, err := morphology.ParseAlgorithm(name)
		if err != nil {
			return err
		}
		algs = append(algs, alg)
	}

	var img *ndimage.Image[uint8]
	if input != "" {
		if img, err = volume.Load(input); err != nil {
			return err
		}
	} else {
		img = syntheticImage(512, 512)
		logger.Info().Stringer("region", img.Region()).Msg("no input, timing a synthetic image")
	}

	b := perf.Benchmark{
		Operation:  op,
		Algorithms: algs,
		Radii:      cfg.Perf.Radii,
		Repeats:    cfg.Perf.Repeats,
		Element: func(r int) (strel.Element, error) {
			c := *cfg
			c.Element.Radius = []int{r}
			return buildElement(&c, img.Dim())
		},
		Logger: logger.With().Str("component", "perf").Logger(),
	}
	report, err := perf.Run(img, b, morphology.Options[uint8]{
		SafeBorder: cfg.Processing.SafeBorder,
		Workers:    cfg.Processing.Workers,
	})
	if err != nil {
		return err
	}
	if err := report.Write(os.Stdout); err != nil {
		return err
	}
	if bad := report.Mismatches(); len(bad) > 0 {
		return fmt.Errorf("%d runs differ from the reference output", len(bad))
	}
	return nil
}

// buildElement creates the configured structuring element for an image of
// dim axes. A single radius value applies to every axis.
func buildElement(cfg *config.Config, dim int) (strel.Element, error) {
	radius := cfg.Element.Radius
	if len(radius) == 1 && dim > 1 {
		radius = make([]int, dim)
		for d := range radius {
			radius[d] = cfg.Element.Radius[0]
		}
	}
	if len(radius) != dim {
		return strel.Element{}, fmt.Errorf("radius %v does not match a %d-D image", cfg.Element.Radius, dim)
	}

	switch strings.ToLower(cfg.Element.Shape) {
	case "box":
		return strel.Box(radius)
	case "ball":
		return strel.Ball(radius)
	case "poly":
		return strel.Poly(radius, cfg.Element.Lines)
	case "cross":
		return strel.Cross(radius)
	case "annulus":
		return strel.Annulus(radius, cfg.Element.Thickness, cfg.Element.IncludeCenter)
	}
	return strel.Element{}, fmt.Errorf("unknown shape %q", cfg.Element.Shape)
}

func parseRadius(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	radius := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid radius %q: %w", s, err)
		}
		radius = append(radius, v)
	}
	return radius, nil
}

// defaultOutput names the result after the input inside the output
// directory of the config.
func defaultOutput(cfg *config.Config, input string, op morphology.Operation, dim int) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := fmt.Sprintf("%s_%v", base, op)
	if dim == 2 {
		name += "." + cfg.Output.Format
	}
	return filepath.Join(cfg.Output.Dir, name)
}

// syntheticImage draws overlapping discs and a gradient, a stand-in for
// real data in perf runs.
func syntheticImage(width, height int) *ndimage.Image[uint8] {
	img := ndimage.New[uint8](ndimage.RegionOfSize(width, height))
	for idx := range img.Region().All() {
		x, y := float64(idx[0]), float64(idx[1])
		v := 64 * (1 + math.Sin(x/17)*math.Cos(y/23))
		if dx, dy := x-float64(width)/3, y-float64(height)/2; dx*dx+dy*dy < 900 {
			v += 100
		}
		img.Set(idx, uint8(math.Min(255, v+float64((idx[0]*31+idx[1]*17)%13))))
	}
	return img
}
