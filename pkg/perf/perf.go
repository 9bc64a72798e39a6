// Package perf times the morphology algorithms against each other over a
// range of structuring element sizes.
package perf

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"ndmorph/pkg/morphology"
	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// Result holds the timings of one algorithm for one radius.
type Result struct {
	Algorithm morphology.Algorithm
	Radius    int
	// Mean and StdDev of the run times in milliseconds
	Mean   float64
	StdDev float64
	Runs   int
	// Skipped is set when the algorithm does not support the element
	Skipped bool
	// Match reports whether the output equals that of the first algorithm
	// run for this radius
	Match bool
}

// Report collects the results of Run.
type Report struct {
	Operation morphology.Operation
	Pixels    int
	Results   []Result
}

// Benchmark describes a timing run.
type Benchmark struct {
	Operation  morphology.Operation
	Algorithms []morphology.Algorithm
	Radii      []int
	Repeats    int
	// Element builds the structuring element for a radius
	Element func(radius int) (strel.Element, error)
	Logger  zerolog.Logger
}

// Run times op on img for every radius and algorithm of b.
func Run[T ndimage.Pixel](img *ndimage.Image[T], b Benchmark, opts morphology.Options[T]) (*Report, error) {
	if b.Repeats < 1 {
		return nil, fmt.Errorf("repeats must be positive, got %d", b.Repeats)
	}
	op, err := morphology.OperatorFor[T](b.Operation)
	if err != nil {
		return nil, err
	}

	report := &Report{Operation: b.Operation, Pixels: img.Region().NumPixels()}
	for _, radius := range b.Radii {
		se, err := b.Element(radius)
		if err != nil {
			return nil, fmt.Errorf("radius %d: %w", radius, err)
		}

		var reference *ndimage.Image[T]
		for _, alg := range b.Algorithms {
			res := Result{Algorithm: alg, Radius: radius}
			opts.Algorithm = alg
			times := make([]float64, 0, b.Repeats)
			var out *ndimage.Image[T]
			for i := 0; i < b.Repeats; i++ {
				start := time.Now()
				out, err = op(img, se, opts)
				elapsed := time.Since(start)
				if err != nil {
					break
				}
				times = append(times, float64(elapsed.Microseconds())/1000)
			}
			if errors.Is(err, morphology.ErrUnsupportedShape) {
				b.Logger.Debug().Stringer("algorithm", alg).Int("radius", radius).Msg("skipping unsupported element")
				res.Skipped = true
				report.Results = append(report.Results, res)
				err = nil
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%v at radius %d: %w", alg, radius, err)
			}

			res.Runs = len(times)
			res.Mean = stat.Mean(times, nil)
			if len(times) > 1 {
				res.StdDev = stat.StdDev(times, nil)
			}
			if reference == nil {
				reference = out
				res.Match = true
			} else {
				res.Match = reference.Equal(out)
			}
			b.Logger.Info().
				Stringer("algorithm", alg).
				Int("radius", radius).
				Float64("meanMs", res.Mean).
				Float64("stdDevMs", res.StdDev).
				Bool("match", res.Match).
				Msg("timed")
			report.Results = append(report.Results, res)
		}
	}
	return report, nil
}

// Mismatches returns the results whose output differed from the reference.
func (r *Report) Mismatches() []Result {
	var bad []Result
	for _, res := range r.Results {
		if !res.Skipped && !res.Match {
			bad = append(bad, res)
		}
	}
	return bad
}

// Write prints the report as a table.
func (r *Report) Write(w io.Writer) error {
	fmt.Fprintf(w, "%v over %d pixels\n", r.Operation, r.Pixels)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "radius\talgorithm\tmean (ms)\tstd dev (ms)\truns\tmatch")
	for _, res := range r.Results {
		if res.Skipped {
			fmt.Fprintf(tw, "%d\t%v\t-\t-\t0\tunsupported\n", res.Radius, res.Algorithm)
			continue
		}
		fmt.Fprintf(tw, "%d\t%v\t%.3f\t%.3f\t%d\t%v\n", res.Radius, res.Algorithm, res.Mean, res.StdDev, res.Runs, res.Match)
	}
	return tw.Flush()
}
