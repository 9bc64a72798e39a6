package strel

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"ndmorph/pkg/bresenham"
)

// maxPolyStep bounds the dominant component of 2-D polygon directions.
const maxPolyStep = 7

// Poly returns a decomposable approximation of the ball of the given
// isotropic radius. lines selects how many line directions are used; zero
// picks a default from the radius.
//
// In 2-D, lines must be even: the directions are the integer vectors
// closest to the angles k*pi/lines, with odd dominant component, closed
// under rotation by 90 degrees. In 3-D, lines is one of 3 (axes), 7 (axes
// and body diagonals), 9 (axes and face diagonals) or 13 (all neighbour
// directions of the 3x3x3 cube). Line lengths are grown until the sum of
// the lines would leave the ball of radius radius+0.5.
func Poly(radius []int, lines int) (Element, error) {
	if err := checkRadius(radius); err != nil {
		return Element{}, err
	}
	r := radius[0]
	for _, v := range radius {
		if v != r {
			return Element{}, fmt.Errorf("%w: poly radius %v must be the same on every axis", ErrShape, radius)
		}
	}

	var (
		orbits [][][]int
		err    error
		fits   func([]Line) bool
	)
	limit := r*r + r // integer squared norms <= (r+0.5)^2
	switch len(radius) {
	case 1:
		if lines != 0 && lines != 1 {
			return Element{}, fmt.Errorf("%w: 1-D poly has a single line, got %d", ErrShape, lines)
		}
		l := Line{Direction: []int{1}, Length: 2*r + 1}
		return Element{kind: KindPoly, radius: []int{r}, lines: []Line{l}}, nil
	case 2:
		orbits, err = polygonDirections(r, lines)
		fits = func(ls []Line) bool { return polygonNorm2(ls) <= limit }
	case 3:
		orbits, err = polyhedronDirections(lines)
		fits = func(ls []Line) bool { return zonohedronNorm2(ls) <= float64(limit) }
	default:
		return Element{}, fmt.Errorf("%w: poly is defined for 1 to 3 dimensions, got %d", ErrShape, len(radius))
	}
	if err != nil {
		return Element{}, err
	}

	halves := growHalves(orbits, fits)
	ls := expand(orbits, halves)
	if err := checkNonParallel(ls); err != nil {
		return Element{}, err
	}

	total := make([]int, len(radius))
	for _, l := range ls {
		for d, v := range l.Radius() {
			total[d] += v
		}
	}
	return Element{kind: KindPoly, radius: total, lines: ls}, nil
}

// DefaultPolyLines returns the line count Poly uses for lines == 0.
func DefaultPolyLines(dim, radius int) int {
	switch dim {
	case 1:
		return 1
	case 2:
		for n := 4; n < 8; n += 2 {
			if float64(radius)*(1-math.Cos(math.Pi/float64(2*n))) <= 0.5 {
				return n
			}
		}
		return 8
	default:
		return 13
	}
}

// polygonDirections returns the 2-D line directions grouped in pairs that
// map onto each other by a quarter turn.
func polygonDirections(r, n int) ([][][]int, error) {
	if n == 0 {
		n = DefaultPolyLines(2, r)
	}
	cands := quadrantCandidates()
	if n < 2 || n%2 != 0 || n/2 > len(cands) {
		return nil, fmt.Errorf("%w: 2-D poly needs an even line count between 2 and %d, got %d", ErrShape, 2*len(cands), n)
	}

	used := make([]bool, len(cands))
	orbits := make([][][]int, 0, n/2)
	for k := 0; k < n/2; k++ {
		target := float64(k) * math.Pi / float64(n)
		best := -1
		for i, c := range cands {
			if used[i] {
				continue
			}
			if best < 0 || math.Abs(c.angle-target) < math.Abs(cands[best].angle-target) {
				best = i
			}
		}
		used[best] = true
		v := cands[best].dir
		rot, err := bresenham.Normalize([]int{-v[1], v[0]})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		}
		orbits = append(orbits, [][]int{slices.Clone(v), rot})
	}
	return orbits, nil
}

type candidate struct {
	dir   []int
	angle float64
}

// quadrantCandidates lists the reduced integer directions with angle in
// [0, pi/2) whose dominant component is odd and at most maxPolyStep, sorted
// by angle.
func quadrantCandidates() []candidate {
	var out []candidate
	for x := 0; x <= maxPolyStep; x++ {
		for y := 0; y <= maxPolyStep; y++ {
			if x == 0 || gcd(x, y) != 1 || max(x, y)%2 == 0 {
				continue
			}
			out = append(out, candidate{dir: []int{x, y}, angle: math.Atan2(float64(y), float64(x))})
		}
	}
	slices.SortFunc(out, func(a, b candidate) int { return cmp.Compare(a.angle, b.angle) })
	return out
}

// polyhedronDirections returns the 3-D direction classes for n lines.
func polyhedronDirections(n int) ([][][]int, error) {
	axes := [][]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	body := [][]int{{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1}}
	face := [][]int{{1, 1, 0}, {1, -1, 0}, {1, 0, 1}, {1, 0, -1}, {0, 1, 1}, {0, 1, -1}}
	switch n {
	case 3:
		return [][][]int{axes}, nil
	case 7:
		return [][][]int{axes, body}, nil
	case 9:
		return [][][]int{axes, face}, nil
	case 0, 13:
		return [][][]int{axes, face, body}, nil
	}
	return nil, fmt.Errorf("%w: 3-D poly supports 3, 7, 9 or 13 lines, got %d", ErrShape, n)
}

// growHalves lengthens the orbits one pixel at a time, always the orbit with
// the shortest euclidean half length first, until no orbit can grow without
// fits failing.
func growHalves(orbits [][][]int, fits func([]Line) bool) []int {
	halves := make([]int, len(orbits))
	unit := make([]float64, len(orbits))
	for i, o := range orbits {
		v := make([]float64, len(o[0]))
		for d, c := range o[0] {
			v[d] = float64(c)
		}
		_, a := bresenham.Dominant(o[0])
		unit[i] = floats.Norm(v, 2) / float64(a)
	}

	frozen := make([]bool, len(orbits))
	for {
		pick := -1
		for i := range orbits {
			if frozen[i] {
				continue
			}
			if pick < 0 || float64(halves[i])*unit[i] < float64(halves[pick])*unit[pick] {
				pick = i
			}
		}
		if pick < 0 {
			return halves
		}
		halves[pick]++
		if !fits(expand(orbits, halves)) {
			halves[pick]--
			frozen[pick] = true
		}
	}
}

func expand(orbits [][][]int, halves []int) []Line {
	var out []Line
	for i, o := range orbits {
		for _, dir := range o {
			out = append(out, Line{Direction: slices.Clone(dir), Length: 2*halves[i] + 1})
		}
	}
	return out
}

// extremePoints returns the pixels of l that can be a vertex of its convex
// hull: the first and last pixel of every residue class of the line.
func extremePoints(l Line) [][]int {
	h, a := l.Half(), l.Steps()
	var out [][]int
	for t := -h; t <= h; t++ {
		if t-a < -h || t+a > h {
			out = append(out, bresenham.Point(l.Direction, t))
		}
	}
	return out
}

// polygonNorm2 returns the largest squared norm of a pixel of the sum of 2-D
// lines. The vertices of the sum are found by probing one direction between
// each pair of consecutive edge normals of the line hulls.
func polygonNorm2(ls []Line) int {
	pts := make([][][]int, len(ls))
	var angles []float64
	for i, l := range ls {
		pts[i] = extremePoints(l)
		for j, p := range pts[i] {
			for _, q := range pts[i][j+1:] {
				if p[0] == q[0] && p[1] == q[1] {
					continue
				}
				e := math.Atan2(float64(q[1]-p[1]), float64(q[0]-p[0]))
				angles = append(angles, wrapAngle(e+math.Pi/2), wrapAngle(e-math.Pi/2))
			}
		}
	}
	angles = append(angles, 0)
	slices.Sort(angles)
	angles = slices.Compact(angles)

	best := 0
	for k, lo := range angles {
		hi := 2 * math.Pi
		if k+1 < len(angles) {
			hi = angles[k+1]
		} else {
			hi += angles[0]
		}
		phi := (lo + hi) / 2
		n := []float64{math.Cos(phi), math.Sin(phi)}
		sx, sy := 0, 0
		for _, cands := range pts {
			arg, top := 0, math.Inf(-1)
			for j, p := range cands {
				if s := floats.Dot(n, []float64{float64(p[0]), float64(p[1])}); s > top {
					arg, top = j, s
				}
			}
			sx += cands[arg][0]
			sy += cands[arg][1]
		}
		best = max(best, sx*sx+sy*sy)
	}
	return best
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// zonohedronNorm2 returns the largest squared norm of the sum of straight
// 3-D lines, reached at one of the vertices obtained by choosing an end of
// every segment.
func zonohedronNorm2(ls []Line) float64 {
	ends := make([]r3.Vec, len(ls))
	for i, l := range ls {
		h := float64(l.Half())
		ends[i] = r3.Scale(h, r3.Vec{X: float64(l.Direction[0]), Y: float64(l.Direction[1]), Z: float64(l.Direction[2])})
	}
	best := 0.0
	for signs := 0; signs < 1<<len(ends); signs++ {
		var sum r3.Vec
		for i, e := range ends {
			if signs&(1<<i) != 0 {
				sum = r3.Add(sum, e)
			} else {
				sum = r3.Sub(sum, e)
			}
		}
		best = math.Max(best, r3.Norm2(sum))
	}
	return best
}

// checkNonParallel fails when two lines share a direction up to sign.
func checkNonParallel(ls []Line) error {
	seen := make(map[string]bool, len(ls))
	for _, l := range ls {
		dir, err := bresenham.Normalize(l.Direction)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrShape, err)
		}
		key := fmt.Sprint(dir)
		if seen[key] {
			return fmt.Errorf("%w: parallel lines along %v", ErrShape, dir)
		}
		seen[key] = true
	}
	return nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
