// Package bresenham traces digital lines through the origin of an
// N-dimensional integer grid.
//
// A line is described by an integer direction vector. Its dominant axis is
// the axis with the largest absolute component; the line visits exactly one
// pixel per step along that axis and rounds the other coordinates to the
// nearest integer, ties away from zero. When the dominant component is odd no
// ties occur, the traced line is symmetric about the origin and it repeats
// with period equal to the direction vector.
package bresenham

import "fmt"

// Dominant returns the dominant axis of direction and the absolute value of
// its component. Ties go to the lowest axis.
func Dominant(direction []int) (axis, steps int) {
	for d, v := range direction {
		if a := abs(v); a > steps {
			axis, steps = d, a
		}
	}
	return axis, steps
}

// Normalize divides direction by the gcd of its components and flips its
// sign so that the first non-zero component is positive.
func Normalize(direction []int) ([]int, error) {
	g := 0
	for _, v := range direction {
		g = gcd(g, abs(v))
	}
	if g == 0 {
		return nil, fmt.Errorf("zero direction vector %v", direction)
	}
	out := make([]int, len(direction))
	sign := 0
	for d, v := range direction {
		if sign == 0 && v != 0 {
			sign = 1
			if v < 0 {
				sign = -1
			}
		}
		out[d] = v / g
	}
	for d := range out {
		out[d] *= sign
	}
	return out, nil
}

// Point returns the offset of the t-th pixel of the line, the pixel at t=0
// being the origin.
func Point(direction []int, t int) []int {
	axis, steps := Dominant(direction)
	p := make([]int, len(direction))
	if steps == 0 {
		return p
	}
	for d, v := range direction {
		if d == axis {
			p[d] = t * sign(v)
			continue
		}
		p[d] = roundDiv(t*v, steps)
	}
	return p
}

// Trace returns the length offsets of the line centred on the origin, in
// order of increasing position along the dominant axis in the sense of
// direction. For an even length the extra pixel goes on the positive side.
// Tracing the negated direction yields the negated offsets.
func Trace(direction []int, length int) [][]int {
	if length <= 0 {
		return nil
	}
	start := -((length - 1) / 2)
	out := make([][]int, 0, length)
	for t := start; t < start+length; t++ {
		out = append(out, Point(direction, t))
	}
	return out
}

// Radius returns, for each axis, the largest absolute offset reached by the
// traced line.
func Radius(direction []int, length int) []int {
	r := make([]int, len(direction))
	for _, p := range Trace(direction, length) {
		for d, v := range p {
			r[d] = max(r[d], abs(v))
		}
	}
	return r
}

// roundDiv rounds n/d to the nearest integer, ties away from zero. d > 0.
func roundDiv(n, d int) int {
	if n >= 0 {
		return (2*n + d) / (2 * d)
	}
	return -((-2*n + d) / (2 * d))
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
