// Package vrp holds the immutable problem representation for the
// Capacitated Vehicle Routing Problem: the parsed instance and its
// precomputed distance matrix.
package vrp

import "math"

// Point is a planar coordinate.
type Point struct {
	X, Y float64
}

// Instance is the immutable problem description. Index 0 is always
// the depot; customers occupy indices 1..N.
type Instance struct {
	N        int // customers, excluding the depot
	Vehicles int // m, upper bound on route count
	Capacity int // Q

	Coord  []Point // len N+1, index 0 is the depot
	Demand []int   // len N+1, Demand[0] == 0

	Dist Matrix
}

// Matrix is a precomputed, symmetric table of pairwise Euclidean
// distances. Lookups are O(1); At is small enough that the compiler
// inlines it at call sites in the LNS hot loop.
type Matrix struct {
	n    int
	flat []float64
}

func newMatrix(coord []Point) Matrix {
	n := len(coord)
	m := Matrix{n: n, flat: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclid(coord[i], coord[j])
			m.flat[i*n+j] = d
			m.flat[j*n+i] = d
		}
	}
	return m
}

// At returns the distance between nodes i and j (0 is the depot).
// Indices are always drawn from the customer domain by callers, so no
// bounds check is needed on the hot path.
func (m Matrix) At(i, j int) float64 {
	return m.flat[i*m.n+j]
}

func euclid(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// NewInstance builds the immutable Instance and its distance matrix
// from parsed coordinates and demands. coord[0]/demand[0] describe the
// depot and demand[0] must be 0.
func NewInstance(vehicles, capacity int, coord []Point, demand []int) *Instance {
	return &Instance{
		N:        len(coord) - 1,
		Vehicles: vehicles,
		Capacity: capacity,
		Coord:    coord,
		Demand:   demand,
		Dist:     newMatrix(coord),
	}
}

// TotalDemand sums demand over all customers (excludes the depot).
func (inst *Instance) TotalDemand() int {
	total := 0
	for _, d := range inst.Demand[1:] {
		total += d
	}
	return total
}
