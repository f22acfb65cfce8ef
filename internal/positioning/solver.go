package positioning

import (
	"errors"
	"math"

	"celltrack-api/internal/models"
)

var (
	errNotConverged = errors.New("positioning: solver did not converge")
	errDegenerate   = errors.New("positioning: tower geometry does not determine a position")
	errNonFinite    = errors.New("positioning: solver produced a non-finite value")
)

type solverOptions struct {
	maxIterations  int
	ftol           float64 // relative cost reduction of an accepted step
	xtol           float64 // step length relative to the parameter norm
	step           float64 // central difference step in degrees
	minEigenRatio  float64 // rejects solutions where JᵀJ is close to singular
	initialDamping float64
	maxDamping     float64
}

func defaultSolverOptions() solverOptions {
	return solverOptions{
		maxIterations:  300,
		ftol:           1e-8,
		xtol:           1e-8,
		step:           1e-7,
		minEigenRatio:  1e-9,
		initialDamping: 1e-3,
		maxDamping:     1e16,
	}
}

type residualFunc func(p models.Point, out []float64)

// levenbergMarquardt minimizes ½Σr² over (lat, lon) with Marquardt diagonal scaling.
func levenbergMarquardt(f residualFunc, m int, x0 models.Point, opts solverOptions) (models.Point, error) {
	x := x0
	r := make([]float64, m)
	rTrial := make([]float64, m)
	jac := make([][2]float64, m)
	f(x, r)
	c := halfSquaredNorm(r)
	if !isFinite(c) {
		return models.Point{}, errNonFinite
	}

	lambda := opts.initialDamping
	for iter := 0; iter < opts.maxIterations; iter++ {
		jacobian(f, x, opts.step, jac)
		a11, a12, a22, g1, g2 := normalEquations(jac, r)

		maxDiag := math.Max(a11, a22)
		if maxDiag == 0 {
			return models.Point{}, errDegenerate
		}
		d1 := math.Max(a11, 1e-12*maxDiag)
		d2 := math.Max(a22, 1e-12*maxDiag)

		var trial models.Point
		var cTrial, dLat, dLon float64
		for {
			m11 := a11 + lambda*d1
			m22 := a22 + lambda*d2
			det := m11*m22 - a12*a12
			dLat = (-g1*m22 + g2*a12) / det
			dLon = (-g2*m11 + g1*a12) / det

			trial = models.Point{Lat: x.Lat + dLat, Lon: x.Lon + dLon}
			f(trial, rTrial)
			cTrial = halfSquaredNorm(rTrial)
			if isFinite(cTrial) && cTrial < c {
				break
			}
			lambda *= 10
			if lambda > opts.maxDamping {
				// No descent direction left: x is a stationary point.
				return accept(x, a11, a12, a22, opts)
			}
		}

		reduction := 0.0
		if c > 0 {
			reduction = (c - cTrial) / c
		}
		x = trial
		copy(r, rTrial)
		c = cTrial
		lambda = math.Max(lambda/10, 1e-12)

		if reduction <= opts.ftol {
			return accept(x, a11, a12, a22, opts)
		}
		if math.Hypot(dLat, dLon) <= opts.xtol*(math.Hypot(x.Lat, x.Lon)+opts.xtol) {
			return accept(x, a11, a12, a22, opts)
		}
	}
	return models.Point{}, errNotConverged
}

func accept(x models.Point, a11, a12, a22 float64, opts solverOptions) (models.Point, error) {
	if !isFinite(x.Lat) || !isFinite(x.Lon) {
		return models.Point{}, errNonFinite
	}
	lo, hi := symmetricEigenvalues(a11, a12, a22)
	if hi <= 0 || lo/hi < opts.minEigenRatio {
		return models.Point{}, errDegenerate
	}
	return x, nil
}

func jacobian(f residualFunc, x models.Point, h float64, out [][2]float64) {
	m := len(out)
	plus := make([]float64, m)
	minus := make([]float64, m)

	f(models.Point{Lat: x.Lat + h, Lon: x.Lon}, plus)
	f(models.Point{Lat: x.Lat - h, Lon: x.Lon}, minus)
	for i := range out {
		out[i][0] = (plus[i] - minus[i]) / (2 * h)
	}

	f(models.Point{Lat: x.Lat, Lon: x.Lon + h}, plus)
	f(models.Point{Lat: x.Lat, Lon: x.Lon - h}, minus)
	for i := range out {
		out[i][1] = (plus[i] - minus[i]) / (2 * h)
	}
}

// normalEquations returns JᵀJ (a11, a12, a22) and Jᵀr (g1, g2).
func normalEquations(jac [][2]float64, r []float64) (a11, a12, a22, g1, g2 float64) {
	for i, row := range jac {
		a11 += row[0] * row[0]
		a12 += row[0] * row[1]
		a22 += row[1] * row[1]
		g1 += row[0] * r[i]
		g2 += row[1] * r[i]
	}
	return
}

func symmetricEigenvalues(a, b, c float64) (lo, hi float64) {
	mean := (a + c) / 2
	d := math.Sqrt((a-c)*(a-c)/4 + b*b)
	return mean - d, mean + d
}

func halfSquaredNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return s / 2
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
