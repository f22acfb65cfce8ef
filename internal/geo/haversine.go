// Package geo holds the great-circle primitives shared by the positioning engine
// and every other caller that needs a distance between two coordinates.
package geo

import (
	"math"

	"celltrack-api/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used for all distance work.
const EarthRadiusMeters = 6371000.0

// Unit selects the output unit of Distance.
type Unit float64

const (
	Meters     Unit = 1
	Kilometers Unit = 1000
)

// Distance returns the haversine great-circle distance between a and b in the requested unit.
func Distance(a, b models.Point, unit Unit) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c / float64(unit)
}

// DistanceMeters is Distance(a, b, Meters).
func DistanceMeters(a, b models.Point) float64 {
	return Distance(a, b, Meters)
}

// Centroid returns the arithmetic mean of the coordinates. It returns the zero point for an empty slice.
func Centroid(points []models.Point) models.Point {
	if len(points) == 0 {
		return models.Point{}
	}
	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return models.Point{Lat: lat / n, Lon: lon / n}
}

// MeanPairwiseDistance averages the distance in meters over all unordered pairs.
// It returns 0 and false when fewer than two points are given.
func MeanPairwiseDistance(points []models.Point) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}
	var sum float64
	var pairs int
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			sum += DistanceMeters(points[i], points[j])
			pairs++
		}
	}
	return sum / float64(pairs), true
}

// LocalMeters projects p onto a flat east/north plane tangent at origin.
// It is accurate to well under a percent over the few kilometers a cell cluster spans.
func LocalMeters(origin, p models.Point) (east, north float64) {
	rad := math.Pi / 180
	east = (p.Lon - origin.Lon) * rad * math.Cos(origin.Lat*rad) * EarthRadiusMeters
	north = (p.Lat - origin.Lat) * rad * EarthRadiusMeters
	return east, north
}
