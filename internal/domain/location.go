package domain

import "time"

// A single GPS sample captured by a driver's device while a run is active.
// Points are immutable once recorded; they are appended to a run's location
// history and never deleted. Delivery order over the network is not
// guaranteed to match capture order, so consumers sort by RecordedAt.
type LocationPoint struct {
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
}

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for map-rendering compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Coord returns the point's position in rendering order (lon, lat).
func (p LocationPoint) Coord() Coordinates {
	return Coordinates{Lon: p.Longitude, Lat: p.Latitude}
}
