package dto

import "time"

// TripMemberResponse summarizes one member run inside an aggregated trip.
// IdleBefore is the formatted gap since the previous member's end; absent for
// the first member and when the gap is unknown.
type TripMemberResponse struct {
	RunID      string     `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
	IdleBefore *string    `json:"idle_before,omitempty"`
}

type TripResponse struct {
	Key           string               `json:"key"`
	DriverID      string               `json:"driver_id"`
	DriverName    string               `json:"driver_name"`
	VehicleID     string               `json:"vehicle_id"`
	Shift         string               `json:"shift"`
	StartedAt     time.Time            `json:"started_at"`
	StartMileage  float64              `json:"start_mileage"`
	EndedAt       *time.Time           `json:"ended_at"`
	EndMileage    *float64             `json:"end_mileage"`
	TotalDistance float64              `json:"total_distance"`
	Status        string               `json:"status"`
	Stops         []StopResponse       `json:"stops"`
	Runs          []TripMemberResponse `json:"runs"`
}

type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

// SegmentResponse carries one map polyline. Path entries are [lon, lat].
type SegmentResponse struct {
	Label      string       `json:"label"`
	Path       [][]float64  `json:"path"`
	Color      string       `json:"color"`
	TravelTime string       `json:"travel_time"`
	StopTime   string       `json:"stop_time,omitempty"`
	Distance   *float64      `json:"distance"`
	Stop       *StopResponse `json:"stop,omitempty"`
}

type ListSegmentsResponse struct {
	Segments []SegmentResponse `json:"segments"`
}
