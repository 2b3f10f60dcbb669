package dto

import "time"

type CreateStopRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateRunRequest struct {
	VehicleID    string              `json:"vehicle_id" validate:"required"`
	StartedAt    *time.Time          `json:"started_at"`
	StartMileage float64             `json:"start_mileage" validate:"gte=0"`
	Stops        []CreateStopRequest `json:"stops" validate:"required,min=1,dive"`
}

type StopResponse struct {
	StopID         string     `json:"stop_id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	ArrivedAt      *time.Time `json:"arrived_at"`
	DepartedAt     *time.Time `json:"departed_at"`
	CollectedCargo *int       `json:"collected_cargo"`
	MileageAtStop  *float64   `json:"mileage_at_stop"`
	OccupancyPct   *int       `json:"occupancy_pct"`
	Observation    string     `json:"observation,omitempty"`
}

type RunResponse struct {
	RunID        string         `json:"run_id"`
	CompanyID    string         `json:"company_id"`
	SectorID     string         `json:"sector_id"`
	DriverID     string         `json:"driver_id"`
	DriverName   string         `json:"driver_name"`
	VehicleID    string         `json:"vehicle_id"`
	StartedAt    time.Time      `json:"started_at"`
	StartMileage float64        `json:"start_mileage"`
	Status       string         `json:"status"`
	EndedAt      *time.Time     `json:"ended_at"`
	EndMileage   *float64       `json:"end_mileage"`
	Stops        []StopResponse `json:"stops"`
}

type ArriveStopRequest struct {
	ArrivedAt *time.Time `json:"arrived_at"`
}

type CompleteStopRequest struct {
	DepartedAt     *time.Time `json:"departed_at"`
	CollectedCargo *int       `json:"collected_cargo" validate:"omitempty,gte=0"`
	MileageAtStop  *float64   `json:"mileage_at_stop" validate:"omitempty,gte=0"`
	OccupancyPct   *int       `json:"occupancy_pct" validate:"omitempty,gte=0,lte=100"`
	Observation    string     `json:"observation"`
}

type ReorderStopsRequest struct {
	StopIDs []string `json:"stop_ids" validate:"required,min=1,dive,required"`
}

type LocationPointRequest struct {
	Latitude   float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64   `json:"longitude" validate:"gte=-180,lte=180"`
	RecordedAt time.Time `json:"recorded_at" validate:"required"`
}

type AppendLocationsRequest struct {
	Points []LocationPointRequest `json:"points" validate:"required,min=1,dive"`
}

type CompleteRunRequest struct {
	EndedAt    *time.Time `json:"ended_at"`
	EndMileage float64    `json:"end_mileage" validate:"gte=0"`
}
