package handlers

import (
	"log"
	"net/http"
	"time"

	"fleet-tracking-service/internal/api/dto"
	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/ports"
	"fleet-tracking-service/internal/services"
)

// TripHandler exposes the supervisor dashboard views: aggregated trips and
// their per-stop map segments. Both are derived on request; nothing here
// writes.
type TripHandler struct {
	Runs  ports.RunRepository
	Users ports.UserRepository
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	trips, err := services.BuildTrips(r.Context(), services.TripQuery{
		CompanyID: session.CompanyID,
		SectorID:  session.SectorID,
	}, h.Runs, h.Users)
	if err != nil {
		log.Printf("build trips failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, tripResponse(t))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Segments(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	trips, err := services.BuildTrips(r.Context(), services.TripQuery{
		CompanyID: session.CompanyID,
		SectorID:  session.SectorID,
	}, h.Runs, h.Users)
	if err != nil {
		log.Printf("build trips failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	key := r.PathValue("key")
	var trip *domain.AggregatedRun
	for _, t := range trips {
		if t.Key == key {
			trip = t
			break
		}
	}
	if trip == nil {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}

	if len(trip.LocationHistory) == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "insufficient location data")
		return
	}

	segments := services.BuildSegments(trip, time.Now())

	res := dto.ListSegmentsResponse{Segments: make([]dto.SegmentResponse, 0, len(segments))}
	for _, seg := range segments {
		res.Segments = append(res.Segments, segmentResponse(seg))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// tripResponse flattens an aggregated trip for the dashboard list. Canceled
// stops are part of the trip record but never shown.
func tripResponse(t *domain.AggregatedRun) dto.TripResponse {
	stops := make([]dto.StopResponse, 0, len(t.Stops))
	for _, s := range t.Stops {
		if s.Status == domain.StopCanceled {
			continue
		}
		stops = append(stops, stopResponse(s))
	}

	members := make([]dto.TripMemberResponse, 0, len(t.Runs))
	for i, run := range t.Runs {
		member := dto.TripMemberResponse{
			RunID:     run.RunID,
			StartedAt: run.StartedAt,
			EndedAt:   run.EndedAt,
		}
		if idle := t.IdleBefore(i); idle != nil {
			formatted := services.FormatMinutes(*idle)
			member.IdleBefore = &formatted
		}
		members = append(members, member)
	}

	return dto.TripResponse{
		Key:           t.Key,
		DriverID:      t.DriverID,
		DriverName:    t.DriverName,
		VehicleID:     t.VehicleID,
		Shift:         t.Shift,
		StartedAt:     t.StartedAt,
		StartMileage:  t.StartMileage,
		EndedAt:       t.EndedAt,
		EndMileage:    t.EndMileage,
		TotalDistance: t.TotalDistance,
		Status:        string(t.Status),
		Stops:         stops,
		Runs:          members,
	}
}

func segmentResponse(seg domain.Segment) dto.SegmentResponse {
	path := make([][]float64, 0, len(seg.Path))
	for _, c := range seg.Path {
		path = append(path, c.CoordsToList())
	}

	res := dto.SegmentResponse{
		Label:      seg.Label,
		Path:       path,
		Color:      seg.Color,
		TravelTime: seg.TravelTime,
		StopTime:   seg.StopTime,
		Distance:   seg.Distance,
	}
	// The trailing live-position segment carries no stop.
	if seg.Stop.StopID != "" {
		stop := stopResponse(seg.Stop)
		res.Stop = &stop
	}
	return res
}
