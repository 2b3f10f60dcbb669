package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"fleet-tracking-service/internal/api/dto"
	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/ports"

	"github.com/google/uuid"
)

// RunHandler exposes the driver-facing run lifecycle: start a run, progress
// through its stops, stream GPS samples, and close it out.
type RunHandler struct {
	Repo ports.RunRepository
}

func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.CreateRunRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	startedAt := time.Now()
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	run := &domain.Run{
		RunID:        uuid.NewString(),
		CompanyID:    session.CompanyID,
		SectorID:     session.SectorID,
		DriverID:     session.UserID,
		DriverName:   session.Name,
		VehicleID:    req.VehicleID,
		StartedAt:    startedAt,
		StartMileage: req.StartMileage,
		Status:       domain.RunInProgress,
		Stops:        make([]domain.Stop, 0, len(req.Stops)),
	}
	for _, s := range req.Stops {
		run.Stops = append(run.Stops, domain.Stop{
			StopID: uuid.NewString(),
			Name:   strings.TrimSpace(s.Name),
			Status: domain.StopPending,
		})
	}

	if err := h.Repo.CreateRun(r.Context(), run); err != nil {
		log.Printf("create run failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, runResponse(run))
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	run, ok := h.loadScoped(w, r, session, r.PathValue("runID"))
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, runResponse(run))
}

func (h *RunHandler) ArriveStop(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.ArriveStopRequest
	if msg, ok := decodeOptionalJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	run, ok := h.loadScoped(w, r, session, r.PathValue("runID"))
	if !ok {
		return
	}

	stop, found := run.StopByID(r.PathValue("stopID"))
	if !found {
		writeError(w, r, http.StatusNotFound, "stop not found")
		return
	}

	at := time.Now()
	if req.ArrivedAt != nil {
		at = *req.ArrivedAt
	}
	if err := stop.Arrive(at); err != nil {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	if err := h.Repo.UpdateStop(r.Context(), run.RunID, *stop); err != nil {
		log.Printf("update stop failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, stopResponse(*stop))
}

func (h *RunHandler) CompleteStop(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.CompleteStopRequest
	if msg, ok := decodeOptionalJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	run, ok := h.loadScoped(w, r, session, r.PathValue("runID"))
	if !ok {
		return
	}

	stop, found := run.StopByID(r.PathValue("stopID"))
	if !found {
		writeError(w, r, http.StatusNotFound, "stop not found")
		return
	}

	at := time.Now()
	if req.DepartedAt != nil {
		at = *req.DepartedAt
	}
	if err := stop.Complete(at); err != nil {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	stop.CollectedCargo = req.CollectedCargo
	stop.MileageAtStop = req.MileageAtStop
	stop.OccupancyPct = req.OccupancyPct
	stop.Observation = strings.TrimSpace(req.Observation)

	if err := h.Repo.UpdateStop(r.Context(), run.RunID, *stop); err != nil {
		log.Printf("update stop failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, stopResponse(*stop))
}

func (h *RunHandler) CancelStop(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	run, ok := h.loadScoped(w, r, session, r.PathValue("runID"))
	if !ok {
		return
	}

	stop, found := run.StopByID(r.PathValue("stopID"))
	if !found {
		writeError(w, r, http.StatusNotFound, "stop not found")
		return
	}

	if err := stop.Cancel(); err != nil {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	if err := h.Repo.UpdateStop(r.Context(), run.RunID, *stop); err != nil {
		log.Printf("update stop failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, stopResponse(*stop))
}

func (h *RunHandler) ReorderStops(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.ReorderStopsRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	run, ok := h.loadScoped(w, r, session, r.PathValue("runID"))
	if !ok {
		return
	}

	if err := h.Repo.ReorderStops(r.Context(), run.RunID, req.StopIDs); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, r, http.StatusBadRequest, "stop ids must cover the run's stops")
			return
		}
		log.Printf("reorder stops failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RunHandler) AppendLocations(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.AppendLocationsRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	run, ok := h.loadScoped(w, r, session, r.PathValue("runID"))
	if !ok {
		return
	}

	points := make([]domain.LocationPoint, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, domain.LocationPoint{
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			RecordedAt: p.RecordedAt,
		})
	}

	if err := h.Repo.AppendLocations(r.Context(), run.RunID, points); err != nil {
		log.Printf("append locations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RunHandler) Complete(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.CompleteRunRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	run, ok := h.loadScoped(w, r, session, r.PathValue("runID"))
	if !ok {
		return
	}

	at := time.Now()
	if req.EndedAt != nil {
		at = *req.EndedAt
	}
	if err := run.Complete(at, req.EndMileage); err != nil {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	if err := h.Repo.CompleteRun(r.Context(), run.RunID, at, req.EndMileage); err != nil {
		log.Printf("complete run failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, runResponse(run))
}

// loadScoped fetches a run and hides it from callers outside its
// company/sector scope. Drivers may only touch their own runs; admins see
// the whole sector.
func (h *RunHandler) loadScoped(w http.ResponseWriter, r *http.Request, session domain.SessionContext, runID string) (*domain.Run, bool) {
	run, err := h.Repo.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "run not found")
			return nil, false
		}
		log.Printf("get run failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	if run.CompanyID != session.CompanyID || run.SectorID != session.SectorID {
		writeError(w, r, http.StatusNotFound, "run not found")
		return nil, false
	}
	if session.Role == domain.RoleDriver && run.DriverID != session.UserID {
		writeError(w, r, http.StatusForbidden, "run belongs to another driver")
		return nil, false
	}

	return run, true
}

func stopResponse(s domain.Stop) dto.StopResponse {
	return dto.StopResponse{
		StopID:         s.StopID,
		Name:           s.Name,
		Status:         string(s.Status),
		ArrivedAt:      s.ArrivedAt,
		DepartedAt:     s.DepartedAt,
		CollectedCargo: s.CollectedCargo,
		MileageAtStop:  s.MileageAtStop,
		OccupancyPct:   s.OccupancyPct,
		Observation:    s.Observation,
	}
}

func runResponse(run *domain.Run) dto.RunResponse {
	stops := make([]dto.StopResponse, 0, len(run.Stops))
	for _, s := range run.Stops {
		stops = append(stops, stopResponse(s))
	}
	return dto.RunResponse{
		RunID:        run.RunID,
		CompanyID:    run.CompanyID,
		SectorID:     run.SectorID,
		DriverID:     run.DriverID,
		DriverName:   run.DriverName,
		VehicleID:    run.VehicleID,
		StartedAt:    run.StartedAt,
		StartMileage: run.StartMileage,
		Status:       string(run.Status),
		EndedAt:      run.EndedAt,
		EndMileage:   run.EndMileage,
		Stops:        stops,
	}
}
