package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/platform/auth"
	"fleet-tracking-service/internal/ports"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) ListUsers(ctx context.Context, companyID, sectorID string) ([]*domain.User, error) {
	return f.users, nil
}

type fakeRunRepo struct {
	runs []*domain.Run
}

func (f *fakeRunRepo) CreateRun(ctx context.Context, run *domain.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	for _, r := range f.runs {
		if r.RunID == runID {
			return r, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeRunRepo) ListRuns(ctx context.Context, companyID, sectorID string) ([]*domain.Run, error) {
	return f.runs, nil
}

func (f *fakeRunRepo) UpdateStop(ctx context.Context, runID string, stop domain.Stop) error {
	return nil
}

func (f *fakeRunRepo) ReorderStops(ctx context.Context, runID string, stopIDs []string) error {
	return nil
}

func (f *fakeRunRepo) AppendLocations(ctx context.Context, runID string, points []domain.LocationPoint) error {
	return nil
}

func (f *fakeRunRepo) CompleteRun(ctx context.Context, runID string, endedAt time.Time, endMileage float64) error {
	return nil
}

func testUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{
		UserID:       "u1",
		CompanyID:    "c1",
		SectorID:     "s1",
		Name:         "Ana",
		Email:        email,
		Role:         domain.RoleAdmin,
		PasswordHash: string(hash),
	}
}

func adminSession() domain.SessionContext {
	return domain.SessionContext{
		UserID: "u1", Name: "Ana", Role: domain.RoleAdmin,
		CompanyID: "c1", SectorID: "s1",
	}
}

func TestLogin(t *testing.T) {
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	users := &fakeUserRepo{users: []*domain.User{testUser(t, "ana@example.com", "correct-horse")}}
	h := &AuthHandler{Users: users, Tokens: tokens}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		body := `{"email":"ana@example.com","password":"correct-horse"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var res struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		claims, err := tokens.Validate(res.Token)
		if err != nil {
			t.Fatalf("issued token invalid: %v", err)
		}
		if claims.CompanyID != "c1" || claims.SectorID != "s1" {
			t.Fatalf("token not scoped: %+v", claims)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		body := `{"email":"ana@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown email rejected with same error", func(t *testing.T) {
		body := `{"email":"nobody@example.com","password":"whatever"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestListTrips(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	runs := &fakeRunRepo{runs: []*domain.Run{
		{
			RunID: "r1", CompanyID: "c1", SectorID: "s1",
			DriverID: "u1", DriverName: "Ana", VehicleID: "V1",
			StartedAt: start, StartMileage: 100, Status: domain.RunInProgress,
		},
	}}
	h := &TripHandler{Runs: runs, Users: &fakeUserRepo{}}

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req = req.WithContext(WithSession(req.Context(), adminSession()))
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Trips []struct {
			Key    string `json:"key"`
			Status string `json:"status"`
		} `json:"trips"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Trips) != 1 {
		t.Fatalf("got %d trips, want 1", len(res.Trips))
	}
	if res.Trips[0].Key != "V1-no shift-2026-03-10" {
		t.Fatalf("key = %q", res.Trips[0].Key)
	}
}

func TestListTripsRequiresSession(t *testing.T) {
	h := &TripHandler{Runs: &fakeRunRepo{}, Users: &fakeUserRepo{}}

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSegmentsWithoutHistory(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	runs := &fakeRunRepo{runs: []*domain.Run{
		{
			RunID: "r1", CompanyID: "c1", SectorID: "s1",
			DriverID: "u1", DriverName: "Ana", VehicleID: "V1",
			StartedAt: start, StartMileage: 100, Status: domain.RunInProgress,
		},
	}}
	h := &TripHandler{Runs: runs, Users: &fakeUserRepo{}}

	req := httptest.NewRequest(http.MethodGet, "/trips/V1-no%20shift-2026-03-10/segments", nil)
	req = req.WithContext(WithSession(req.Context(), adminSession()))
	req.SetPathValue("key", "V1-no shift-2026-03-10")
	rec := httptest.NewRecorder()

	h.Segments(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "insufficient location data") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSegmentsUnknownTrip(t *testing.T) {
	h := &TripHandler{Runs: &fakeRunRepo{}, Users: &fakeUserRepo{}}

	req := httptest.NewRequest(http.MethodGet, "/trips/nope/segments", nil)
	req = req.WithContext(WithSession(req.Context(), adminSession()))
	req.SetPathValue("key", "nope")
	rec := httptest.NewRecorder()

	h.Segments(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateRunAssignsIDs(t *testing.T) {
	runs := &fakeRunRepo{}
	h := &RunHandler{Repo: runs}

	body := `{"vehicle_id":"V1","start_mileage":100,"stops":[{"name":"Fazenda A"},{"name":"Fazenda B"}]}`
	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(body))
	req = req.WithContext(WithSession(req.Context(), adminSession()))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(runs.runs) != 1 {
		t.Fatalf("run not persisted")
	}
	run := runs.runs[0]
	if run.RunID == "" || run.CompanyID != "c1" || run.DriverID != "u1" {
		t.Fatalf("run not scoped from session: %+v", run)
	}
	if len(run.Stops) != 2 || run.Stops[0].StopID == "" || run.Stops[0].Status != domain.StopPending {
		t.Fatalf("stops not initialized: %+v", run.Stops)
	}
}

func TestCreateRunRejectsUnknownFields(t *testing.T) {
	h := &RunHandler{Repo: &fakeRunRepo{}}

	body := `{"vehicle_id":"V1","start_mileage":100,"stops":[{"name":"A"}],"bogus":1}`
	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(body))
	req = req.WithContext(WithSession(req.Context(), adminSession()))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
