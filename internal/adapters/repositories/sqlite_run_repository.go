package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/platform/obs"
	"fleet-tracking-service/internal/ports"
)

// SQLite-backed run store. Runs, their stops (with a position column holding
// the visiting order), and their location history live in separate tables and
// are reassembled on read.
type SqliteRunRepository struct {
	DB *sql.DB
}

func NewSqliteRunRepository(db *sql.DB) *SqliteRunRepository {
	return &SqliteRunRepository{DB: db}
}

func (s *SqliteRunRepository) CreateRun(ctx context.Context, run *domain.Run) error {
	if run == nil {
		return errors.New("create run: run is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, company_id, sector_id, driver_id, driver_name, vehicle_id,
		                   started_at, start_mileage, status, ended_at, end_mileage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		run.RunID, run.CompanyID, run.SectorID, run.DriverID, run.DriverName, run.VehicleID,
		run.StartedAt.Unix(), run.StartMileage, string(run.Status),
		unixOrNil(run.EndedAt), floatOrNil(run.EndMileage),
	); err != nil {
		return fmt.Errorf("create run: insert run %s: %w", run.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stops (stop_id, run_id, position, name, status, arrived_at, departed_at,
		                    collected_cargo, mileage_at_stop, occupancy_pct, observation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("create run: prepare stop insert: %w", err)
	}
	defer stmt.Close()

	for i, stop := range run.Stops {
		if _, err := stmt.ExecContext(ctx,
			stop.StopID, run.RunID, i, stop.Name, string(stop.Status),
			unixOrNil(stop.ArrivedAt), unixOrNil(stop.DepartedAt),
			intOrNil(stop.CollectedCargo), floatOrNil(stop.MileageAtStop),
			intOrNil(stop.OccupancyPct), stop.Observation,
		); err != nil {
			return fmt.Errorf("create run: insert stop %s: %w", stop.StopID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create run: commit tx: %w", err)
	}

	return nil
}

func (s *SqliteRunRepository) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT run_id, company_id, sector_id, driver_id, driver_name, vehicle_id,
		        started_at, start_mileage, status, ended_at, end_mileage
		 FROM runs WHERE run_id = ?;`, runID)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get run %s: %w", runID, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	if err := s.loadStops(ctx, run); err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	if err := s.loadLocations(ctx, run); err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	return run, nil
}

func (s *SqliteRunRepository) ListRuns(ctx context.Context, companyID, sectorID string) (runs []*domain.Run, err error) {
	defer obs.Time(ctx, "list_runs")(&err)

	rows, err := s.DB.QueryContext(ctx,
		`SELECT run_id, company_id, sector_id, driver_id, driver_name, vehicle_id,
		        started_at, start_mileage, status, ended_at, end_mileage
		 FROM runs
		 WHERE company_id = ? AND sector_id = ?
		 ORDER BY started_at;`, companyID, sectorID)
	if err != nil {
		return nil, fmt.Errorf("list runs: query: %w", err)
	}
	defer rows.Close()

	runs = []*domain.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	for _, run := range runs {
		if err := s.loadStops(ctx, run); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if err := s.loadLocations(ctx, run); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
	}

	return runs, nil
}

func (s *SqliteRunRepository) UpdateStop(ctx context.Context, runID string, stop domain.Stop) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE stops
		 SET status = ?, arrived_at = ?, departed_at = ?, collected_cargo = ?,
		     mileage_at_stop = ?, occupancy_pct = ?, observation = ?
		 WHERE run_id = ? AND stop_id = ?;`,
		string(stop.Status), unixOrNil(stop.ArrivedAt), unixOrNil(stop.DepartedAt),
		intOrNil(stop.CollectedCargo), floatOrNil(stop.MileageAtStop),
		intOrNil(stop.OccupancyPct), stop.Observation,
		runID, stop.StopID,
	)
	if err != nil {
		return fmt.Errorf("update stop %s: %w", stop.StopID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stop %s: rows affected: %w", stop.StopID, err)
	}
	if n == 0 {
		return fmt.Errorf("update stop %s: %w", stop.StopID, ports.ErrNotFound)
	}

	return nil
}

func (s *SqliteRunRepository) ReorderStops(ctx context.Context, runID string, stopIDs []string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reorder stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stops WHERE run_id = ?;`, runID,
	).Scan(&count); err != nil {
		return fmt.Errorf("reorder stops: count: %w", err)
	}
	if count != len(stopIDs) {
		return fmt.Errorf("reorder stops: run %s has %d stops, got %d ids", runID, count, len(stopIDs))
	}

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE stops SET position = ? WHERE run_id = ? AND stop_id = ?;`)
	if err != nil {
		return fmt.Errorf("reorder stops: prepare: %w", err)
	}
	defer stmt.Close()

	for i, stopID := range stopIDs {
		res, err := stmt.ExecContext(ctx, i, runID, stopID)
		if err != nil {
			return fmt.Errorf("reorder stops: update %s: %w", stopID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reorder stops: rows affected for %s: %w", stopID, err)
		}
		if n == 0 {
			return fmt.Errorf("reorder stops: stop %s: %w", stopID, ports.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder stops: commit tx: %w", err)
	}

	return nil
}

func (s *SqliteRunRepository) AppendLocations(ctx context.Context, runID string, points []domain.LocationPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO location_points (run_id, recorded_at, latitude, longitude)
		 VALUES (?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("append locations: prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, runID, p.RecordedAt.Unix(), p.Latitude, p.Longitude); err != nil {
			return fmt.Errorf("append locations: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append locations: commit tx: %w", err)
	}

	return nil
}

func (s *SqliteRunRepository) CompleteRun(ctx context.Context, runID string, endedAt time.Time, endMileage float64) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE runs SET status = ?, ended_at = ?, end_mileage = ?
		 WHERE run_id = ? AND status = ?;`,
		string(domain.RunCompleted), endedAt.Unix(), endMileage,
		runID, string(domain.RunInProgress),
	)
	if err != nil {
		return fmt.Errorf("complete run %s: %w", runID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete run %s: rows affected: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("complete run %s: not found or already completed: %w", runID, ports.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var (
		run        domain.Run
		status     string
		startedAt  int64
		endedAt    sql.NullInt64
		endMileage sql.NullFloat64
	)
	if err := row.Scan(
		&run.RunID, &run.CompanyID, &run.SectorID, &run.DriverID, &run.DriverName,
		&run.VehicleID, &startedAt, &run.StartMileage, &status, &endedAt, &endMileage,
	); err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(startedAt, 0).UTC()
	run.Status = domain.RunStatus(status)
	run.EndedAt = timeFromNull(endedAt)
	run.EndMileage = floatFromNull(endMileage)
	return &run, nil
}

func (s *SqliteRunRepository) loadStops(ctx context.Context, run *domain.Run) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT stop_id, name, status, arrived_at, departed_at,
		        collected_cargo, mileage_at_stop, occupancy_pct, observation
		 FROM stops WHERE run_id = ?
		 ORDER BY position;`, run.RunID)
	if err != nil {
		return fmt.Errorf("load stops: query: %w", err)
	}
	defer rows.Close()

	run.Stops = []domain.Stop{}
	for rows.Next() {
		var (
			stop       domain.Stop
			status     string
			arrivedAt  sql.NullInt64
			departedAt sql.NullInt64
			cargo      sql.NullInt64
			mileage    sql.NullFloat64
			occupancy  sql.NullInt64
		)
		if err := rows.Scan(
			&stop.StopID, &stop.Name, &status, &arrivedAt, &departedAt,
			&cargo, &mileage, &occupancy, &stop.Observation,
		); err != nil {
			return fmt.Errorf("load stops: scan: %w", err)
		}
		stop.Status = domain.StopStatus(status)
		stop.ArrivedAt = timeFromNull(arrivedAt)
		stop.DepartedAt = timeFromNull(departedAt)
		stop.CollectedCargo = intFromNull(cargo)
		stop.MileageAtStop = floatFromNull(mileage)
		stop.OccupancyPct = intFromNull(occupancy)
		run.Stops = append(run.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load stops: row iteration: %w", err)
	}

	return nil
}

func (s *SqliteRunRepository) loadLocations(ctx context.Context, run *domain.Run) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT recorded_at, latitude, longitude
		 FROM location_points WHERE run_id = ?
		 ORDER BY recorded_at;`, run.RunID)
	if err != nil {
		return fmt.Errorf("load locations: query: %w", err)
	}
	defer rows.Close()

	run.LocationHistory = []domain.LocationPoint{}
	for rows.Next() {
		var (
			p          domain.LocationPoint
			recordedAt int64
		)
		if err := rows.Scan(&recordedAt, &p.Latitude, &p.Longitude); err != nil {
			return fmt.Errorf("load locations: scan: %w", err)
		}
		p.RecordedAt = time.Unix(recordedAt, 0).UTC()
		run.LocationHistory = append(run.LocationHistory, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load locations: row iteration: %w", err)
	}

	return nil
}
