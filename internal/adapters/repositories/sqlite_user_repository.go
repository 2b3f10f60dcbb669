package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/ports"
)

// SQLite-backed user store.
type SqliteUserRepository struct {
	DB *sql.DB
}

func NewSqliteUserRepository(db *sql.DB) *SqliteUserRepository {
	return &SqliteUserRepository{DB: db}
}

func (s *SqliteUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("create user: user is nil")
	}

	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO users (user_id, company_id, sector_id, name, email, role, shift, password_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		user.UserID, user.CompanyID, user.SectorID, user.Name, user.Email,
		string(user.Role), user.Shift, user.PasswordHash,
	); err != nil {
		return fmt.Errorf("create user %q: %w", user.Email, err)
	}

	return nil
}

func (s *SqliteUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT user_id, company_id, sector_id, name, email, role, shift, password_hash
		 FROM users WHERE email = ?;`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get user by email: %w", ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

func (s *SqliteUserRepository) ListUsers(ctx context.Context, companyID, sectorID string) ([]*domain.User, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT user_id, company_id, sector_id, name, email, role, shift, password_hash
		 FROM users
		 WHERE company_id = ? AND sector_id = ?
		 ORDER BY name;`, companyID, sectorID)
	if err != nil {
		return nil, fmt.Errorf("list users: query: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: row iteration: %w", err)
	}

	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(
		&user.UserID, &user.CompanyID, &user.SectorID, &user.Name,
		&user.Email, &role, &user.Shift, &user.PasswordHash,
	); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}
