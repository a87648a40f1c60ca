package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/taogeht/reading-practice-app-sub002/internal/database"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// StaffRepository stores teacher and admin accounts.
type StaffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `id, email, password_hash, display_name, role, created_at, updated_at`

func scanStaffRow(scanner rowScanner) (*models.Staff, error) {
	var s models.Staff
	err := scanner.Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.DisplayName, &s.Role,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`
	return scanStaffRow(r.db.Pool.QueryRow(ctx, query, email))
}

func (r *StaffRepository) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return scanStaffRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *StaffRepository) Create(ctx context.Context, s *models.Staff) (*models.Staff, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO staff (id, email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + staffColumns

	return scanStaffRow(r.db.Pool.QueryRow(ctx, query,
		s.ID, s.Email, s.PasswordHash, s.DisplayName, s.Role,
	))
}
