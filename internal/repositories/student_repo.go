package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taogeht/reading-practice-app-sub002/internal/database"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// StudentRepository is the credential store for visual passwords along with
// the roster queries the login screen needs.
type StudentRepository struct {
	db *database.DB
}

func NewStudentRepository(db *database.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, class_id, display_name, visual_password_type, visual_key, visual_color, visual_shape, created_at, updated_at`

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStudentRow(scanner rowScanner) (*models.Student, error) {
	var s models.Student
	err := scanner.Scan(
		&s.ID, &s.ClassID, &s.DisplayName,
		&s.PasswordType, &s.VisualKey, &s.VisualColor, &s.VisualShape,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

func scanStudentRows(rows pgx.Rows) ([]*models.Student, error) {
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return students, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudentRow(r.db.Pool.QueryRow(ctx, query, id))
}

// ListByClass returns the roster for one class, ordered by display name so
// the login screen layout is stable.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE class_id = $1 ORDER BY display_name, id`

	rows, err := r.db.Pool.Query(ctx, query, classID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return scanStudentRows(rows)
}

func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (*models.Student, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO students (id, class_id, display_name, visual_password_type, visual_key, visual_color, visual_shape)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + studentColumns

	return scanStudentRow(r.db.Pool.QueryRow(ctx, query,
		s.ID, s.ClassID, s.DisplayName,
		s.PasswordType, s.VisualKey, s.VisualColor, s.VisualShape,
	))
}

// UpdateVisualPassword replaces a student's configured credential.
func (r *StudentRepository) UpdateVisualPassword(ctx context.Context, id string, spec models.VisualPasswordSpec) (*models.Student, error) {
	var key, color, shape *string
	switch spec.Type {
	case models.VisualPasswordAnimal, models.VisualPasswordObject:
		key = &spec.Key
	case models.VisualPasswordColorShape:
		color = &spec.Color
		shape = &spec.Shape
	}

	query := `
		UPDATE students
		SET visual_password_type = $2, visual_key = $3, visual_color = $4, visual_shape = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + studentColumns

	return scanStudentRow(r.db.Pool.QueryRow(ctx, query, id, spec.Type, key, color, shape))
}
