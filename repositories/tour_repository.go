package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var (
	ErrTourNotFound     = errors.New("tour not found")
	ErrTourNameConflict = errors.New("tour name conflict")
	ErrTourInUse        = errors.New("tour is referenced by events")
)

type TourRepository interface {
	Create(ctx context.Context, tour *models.Tour) error
	GetByID(ctx context.Context, id int64) (*models.Tour, error)
	List(ctx context.Context) ([]models.Tour, error)
	Update(ctx context.Context, tour *models.Tour) error
	Delete(ctx context.Context, id int64) error
}

type postgresTourRepository struct {
	db *sqlx.DB
}

func NewPostgresTourRepository(db *sqlx.DB) TourRepository {
	return &postgresTourRepository{db: db}
}

func (r *postgresTourRepository) Create(ctx context.Context, tour *models.Tour) error {
	query := `
		INSERT INTO tours (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, tour.Name, tour.Description).
		Scan(&tour.ID, &tour.CreatedAt, &tour.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTourNameConflict
		}
		return fmt.Errorf("failed to create tour: %w", err)
	}
	return nil
}

func (r *postgresTourRepository) GetByID(ctx context.Context, id int64) (*models.Tour, error) {
	var tour models.Tour
	if err := r.db.GetContext(ctx, &tour, `SELECT * FROM tours WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return &tour, nil
}

func (r *postgresTourRepository) List(ctx context.Context) ([]models.Tour, error) {
	tours := []models.Tour{}
	if err := r.db.SelectContext(ctx, &tours, `SELECT * FROM tours ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, nil
}

func (r *postgresTourRepository) Update(ctx context.Context, tour *models.Tour) error {
	query := `
		UPDATE tours SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query, tour.Name, tour.Description, tour.ID).Scan(&tour.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTourNotFound
		}
		if isUniqueViolation(err) {
			return ErrTourNameConflict
		}
		return fmt.Errorf("failed to update tour: %w", err)
	}
	return nil
}

func (r *postgresTourRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrTourInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTourNotFound)
}
