package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationInUse    = errors.New("location is referenced by events")
)

// LocationFilter — необязательные фильтры списка полей.
type LocationFilter struct {
	TourID *int64
	Query  string
}

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context, filter LocationFilter) ([]models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id int64) error
}

type postgresLocationRepository struct {
	db *sqlx.DB
}

func NewPostgresLocationRepository(db *sqlx.DB) LocationRepository {
	return &postgresLocationRepository{db: db}
}

func (r *postgresLocationRepository) Create(ctx context.Context, l *models.Location) error {
	query := `
		INSERT INTO locations (name, address, city, state, zip_code, phone, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, l.Name, l.Address, l.City, l.State, l.ZipCode, l.Phone, l.Website).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (r *postgresLocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	var l models.Location
	if err := r.db.GetContext(ctx, &l, `SELECT * FROM locations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *postgresLocationRepository) List(ctx context.Context, filter LocationFilter) ([]models.Location, error) {
	q := psql.Select("l.*").From("locations l").OrderBy("l.name")
	if filter.TourID != nil {
		q = q.Join("tour_locations tl ON tl.location_id = l.id").
			Where(sq.Eq{"tl.tour_id": *filter.TourID})
	}
	if filter.Query != "" {
		q = q.Where(sq.ILike{"l.name": "%" + filter.Query + "%"})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	locations := []models.Location{}
	if err := r.db.SelectContext(ctx, &locations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (r *postgresLocationRepository) Update(ctx context.Context, l *models.Location) error {
	query := `
		UPDATE locations
		SET name = $1, address = $2, city = $3, state = $4, zip_code = $5, phone = $6, website = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query, l.Name, l.Address, l.City, l.State, l.ZipCode, l.Phone, l.Website, l.ID).
		Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}

func (r *postgresLocationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrLocationInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrLocationNotFound)
}
