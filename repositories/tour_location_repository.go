package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var (
	ErrTourLocationNotFound = errors.New("location is not linked to the tour")
	ErrTourLocationConflict = errors.New("location is already linked to the tour")
	ErrTourLocationInvalid  = errors.New("tour or location does not exist")
)

type TourLocationRepository interface {
	Link(ctx context.Context, tourID, locationID int64) (*models.TourLocation, error)
	Unlink(ctx context.Context, tourID, locationID int64) error
	ListByTour(ctx context.Context, tourID int64) ([]models.TourLocation, error)
}

type postgresTourLocationRepository struct {
	db *sqlx.DB
}

func NewPostgresTourLocationRepository(db *sqlx.DB) TourLocationRepository {
	return &postgresTourLocationRepository{db: db}
}

func (r *postgresTourLocationRepository) Link(ctx context.Context, tourID, locationID int64) (*models.TourLocation, error) {
	tl := &models.TourLocation{TourID: tourID, LocationID: locationID}
	query := `
		INSERT INTO tour_locations (tour_id, location_id)
		VALUES ($1, $2)
		RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, tourID, locationID).Scan(&tl.ID, &tl.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrTourLocationConflict
		case isForeignKeyViolation(err):
			return nil, ErrTourLocationInvalid
		}
		return nil, fmt.Errorf("failed to link location %d to tour %d: %w", locationID, tourID, err)
	}
	return tl, nil
}

func (r *postgresTourLocationRepository) Unlink(ctx context.Context, tourID, locationID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tour_locations WHERE tour_id = $1 AND location_id = $2`, tourID, locationID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTourLocationNotFound)
}

func (r *postgresTourLocationRepository) ListByTour(ctx context.Context, tourID int64) ([]models.TourLocation, error) {
	links := []models.TourLocation{}
	err := r.db.SelectContext(ctx, &links,
		`SELECT * FROM tour_locations WHERE tour_id = $1 ORDER BY id`, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tour locations: %w", err)
	}
	return links, nil
}
