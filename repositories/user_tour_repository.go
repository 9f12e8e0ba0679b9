package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var (
	ErrUserTourNotFound = errors.New("user is not a member of the tour")
	ErrUserTourConflict = errors.New("user already joined the tour")
)

type UserTourRepository interface {
	Join(ctx context.Context, userID uuid.UUID, tourID int64) (*models.UserTour, error)
	Leave(ctx context.Context, userID uuid.UUID, tourID int64) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserTour, error)
}

type postgresUserTourRepository struct {
	db *sqlx.DB
}

func NewPostgresUserTourRepository(db *sqlx.DB) UserTourRepository {
	return &postgresUserTourRepository{db: db}
}

func (r *postgresUserTourRepository) Join(ctx context.Context, userID uuid.UUID, tourID int64) (*models.UserTour, error) {
	ut := &models.UserTour{UserID: userID, TourID: tourID}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO user_tours (user_id, tour_id) VALUES ($1, $2) RETURNING joined_at`,
		userID, tourID,
	).Scan(&ut.JoinedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrUserTourConflict
		case isForeignKeyViolation(err):
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("failed to join tour: %w", err)
	}
	return ut, nil
}

func (r *postgresUserTourRepository) Leave(ctx context.Context, userID uuid.UUID, tourID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_tours WHERE user_id = $1 AND tour_id = $2`, userID, tourID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserTourNotFound)
}

// userTourRow — строка user_tours вместе с полями тура.
type userTourRow struct {
	UserID          uuid.UUID `db:"user_id"`
	TourID          int64     `db:"tour_id"`
	JoinedAt        time.Time `db:"joined_at"`
	TourName        string    `db:"tour_name"`
	TourDescription *string   `db:"tour_description"`
	TourCreatedAt   time.Time `db:"tour_created_at"`
	TourUpdatedAt   time.Time `db:"tour_updated_at"`
}

func (r *postgresUserTourRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserTour, error) {
	query := `
		SELECT ut.user_id, ut.tour_id, ut.joined_at,
			t.name AS tour_name, t.description AS tour_description,
			t.created_at AS tour_created_at, t.updated_at AS tour_updated_at
		FROM user_tours ut
		JOIN tours t ON t.id = ut.tour_id
		WHERE ut.user_id = $1
		ORDER BY t.name`
	var rows []userTourRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user tours: %w", err)
	}
	out := make([]models.UserTour, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.UserTour{
			UserID:   row.UserID,
			TourID:   row.TourID,
			JoinedAt: row.JoinedAt,
			Tour: &models.Tour{
				ID:          row.TourID,
				Name:        row.TourName,
				Description: row.TourDescription,
				CreatedAt:   row.TourCreatedAt,
				UpdatedAt:   row.TourUpdatedAt,
			},
		})
	}
	return out, nil
}
