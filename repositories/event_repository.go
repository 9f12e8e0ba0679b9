package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventReferenceInvalid = errors.New("event tour or location does not exist")
	ErrEventHasPurchases     = errors.New("event has purchases")
)

// EventFilter — фильтры списка событий. Нулевые значения не ограничивают выборку.
type EventFilter struct {
	TourID     *int64
	LocationID *int64
	Year       *int
	From       *time.Time
	To         *time.Time
	CreatedBy  *uuid.UUID
	IDs        []int64
}

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)
	Update(ctx context.Context, exec SQLExecutor, event *models.Event) error
	Delete(ctx context.Context, id int64) error
}

type postgresEventRepository struct {
	db *sqlx.DB
}

func NewPostgresEventRepository(db *sqlx.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		INSERT INTO events (tour_id, location_id, name, event_date, year, course_name, description, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := getExecutor(exec, r.db).QueryRowxContext(ctx, query,
		e.TourID, e.LocationID, e.Name, e.EventDate.Format(models.DateLayout), e.Year, e.CourseName, e.Description, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrEventReferenceInvalid
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var e models.Event
	if err := r.db.GetContext(ctx, &e, `SELECT * FROM events WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, f EventFilter) ([]models.Event, error) {
	q := psql.Select("*").From("events").OrderBy("event_date", "id")
	if f.TourID != nil {
		q = q.Where(sq.Eq{"tour_id": *f.TourID})
	}
	if f.LocationID != nil {
		q = q.Where(sq.Eq{"location_id": *f.LocationID})
	}
	if f.Year != nil {
		q = q.Where(sq.Eq{"year": *f.Year})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"event_date": f.From.Format(models.DateLayout)})
	}
	if f.To != nil {
		q = q.Where(sq.LtOrEq{"event_date": f.To.Format(models.DateLayout)})
	}
	if f.CreatedBy != nil {
		q = q.Where(sq.Eq{"user_id": *f.CreatedBy})
	}
	if f.IDs != nil {
		q = q.Where(sq.Eq{"id": f.IDs})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		UPDATE events
		SET tour_id = $1, location_id = $2, name = $3, event_date = $4, year = $5,
			course_name = $6, description = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`
	err := getExecutor(exec, r.db).QueryRowxContext(ctx, query,
		e.TourID, e.LocationID, e.Name, e.EventDate.Format(models.DateLayout), e.Year, e.CourseName, e.Description, e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		if isForeignKeyViolation(err) {
			return ErrEventReferenceInvalid
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// Delete удаляет событие; настройки побочных игр удаляются каскадом.
// Покупки держат внешний ключ, поэтому событие с покупками удалить нельзя.
func (r *postgresEventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrEventHasPurchases
		}
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
