package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var (
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrPurchaseEventInvalid = errors.New("purchase event does not exist")
)

// PurchaseFilter — выборка покупок пользователя, опционально по набору событий.
type PurchaseFilter struct {
	UserID   uuid.UUID
	EventIDs []int64
}

type PurchaseRepository interface {
	Create(ctx context.Context, exec SQLExecutor, purchase *models.Purchase) error
	GetByID(ctx context.Context, id int64) (*models.Purchase, error)
	List(ctx context.Context, exec SQLExecutor, filter PurchaseFilter) ([]models.Purchase, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}

type postgresPurchaseRepository struct {
	db *sqlx.DB
}

func NewPostgresPurchaseRepository(db *sqlx.DB) PurchaseRepository {
	return &postgresPurchaseRepository{db: db}
}

func (r *postgresPurchaseRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Purchase) error {
	query := `
		INSERT INTO purchases (user_id, event_id, side_games_data, total_cost, status, payment_method, payment_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, purchase_date`
	err := getExecutor(exec, r.db).QueryRowxContext(ctx, query,
		p.UserID, p.EventID, p.SideGamesData, p.TotalCost, p.Status, p.PaymentMethod, p.PaymentReference,
	).Scan(&p.ID, &p.PurchaseDate)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPurchaseEventInvalid
		}
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

func (r *postgresPurchaseRepository) GetByID(ctx context.Context, id int64) (*models.Purchase, error) {
	var p models.Purchase
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM purchases WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List возвращает покупки от новых к старым. exec может быть nil.
func (r *postgresPurchaseRepository) List(ctx context.Context, exec SQLExecutor, f PurchaseFilter) ([]models.Purchase, error) {
	q := psql.Select("*").From("purchases").
		Where(sq.Eq{"user_id": f.UserID}).
		OrderBy("purchase_date DESC", "id DESC")
	if f.EventIDs != nil {
		q = q.Where(sq.Eq{"event_id": f.EventIDs})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	purchases := []models.Purchase{}
	if err := getExecutor(exec, r.db).SelectContext(ctx, &purchases, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

func (r *postgresPurchaseRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM purchases WHERE event_id = $1`, eventID); err != nil {
		return 0, fmt.Errorf("failed to count purchases for event %d: %w", eventID, err)
	}
	return n, nil
}
