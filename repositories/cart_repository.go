package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var ErrCartNotFound = errors.New("cart not found")

type CartRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, userID uuid.UUID) (*models.Cart, error)
	Upsert(ctx context.Context, exec SQLExecutor, cart *models.Cart) error
	Clear(ctx context.Context, exec SQLExecutor, userID uuid.UUID) error
}

type postgresCartRepository struct {
	db *sqlx.DB
}

func NewPostgresCartRepository(db *sqlx.DB) CartRepository {
	return &postgresCartRepository{db: db}
}

func (r *postgresCartRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var c models.Cart
	if err := r.db.GetContext(ctx, &c, `SELECT id, cart_items, updated_at FROM cart WHERE id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetForUpdate блокирует строку корзины до конца транзакции exec. Если строки нет,
// сначала вставляется пустая: иначе блокировать нечего и две первые записи в корзину
// перетрут друг друга.
func (r *postgresCartRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, userID uuid.UUID) (*models.Cart, error) {
	e := getExecutor(exec, r.db)
	if _, err := e.ExecContext(ctx,
		`INSERT INTO cart (id, cart_items, updated_at) VALUES ($1, '[]'::jsonb, NOW()) ON CONFLICT (id) DO NOTHING`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("failed to ensure cart row: %w", err)
	}

	var c models.Cart
	if err := e.GetContext(ctx, &c, `SELECT id, cart_items, updated_at FROM cart WHERE id = $1 FOR UPDATE`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	if c.Items == nil {
		c.Items = models.CartItems{}
	}
	return &c, nil
}

func (r *postgresCartRepository) Upsert(ctx context.Context, exec SQLExecutor, c *models.Cart) error {
	query := `
		INSERT INTO cart (id, cart_items, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET cart_items = EXCLUDED.cart_items, updated_at = NOW()
		RETURNING updated_at`
	if err := getExecutor(exec, r.db).QueryRowxContext(ctx, query, c.ID, c.Items).Scan(&c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear удаляет строку корзины. ErrCartNotFound, если удалять было нечего.
func (r *postgresCartRepository) Clear(ctx context.Context, exec SQLExecutor, userID uuid.UUID) error {
	result, err := getExecutor(exec, r.db).ExecContext(ctx, `DELETE FROM cart WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return checkAffectedRows(result, ErrCartNotFound)
}
