package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/models"
)

var ErrSideGameNotFound = errors.New("side game not found")

type SideGameRepository interface {
	List(ctx context.Context) ([]models.SideGame, error)
	GetByKey(ctx context.Context, key string) (*models.SideGame, error)
	Upsert(ctx context.Context, game *models.SideGame) error
}

type postgresSideGameRepository struct {
	db *sqlx.DB
}

func NewPostgresSideGameRepository(db *sqlx.DB) SideGameRepository {
	return &postgresSideGameRepository{db: db}
}

// List возвращает каталог в порядке ключей (01_, 02_, ...).
func (r *postgresSideGameRepository) List(ctx context.Context) ([]models.SideGame, error) {
	games := []models.SideGame{}
	if err := r.db.SelectContext(ctx, &games, `SELECT * FROM side_games ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to list side games: %w", err)
	}
	return games, nil
}

func (r *postgresSideGameRepository) GetByKey(ctx context.Context, key string) (*models.SideGame, error) {
	var g models.SideGame
	if err := r.db.GetContext(ctx, &g, `SELECT * FROM side_games WHERE key = $1`, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSideGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresSideGameRepository) Upsert(ctx context.Context, g *models.SideGame) error {
	query := `
		INSERT INTO side_games (key, name, value, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET name = EXCLUDED.name, value = EXCLUDED.value, description = EXCLUDED.description
		RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, g.Key, g.Name, g.Value, g.Description).Scan(&g.ID, &g.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert side game %s: %w", g.Key, err)
	}
	return nil
}
