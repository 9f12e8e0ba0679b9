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

var ErrEventSideGamesNotFound = errors.New("event side games not configured")

type EventSideGamesRepository interface {
	Get(ctx context.Context, eventID int64) (*models.EventSideGames, error)
	ListByEvents(ctx context.Context, eventIDs []int64) (map[int64]models.SideGameSettings, error)
	Upsert(ctx context.Context, exec SQLExecutor, games *models.EventSideGames) error
}

type postgresEventSideGamesRepository struct {
	db *sqlx.DB
}

func NewPostgresEventSideGamesRepository(db *sqlx.DB) EventSideGamesRepository {
	return &postgresEventSideGamesRepository{db: db}
}

func (r *postgresEventSideGamesRepository) Get(ctx context.Context, eventID int64) (*models.EventSideGames, error) {
	var g models.EventSideGames
	err := r.db.GetContext(ctx, &g, `SELECT event_id, games, updated_at FROM event_side_games WHERE event_id = $1`, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventSideGamesNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresEventSideGamesRepository) ListByEvents(ctx context.Context, eventIDs []int64) (map[int64]models.SideGameSettings, error) {
	out := make(map[int64]models.SideGameSettings, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	query, args, err := psql.Select("event_id", "games", "updated_at").
		From("event_side_games").
		Where(sq.Eq{"event_id": eventIDs}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []models.EventSideGames
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list event side games: %w", err)
	}
	for _, row := range rows {
		out[row.EventID] = row.Games
	}
	return out, nil
}

func (r *postgresEventSideGamesRepository) Upsert(ctx context.Context, exec SQLExecutor, g *models.EventSideGames) error {
	query := `
		INSERT INTO event_side_games (event_id, games, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id) DO UPDATE SET games = EXCLUDED.games, updated_at = NOW()
		RETURNING updated_at`
	err := getExecutor(exec, r.db).QueryRowxContext(ctx, query, g.EventID, g.Games).Scan(&g.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to save side games for event %d: %w", g.EventID, err)
	}
	return nil
}
