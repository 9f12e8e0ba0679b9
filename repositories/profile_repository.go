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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, exec SQLExecutor, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateNotifications(ctx context.Context, id uuid.UUID, prefs models.NotificationPreferences) error
	SetImage(ctx context.Context, id uuid.UUID, imageURL, imageKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error
}

type postgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, display_name, make_private, enable_notifications, allow_sms, allow_email,
			show_email, show_first_name, show_last_name, show_phone)
		VALUES (:id, :email, :display_name, :make_private, :enable_notifications, :allow_sms, :allow_email,
			:show_email, :show_first_name, :show_last_name, :show_phone)
		RETURNING created_at, updated_at`

	query, args, err := sqlx.Named(query, p)
	if err != nil {
		return fmt.Errorf("failed to bind profile insert: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	if err := getExecutor(exec, r.db).QueryRowxContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update записывает все редактируемые поля профиля.
func (r *postgresProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles SET
			display_name = :display_name, about = :about, first_name = :first_name, last_name = :last_name,
			address = :address, apartment = :apartment, country = :country, region = :region,
			postal_code = :postal_code, phone = :phone, tour_league = :tour_league, location = :location,
			show_email = :show_email, show_first_name = :show_first_name, show_last_name = :show_last_name,
			show_phone = :show_phone, updated_at = NOW()
		WHERE id = :id
		RETURNING updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrProfileNotFound
	}
	return rows.Scan(&p.UpdatedAt)
}

func (r *postgresProfileRepository) UpdateNotifications(ctx context.Context, id uuid.UUID, prefs models.NotificationPreferences) error {
	query := `
		UPDATE profiles
		SET make_private = $1, enable_notifications = $2, allow_sms = $3, allow_email = $4, updated_at = NOW()
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, prefs.MakePrivate, prefs.EnableNotifications, prefs.AllowSMS, prefs.AllowEmail, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) SetImage(ctx context.Context, id uuid.UUID, imageURL, imageKey *string) error {
	query := `UPDATE profiles SET image_url = $1, image_key = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, imageURL, imageKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error {
	result, err := getExecutor(exec, r.db).ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}
