package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/mailer"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/sessions"
	"github.com/sidegames-golf/sidegames/utils"
)

// LogoutWarning возвращается клиенту, если токен не удалось отозвать на сервере.
const LogoutWarning = "Signed out locally. The session could not be revoked on the server, please clear saved data on this device."

const confirmationTokenBytes = 32

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, claims TokenClaims) (warning string, err error)
	Session(ctx context.Context, userID uuid.UUID) (*models.SessionUser, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, input UpdatePasswordInput) error
	ConfirmEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type SignUpInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AuthResult — токен сессии и текущий пользователь.
type AuthResult struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      *models.SessionUser `json:"user"`
}

type authService struct {
	tx          repositories.Transactor
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	tokens      TokenIssuer
	revocations sessions.RevocationStore
	mail        mailer.Mailer
	resetTTL    time.Duration
	log         *slog.Logger
	now         func() time.Time
}

func NewAuthService(
	tx repositories.Transactor,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	tokens TokenIssuer,
	revocations sessions.RevocationStore,
	mail mailer.Mailer,
	resetTTL time.Duration,
	log *slog.Logger,
) AuthService {
	return &authService{
		tx:          tx,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		revocations: revocations,
		mail:        mail,
		resetTTL:    resetTTL,
		log:         log.With(slog.String("service", "auth")),
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(v *utils.Validator, field, password string) {
	v.Check(utils.IsValidPassword(password), field,
		"must be at least 8 characters and contain an uppercase letter, a lowercase letter and a number")
}

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	displayName := strings.TrimSpace(input.DisplayName)

	v := utils.NewValidator()
	v.Check(utils.IsValidEmail(email), "email", "must be a valid email address")
	validatePassword(v, "password", input.Password)
	v.Check(utils.IsValidDisplayName(displayName), "display_name", "must be between 2 and 50 characters")
	if !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	confirmationToken := utils.RandomToken(confirmationTokenBytes)
	user := &models.User{
		Email:             email,
		PasswordHash:      hash,
		ConfirmationToken: &confirmationToken,
	}

	var profile *models.Profile
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.userRepo.Create(ctx, exec, user); err != nil {
			return err
		}
		profile = &models.Profile{
			ID:          user.ID,
			Email:       email,
			DisplayName: displayName,
		}
		return s.profileRepo.Create(ctx, exec, profile)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	if err := s.mail.SendVerificationEmail(ctx, email, confirmationToken); err != nil {
		s.log.Warn("failed to send verification email", slog.String("user_id", user.ID.String()), logger.Err(err))
	}

	return s.issue(user, profile)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.TouchLastSignIn(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to update last sign in", slog.String("user_id", user.ID.String()), logger.Err(err))
	} else {
		user.LastSignInAt = &now
	}

	profile, err := s.profileRepo.GetByID(ctx, user.ID)
	if err != nil && !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return s.issue(user, profile)
}

func (s *authService) issue(user *models.User, profile *models.Profile) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		User:      models.NewSessionUser(user, profile),
	}, nil
}

// Logout отзывает токен до конца его срока. Недоступное хранилище не мешает выходу:
// клиент получает предупреждение и сам очищает локальное состояние.
func (s *authService) Logout(ctx context.Context, claims TokenClaims) (string, error) {
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		s.log.Warn("token revocation failed, falling back to client-side logout",
			slog.String("user_id", claims.UserID.String()), logger.Err(err))
		return LogoutWarning, nil
	}
	return "", nil
}

func (s *authService) Session(ctx context.Context, userID uuid.UUID) (*models.SessionUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return models.NewSessionUser(user, profile), nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID uuid.UUID, input UpdatePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	v := utils.NewValidator()
	validatePassword(v, "new_password", input.NewPassword)
	if !v.Valid() {
		return newValidationError(v.Errors)
	}
	return s.setPassword(ctx, userID, input.NewPassword)
}

func (s *authService) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) ConfirmEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	user, err := s.userRepo.GetByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to find user by confirmation token: %w", err)
	}
	if user.EmailConfirmedAt != nil {
		return ErrEmailAlreadyConfirmed
	}
	if err := s.userRepo.ConfirmEmail(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

// RequestPasswordReset не сообщает, зарегистрирован ли email.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return newValidationError(map[string]string{"email": "must be a valid email address"})
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user by email: %w", err)
	}

	token := utils.RandomToken(confirmationTokenBytes)
	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, token, s.now().Add(s.resetTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.mail.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
		s.log.Error("failed to send password reset email", slog.String("user_id", user.ID.String()), logger.Err(err))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if input.Token == "" {
		return ErrInvalidToken
	}
	user, err := s.userRepo.GetByPasswordResetToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to find user by reset token: %w", err)
	}
	if user.PasswordResetExpiresAt == nil || !s.now().Before(*user.PasswordResetExpiresAt) {
		return ErrResetTokenExpired
	}

	v := utils.NewValidator()
	validatePassword(v, "new_password", input.NewPassword)
	if !v.Valid() {
		return newValidationError(v.Errors)
	}
	return s.setPassword(ctx, user.ID, input.NewPassword)
}
