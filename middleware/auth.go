package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/services"
	"github.com/sidegames-golf/sidegames/sessions"
)

// Authenticator проверяет токен сессии: подпись и срок через TokenIssuer,
// отзыв через RevocationStore.
type Authenticator struct {
	tokens      services.TokenIssuer
	revocations sessions.RevocationStore
	log         *slog.Logger
}

func NewAuthenticator(tokens services.TokenIssuer, revocations sessions.RevocationStore, log *slog.Logger) *Authenticator {
	return &Authenticator{
		tokens:      tokens,
		revocations: revocations,
		log:         log.With(slog.String("component", "auth")),
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// verify разбирает токен и проверяет, что он не отозван. Если хранилище отзывов
// недоступно, токен принимается: его подпись и срок уже проверены.
func (a *Authenticator) verify(ctx context.Context, token string) (*services.TokenClaims, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.log.Warn("revocation check failed", slog.String("user_id", claims.UserID.String()), logger.Err(err))
		return claims, nil
	}
	if revoked {
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}

// Authenticate требует заголовок Authorization: Bearer <token>.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "authentication required")
			return
		}
		claims, err := a.verify(r.Context(), token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth кладёт claims в контекст, если токен есть и валиден, иначе пропускает запрос как анонимный.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if claims, err := a.verify(r.Context(), token); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// AuthenticateQuery — для websocket: браузер не может передать заголовок, токен приходит в ?token=.
func (a *Authenticator) AuthenticateQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = bearerToken(r)
		}
		if token == "" {
			unauthorized(w, "authentication required")
			return
		}
		claims, err := a.verify(r.Context(), token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, message)
}
