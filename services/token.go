package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Имена JWT claims.
const (
	jwtClaimUserID = "user_id"
	jwtClaimID     = "jti"
	jwtClaimExp    = "exp"
	jwtClaimIat    = "iat"
)

// TokenClaims — то, что сервер достаёт из токена сессии.
type TokenClaims struct {
	UserID    uuid.UUID
	ID        string
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, TokenClaims, error)
	Parse(token string) (*TokenClaims, error)
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) TokenIssuer {
	return &jwtIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *jwtIssuer) Issue(userID uuid.UUID) (string, TokenClaims, error) {
	now := j.now()
	tc := TokenClaims{
		UserID:    userID,
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(j.ttl).Truncate(time.Second),
	}
	claims := jwt.MapClaims{
		jwtClaimUserID: userID.String(),
		jwtClaimID:     tc.ID,
		jwtClaimExp:    tc.ExpiresAt.Unix(),
		jwtClaimIat:    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", TokenClaims{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, tc, nil
}

func (j *jwtIssuer) Parse(tokenString string) (*TokenClaims, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawID, _ := claims[jwtClaimUserID].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: missing or malformed '%s' claim", ErrInvalidToken, jwtClaimUserID)
	}
	jti, _ := claims[jwtClaimID].(string)
	if jti == "" {
		return nil, fmt.Errorf("%w: missing '%s' claim", ErrInvalidToken, jwtClaimID)
	}
	exp, ok := claims[jwtClaimExp].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing '%s' claim", ErrInvalidToken, jwtClaimExp)
	}

	return &TokenClaims{UserID: userID, ID: jti, ExpiresAt: time.Unix(int64(exp), 0)}, nil
}
