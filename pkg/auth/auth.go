package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultSecret is the development signing key used when JWT_SECRET is unset.
const DefaultSecret = "your_jwt_secret"

type Config struct {
	Secret string        `yaml:"secret" envconfig:"JWT_SECRET" default:"your_jwt_secret"`
	TTL    time.Duration `yaml:"ttl" envconfig:"JWT_TTL" default:"1h"`
}

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrNoUser       = errors.New("user id is empty")
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 tokens.
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewManager(cfg Config) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		key: []byte(cfg.Secret),
		ttl: ttl,
		now: time.Now,
	}
}

func (m *Manager) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, ErrNoUser
	}
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return token, expiresAt, nil
}

func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type ctxKey int

const userIDKey ctxKey = iota + 1

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", ErrNoUser
	}
	return userID, nil
}
