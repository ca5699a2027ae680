package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prudhvinik1/presence/internal/models"
	"github.com/prudhvinik1/presence/internal/repositories"
)

// TokenVerifier resolves a bearer credential to the caller's identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// JWTVerifier validates HS256 tokens whose sub claim is the user id and
// whose jti claim names a session. When a session repository is set, the
// session must still exist, so signed-out tokens stop verifying.
type JWTVerifier struct {
	sessions  repositories.SessionRepository
	jwtSecret []byte
	jwtExpiry time.Duration
}

func NewJWTVerifier(jwtSecret string, jwtExpiry time.Duration, sessions repositories.SessionRepository) *JWTVerifier {
	return &JWTVerifier{
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
	}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (models.Identity, error) {
	if tokenString == "" {
		return models.Identity{}, ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.jwtSecret, nil
	}, jwt.WithExpirationRequired(), jwt.WithLeeway(5*time.Second))
	if err != nil || !token.Valid {
		return models.Identity{}, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrUnauthenticated
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return models.Identity{}, ErrUnauthenticated
	}
	sessionID, _ := claims["jti"].(string)

	identity := models.Identity{UserID: userID, SessionID: sessionID}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}

	if v.sessions == nil {
		return identity, nil
	}
	if sessionID == "" {
		return models.Identity{}, ErrUnauthenticated
	}

	session, err := v.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Identity{}, ErrUnauthenticated
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID {
		return models.Identity{}, ErrUnauthenticated
	}

	return identity, nil
}

// IssueToken opens a session for userID and signs a token for it.
func (v *JWTVerifier) IssueToken(ctx context.Context, userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("user id is required")
	}

	now := time.Now()
	expiresAt := now.Add(v.jwtExpiry)
	sessionID := uuid.New().String()

	if v.sessions != nil {
		session := &models.Session{
			ID:        sessionID,
			UserID:    userID,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
		if err := v.sessions.Create(ctx, session); err != nil {
			return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
		}
	}

	claims := jwt.MapClaims{
		"sub": userID,
		"jti": sessionID,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// RevokeAll ends every session of userID and returns how many were live.
// Tokens bound to those sessions stop verifying immediately.
func (v *JWTVerifier) RevokeAll(ctx context.Context, userID string) (int, error) {
	if v.sessions == nil {
		return 0, errors.New("no session store configured")
	}

	sessions, err := v.sessions.ListByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	if err := v.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return len(sessions), nil
}

// NoopVerifier treats the bearer token itself as the user id. Local development only.
type NoopVerifier struct{}

func (NoopVerifier) Verify(_ context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, ErrUnauthenticated
	}
	return models.Identity{UserID: token}, nil
}
