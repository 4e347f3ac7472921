package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flagdeck/internal/dto/req"
	"flagdeck/internal/dto/resp"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionPrefix = "flagdeck:auth:session:"
	tokenIssuer        = "flagdeck-auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrSessionExpired     = errors.New("session expired")
)

type UserClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"sub"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and rotates JWT token pairs, keeping the refresh
// token allow-list in redis.
type AuthService struct {
	redis           *redis.Client
	signingKey      []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	adminUser       string
	adminPassword   string
}

func NewAuthService(rdb *redis.Client, signingKey string, accessTokenTTL, refreshTokenTTL time.Duration, adminUser, adminPassword string) *AuthService {
	return &AuthService{
		redis:           rdb,
		signingKey:      []byte(signingKey),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		adminUser:       adminUser,
		adminPassword:   adminPassword,
	}
}

// SigningKey exposes the key for the JWT middleware.
func (s *AuthService) SigningKey() []byte {
	return s.signingKey
}

// Login authenticates against the configured admin credentials and returns
// a token pair.
func (s *AuthService) Login(ctx context.Context, r req.LoginRequest) (*resp.TokenResponse, error) {
	if r.Username != s.adminUser || r.Password != s.adminPassword {
		return nil, ErrInvalidCredentials
	}

	userID := "1"
	role := "admin"

	tokens, err := s.generateTokens(ctx, userID, r.Username, role)
	if err != nil {
		return nil, err
	}
	tokens.User = resp.UserInfo{
		ID:       userID,
		Username: r.Username,
		Role:     role,
	}
	return tokens, nil
}

// Refresh rotates the token pair when the presented refresh token matches
// the allow-listed one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*resp.TokenResponse, error) {
	token, err := jwt.ParseWithClaims(refreshToken, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	key := fmt.Sprintf("%s%s", redisSessionPrefix, claims.UserID)
	stored, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	if stored != refreshToken {
		return nil, ErrTokenInvalid
	}

	return s.generateTokens(ctx, claims.UserID, claims.Username, claims.Role)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	key := fmt.Sprintf("%s%s", redisSessionPrefix, userID)
	return s.redis.Del(ctx, key).Err()
}

func (s *AuthService) generateTokens(ctx context.Context, userID, username, role string) (*resp.TokenResponse, error) {
	now := time.Now()
	atClaims := UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, atClaims).SignedString(s.signingKey)
	if err != nil {
		return nil, err
	}

	rtClaims := UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			ID:        uuid.New().String(),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, rtClaims).SignedString(s.signingKey)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%s", redisSessionPrefix, userID)
	if err := s.redis.Set(ctx, key, refreshToken, s.refreshTokenTTL).Err(); err != nil {
		return nil, err
	}

	return &resp.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}
