package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func signToken(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func GenerateAccessToken(userID uint) (string, error) {
	return signToken(userID, TokenTypeAccess, accessTokenTTL)
}

func GenerateRefreshToken(userID uint) (string, error) {
	return signToken(userID, TokenTypeRefresh, refreshTokenTTL)
}

// GenerateTokenPair issues the short-lived access token together with the
// longer-lived refresh token.
func GenerateTokenPair(userID uint) (access string, refresh string, err error) {
	if access, err = GenerateAccessToken(userID); err != nil {
		return "", "", err
	}
	if refresh, err = GenerateRefreshToken(userID); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ParseToken validates a token string and returns the user ID it was issued
// for. tokenType must match the token's token_type claim, so a refresh token
// can never be presented as an access token or vice versa.
func ParseToken(tokenString, tokenType string) (uint, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtSecret(), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return 0, ErrWrongTokenType
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
