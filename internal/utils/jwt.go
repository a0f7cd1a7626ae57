package utils

import (
	"errors"
	"strconv"
	"time"

	"greekpay/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "greekpay-api"

// GenerateToken signs an HS256 access token for a member. Production tokens
// come from the identity provider; this is used for local setup and tests.
func GenerateToken(member *models.Member, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}

	now := time.Now()
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(member.ID), 10),
		},
		MemberID:  member.ID,
		ChapterID: member.ChapterID,
		Email:     member.Email,
		Role:      member.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken parses and validates a JWT token string.
func ParseToken(tokenStr, secret string) (*models.UserClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.MemberID == 0 {
		return nil, errors.New("token has no member")
	}
	return claims, nil
}
