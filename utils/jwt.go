package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	config "github.com/hopeworks/nonprofit-platform-go/config"
)

// GenerateJWT creates a signed HS256 token for the given user ID and role.
func GenerateJWT(cfg *config.Config, userID string, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  time.Now().Unix(),
		"iss":  "nonprofit-platform",
		"exp":  time.Now().Add(time.Minute * time.Duration(cfg.JWTExpMin)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
