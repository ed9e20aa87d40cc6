// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingUserId = errors.New("token missing user_id")

// ErrSecretNotConfigured rejects every token while no signing secret is set.
var ErrSecretNotConfigured = errors.New("jwt secret not configured")

// ParseUserToken validates an HS256 token and returns its "user_id" claim.
// An empty secret falls back to the JWT_SECRET environment variable; when
// that is empty too every token is rejected.
func ParseUserToken(secret, tokenStr string) (string, error) {
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return "", ErrSecretNotConfigured
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}

	userId, ok := claims["user_id"].(string)
	if !ok || userId == "" {
		return "", errMissingUserId
	}
	return userId, nil
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}

// NewJwtMiddleware stores the token's "user_id" claim as a string under the
// "user_id" local.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		userId, err := ParseUserToken(secret, tokenStr)
		if errors.Is(err, errMissingUserId) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing user_id claim"))
		}
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals("user_id", userId)
		return ctx.Next()
	}
}

// JwtMiddleware reads the secret from the environment on every request.
var JwtMiddleware = NewJwtMiddleware("")

// SignToken issues an HS256 token for userId. Used by the CLI and tests.
func SignToken(secret, userId string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userId})
	return token.SignedString([]byte(secret))
}
