package middleware

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

func secretKey() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("❌ JWT_SECRET is not set, service cannot issue or verify tokens")
	}
	return []byte(secret)
}

// GenerateToken signs a session JWT for the given account.
func GenerateToken(userID, username string, isAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	})
	return token.SignedString(secretKey())
}

// TokenClaims is the validated identity carried by a session token.
type TokenClaims struct {
	UserID   string
	Username string
	IsAdmin  bool
}

// ParseToken validates a session JWT and extracts its identity claims.
func ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("token missing user_id claim")
	}
	username, _ := claims["username"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &TokenClaims{UserID: userID, Username: username, IsAdmin: isAdmin}, nil
}

// UserContextMiddleware validates the Bearer token and attaches the user's
// identity to the request context for handlers.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [USER_CTX] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization token missing",
			})
		}

		// Parse "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			// no "Bearer " prefix, try raw value
			tokenString = authHeader
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			log.Printf("❌ [USER_CTX] Invalid token for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("is_admin", claims.IsAdmin)

		return c.Next()
	}
}

// AdminOnlyMiddleware gates admin endpoints. Must run after
// UserContextMiddleware.
func AdminOnlyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals("is_admin").(bool)
		if !isAdmin {
			log.Printf("🚫 [ADMIN] Non-admin user %v on %s", c.Locals("user_id"), c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}

// SSEAuthMiddleware validates `token` from query params, since EventSource
// cannot set an Authorization header.
//
// Usage:
//
//	app.Get("/user/rewards/stream", middleware.SSEAuthMiddleware(), rewardService.StreamUserRewardsSSE)
func SSEAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := strings.TrimSpace(c.Query("token"))
		if tokenString == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing token in query",
			})
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("is_admin", claims.IsAdmin)

		return c.Next()
	}
}
