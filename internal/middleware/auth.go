package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"payday/internal/config"
)

const (
	userIDKey      = "userID"
	householdIDKey = "householdID"

	accessTokenExpiry = 15 * time.Minute
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT. Tokens are issued by the
// identity service; HouseholdID is empty until the user joins a household.
type JWTClaims struct {
	UserID      string `json:"user_id"`
	HouseholdID string `json:"household_id,omitempty"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived access token with the shared secret.
func GenerateAccessToken(userID, householdID string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:      userID,
		HouseholdID: householdID,
		TokenType:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "payday-api",
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// AuthMiddleware verifies the JWT token and sets the user in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check if the header is in the correct format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Parse the token
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return getJWTKey(), nil
		})

		if err != nil || !token.Valid || claims.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Reject refresh tokens used as access tokens
		if claims.TokenType == "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		if claims.HouseholdID != "" {
			c.Set(householdIDKey, claims.HouseholdID)
		}
		c.Next()
	}
}

// HouseholdLookup returns the id of the household a user belongs to.
type HouseholdLookup func(userID string) (string, error)

// ResolveHousehold fills in the household of users whose token predates
// their joining one. Requests from users without a household continue
// without a household id.
func ResolveHousehold(lookup HouseholdLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(householdIDKey) == "" {
			if userID := c.GetString(userIDKey); userID != "" {
				if id, err := lookup(userID); err == nil && id != "" {
					c.Set(householdIDKey, id)
				}
			}
		}
		c.Next()
	}
}
