package middleware

import (
	"net/http"
	"strings"

	"gorent/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthRequired validates the JWT token and sets the actor on the request
// context. The role is normalized here, so downstream code never sees
// private_host.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		// Parse and validate token
		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Convert user ID to ObjectID
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			c.Abort()
			return
		}

		role := models.Role(claims.Role).Normalize()
		if !role.IsValid() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid role in token"})
			c.Abort()
			return
		}

		// Set user context
		c.Set("user_id", userID)
		c.Set("user_role", role)

		c.Next()
	}
}

// RoleRequired ensures the authenticated actor carries at least the given
// authority.
func RoleRequired(minimum models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
			c.Abort()
			return
		}

		userRole, ok := role.(models.Role)
		if !ok || !userRole.AtLeast(minimum) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminRequired ensures the actor is admin-tier.
func AdminRequired() gin.HandlerFunc {
	return RoleRequired(models.RoleAdmin)
}

// PrimeAdminRequired ensures the actor may override terminal cases.
func PrimeAdminRequired() gin.HandlerFunc {
	return RoleRequired(models.RolePrimeAdmin)
}

// CurrentActor rebuilds the actor from the request context. Returns false if
// auth middleware did not run.
func CurrentActor(c *gin.Context) (*models.Actor, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil, false
	}
	role, exists := c.Get("user_role")
	if !exists {
		return nil, false
	}

	id, ok := userID.(primitive.ObjectID)
	if !ok {
		return nil, false
	}
	userRole, ok := role.(models.Role)
	if !ok {
		return nil, false
	}

	return &models.Actor{
		ID:        id,
		Role:      userRole,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}, true
}
