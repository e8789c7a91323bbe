package middleware

import (
	"net/http"
	"strings"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"
	"upbmy/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userKey = "currentUser"

// Authenticate проверяет bearer-токен и кладёт юзера в контекст.
func Authenticate(tokens *security.TokenManager, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, tokens, users)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth - то же самое, но без токена пропускает дальше анонимно.
// Нужно для регистрации просмотров: смотреть можно и без логина.
func OptionalAuth(tokens *security.TokenManager, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := resolveUser(c, tokens, users); ok {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// RequireRoles пускает дальше только перечисленные роли.
// Вешается после Authenticate.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}
}

// CurrentUser достаёт юзера, положенного Authenticate/OptionalAuth.
// nil = аноним.
func CurrentUser(c *gin.Context) *domain.User {
	val, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := val.(*domain.User)
	return user
}

func resolveUser(c *gin.Context, tokens *security.TokenManager, users *repository.UserRepository) (*domain.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	userIDStr, err := tokens.Validate(parts[1])
	if err != nil {
		return nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, false
	}

	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil || !user.Active {
		return nil, false
	}
	return user, true
}
