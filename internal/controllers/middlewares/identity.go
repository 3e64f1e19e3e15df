package middlewares

import (
	"fmt"
	"net/http"

	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/gin-gonic/gin"
)

// IdentityMiddleware извлекает владельца из запроса и кладет его в контекст.
// Анонимный запрос проходит дальше без пользователя.
func IdentityMiddleware(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := provider.CurrentUser(c.Request)
		if err != nil {
			_ = c.Error(fmt.Errorf("identity middleware: %w", err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if user != nil {
			c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), user))
		}
		c.Next()
	}
}

// RequireUserMiddleware обрывает анонимные запросы. Вешается после
// IdentityMiddleware на маршруты, требующие владельца.
func RequireUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity.FromContext(c.Request.Context()) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}
