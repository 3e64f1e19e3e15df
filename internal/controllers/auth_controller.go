package controllers

import (
	"net/http"
	"time"

	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/gin-gonic/gin"
)

const tokenTTL = 24 * time.Hour

// AuthController выдача демо-токенов. Логина с паролем здесь нет, клиент
// сам называет свой идентификатор и получает подписанный токен на сутки.
type AuthController struct {
	issuer *identity.JWTProvider
}

func NewAuthController(issuer *identity.JWTProvider) *AuthController {
	return &AuthController{issuer: issuer}
}

func (c *AuthController) IssueToken(ctx *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	token, err := c.issuer.Issue(req.UserID, tokenTTL)
	if err != nil {
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternal.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int(tokenTTL.Seconds())})
}
