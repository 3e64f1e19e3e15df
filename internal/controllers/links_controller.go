package controllers

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/fsdevblog/popuplink/internal/services"
	"github.com/gin-gonic/gin"
)

// LinksController CRUD поверх сервиса ссылок.
type LinksController struct {
	links LinkAuthoring
}

func NewLinksController(links LinkAuthoring) *LinksController {
	return &LinksController{links: links}
}

type createLinkRequest struct {
	DestinationURL string  `json:"destinationUrl"`
	CustomCode     string  `json:"customCode"`
	PopupMessage   string  `json:"popupMessage"`
	ButtonLabel    string  `json:"buttonLabel"`
	ButtonURL      string  `json:"buttonUrl"`
	Position       string  `json:"position"`
	DelaySeconds   float64 `json:"delaySeconds"`
	Shape          string  `json:"shape"`
	Size           string  `json:"size"`
	CustomWidth    *int    `json:"customWidth"`
	CustomHeight   *int    `json:"customHeight"`
	ImageURL       string  `json:"imageUrl"`
}

type updateLinkRequest struct {
	DestinationURL *string  `json:"destinationUrl"`
	PopupMessage   *string  `json:"popupMessage"`
	ButtonLabel    *string  `json:"buttonLabel"`
	ButtonURL      *string  `json:"buttonUrl"`
	Position       *string  `json:"position"`
	DelaySeconds   *float64 `json:"delaySeconds"`
	Shape          *string  `json:"shape"`
	Size           *string  `json:"size"`
	CustomWidth    *int     `json:"customWidth"`
	CustomHeight   *int     `json:"customHeight"`
	ImageURL       *string  `json:"imageUrl"`
	IsActive       *bool    `json:"isActive"`
}

// ownedLink представление записи для владельца, со счетчиками.
type ownedLink struct {
	publicLink
	ShortURL         string  `json:"shortUrl"`
	IsActive         bool    `json:"isActive"`
	ViewCount        int64   `json:"viewCount"`
	LinkClickCount   int64   `json:"linkClickCount"`
	ButtonClickCount int64   `json:"buttonClickCount"`
	CreatedAt        string  `json:"createdAt"`
	LastAccessedAt   *string `json:"lastAccessedAt"`
}

func (c *LinksController) ownedLink(l *models.Link) ownedLink {
	out := ownedLink{
		publicLink:       newPublicLink(l),
		ShortURL:         c.links.ShortURL(l),
		IsActive:         l.IsActive,
		ViewCount:        l.ViewCount,
		LinkClickCount:   l.LinkClickCount,
		ButtonClickCount: l.ButtonClickCount,
		CreatedAt:        l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if l.LastAccessedAt != nil {
		at := l.LastAccessedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		out.LastAccessedAt = &at
	}
	return out
}

// Create создание ссылки.
func (c *LinksController) Create(ctx *gin.Context) {
	var req createLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	link, err := c.links.Create(ctx.Request.Context(), identity.FromContext(ctx.Request.Context()), services.CreateParams{
		DestinationURL: req.DestinationURL,
		CustomCode:     req.CustomCode,
		PopupMessage:   req.PopupMessage,
		ButtonLabel:    req.ButtonLabel,
		ButtonURL:      req.ButtonURL,
		Position:       models.Position(req.Position),
		DelaySeconds:   req.DelaySeconds,
		Shape:          models.Shape(req.Shape),
		Size:           models.Size(req.Size),
		CustomWidth:    req.CustomWidth,
		CustomHeight:   req.CustomHeight,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, c.ownedLink(link))
}

// List список ссылок текущего владельца, новые первыми.
func (c *LinksController) List(ctx *gin.Context) {
	links, err := c.links.ListByOwner(ctx.Request.Context(), identity.FromContext(ctx.Request.Context()))
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	out := make([]ownedLink, 0, len(links))
	for i := range links {
		out = append(out, c.ownedLink(&links[i]))
	}
	ctx.JSON(http.StatusOK, gin.H{"links": out})
}

// Update частичное обновление: присланные поля меняются, остальные
// вместе с id, createdAt и счетчиками остаются как были.
func (c *LinksController) Update(ctx *gin.Context) {
	var req updateLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	link, err := c.links.Update(ctx.Request.Context(), identity.FromContext(ctx.Request.Context()), ctx.Param("code"), repositories.UpdateParams{
		DestinationURL: req.DestinationURL,
		PopupMessage:   req.PopupMessage,
		ButtonLabel:    req.ButtonLabel,
		ButtonURL:      req.ButtonURL,
		Position:       (*models.Position)(req.Position),
		DelaySeconds:   req.DelaySeconds,
		Shape:          (*models.Shape)(req.Shape),
		Size:           (*models.Size)(req.Size),
		CustomWidth:    req.CustomWidth,
		CustomHeight:   req.CustomHeight,
		ImageURL:       req.ImageURL,
		IsActive:       req.IsActive,
	})
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.ownedLink(link))
}

// Delete удаление ссылки. Код после удаления немедленно свободен.
func (c *LinksController) Delete(ctx *gin.Context) {
	if err := c.links.Delete(ctx.Request.Context(), identity.FromContext(ctx.Request.Context()), ctx.Param("code")); err != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *LinksController) renderError(ctx *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": vErr.Error(),
			"field": vErr.Field,
		})
	case errors.Is(err, services.ErrDuplicateCode):
		ctx.JSON(http.StatusConflict, gin.H{"error": "short code is already taken"})
	case errors.Is(err, services.ErrCodeExhausted):
		ctx.JSON(http.StatusConflict, gin.H{"error": "could not allocate a unique short code"})
	case errors.Is(err, services.ErrAuthRequired):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, services.ErrLinkNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternal.Error()})
	}
}
