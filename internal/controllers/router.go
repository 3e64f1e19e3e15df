package controllers

import (
	"github.com/fsdevblog/popuplink/internal/controllers/middlewares"
	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/fsdevblog/popuplink/internal/visits"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterParams struct {
	Links    LinkAuthoring
	Resolver LinkResolver
	Counters CounterIncrementer
	Visits   *visits.Registry
	Identity identity.Provider
	// JWT не nil, когда включена выдача демо-токенов.
	JWT         *identity.JWTProvider
	RequireAuth bool
	Logger      *logrus.Logger
}

func SetupRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(p.Logger))
	r.SetHTMLTemplate(pageTemplates())

	resolveController := NewResolveController(p.Resolver, p.Counters, p.Visits)
	linksController := NewLinksController(p.Links)

	r.GET("/r/:code", resolveController.Show)

	api := r.Group("/api")
	api.Use(middlewares.IdentityMiddleware(p.Identity))

	api.GET("/r/:code", resolveController.ShowJSON)

	api.POST("/visits", resolveController.OpenVisit)
	api.GET("/visits/:id", resolveController.VisitState)
	api.POST("/visits/:id/dismiss", resolveController.DismissPopup)
	api.POST("/visits/:id/button", resolveController.ButtonClick)
	api.POST("/visits/:id/click", resolveController.LinkClick)
	api.DELETE("/visits/:id", resolveController.CloseVisit)

	links := api.Group("/links")
	if p.RequireAuth {
		links.Use(middlewares.RequireUserMiddleware())
	}
	links.POST("", linksController.Create)
	links.GET("", linksController.List)
	links.PATCH("/:code", linksController.Update)
	links.DELETE("/:code", linksController.Delete)

	if p.JWT != nil {
		authController := NewAuthController(p.JWT)
		api.POST("/auth/token", authController.IssueToken)
	}

	return r
}
