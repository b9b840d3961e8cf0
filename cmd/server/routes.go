package main

import (
	"github.com/gin-gonic/gin"

	"merchant-connect.backend/internal/interfaces/http/handlers"
	"merchant-connect.backend/internal/interfaces/http/middleware"
	"merchant-connect.backend/pkg/metrics"
)

type routeDeps struct {
	homeHandler        *handlers.HomeHandler
	merchantHandler    *handlers.MerchantHandler
	transactionHandler *handlers.TransactionHandler
	oauthHandler       *handlers.OAuthHandler
	healthHandler      *handlers.HealthHandler
}

func registerHealthRoute(r *gin.Engine, h *handlers.HealthHandler) {
	if h == nil {
		h = handlers.NewHealthHandler(version, nil)
	}
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/", d.homeHandler.Index)
	r.POST("/merchants", d.merchantHandler.Signup)

	merchant := r.Group("/merchant/:public_id")
	{
		merchant.GET("", d.merchantHandler.Show)
		merchant.POST("/transactions", middleware.IdempotencyMiddleware("public_id"), d.transactionHandler.Create)
	}

	// OAuth redirect target
	r.GET("/callback", d.oauthHandler.Callback)
}
