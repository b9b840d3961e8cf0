package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"

	"merchant-connect.backend/internal/domain/prefill"
)

// HomeHandler serves the signup page
type HomeHandler struct{}

// NewHomeHandler creates a new home handler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Index renders the signup form
// GET /
func (h *HomeHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":          "Merchant signup",
		"Slug":           rand.IntN(10000),
		"Countries":      prefill.SupportedCountries(),
		"DefaultCountry": prefill.DefaultCountryCode,
	})
}
