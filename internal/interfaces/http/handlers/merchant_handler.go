package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/internal/interfaces/http/response"
	"merchant-connect.backend/internal/usecases"
	"merchant-connect.backend/pkg/logger"
)

// MerchantHandler handles merchant signup and the merchant page
type MerchantHandler struct {
	merchantUsecase *usecases.MerchantUsecase
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(merchantUsecase *usecases.MerchantUsecase) *MerchantHandler {
	return &MerchantHandler{merchantUsecase: merchantUsecase}
}

// MerchantPath is the merchant page for a public id
func MerchantPath(publicID string) string {
	return "/merchant/" + publicID
}

// Signup finds or creates the merchant and redirects to its page
// POST /merchants
func (h *MerchantHandler) Signup(c *gin.Context) {
	var input entities.SignupInput
	if err := c.ShouldBind(&input); err != nil {
		response.ErrorPage(c, domainerrors.BadRequest("Email is required"))
		return
	}

	merchant, err := h.merchantUsecase.Signup(c.Request.Context(), &input)
	if err != nil {
		response.ErrorPage(c, err)
		return
	}

	c.Redirect(http.StatusFound, MerchantPath(merchant.PublicID))
}

// Show renders the connect link or the payment form
// GET /merchant/:public_id
func (h *MerchantHandler) Show(c *gin.Context) {
	publicID := c.Param("public_id")
	ctx := logger.WithMerchant(c.Request.Context(), publicID)

	detail, err := h.merchantUsecase.GetDetail(ctx, publicID)
	if err != nil {
		response.ErrorPage(c, err)
		return
	}

	c.HTML(http.StatusOK, "merchant.html", gin.H{
		"Title":        detail.Merchant.Email,
		"Merchant":     detail.Merchant,
		"ConnectURL":   detail.ConnectURL,
		"ClientToken":  detail.ClientToken,
		"Transactions": detail.Transactions,
	})
}
