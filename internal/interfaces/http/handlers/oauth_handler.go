package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/internal/interfaces/http/response"
	"merchant-connect.backend/internal/usecases"
)

// StateMismatchMessage is shown when the callback state matches no merchant
const StateMismatchMessage = "Unable to verify state parameter, please try again"

// OAuthHandler handles the gateway's OAuth redirect
type OAuthHandler struct {
	oauthUsecase *usecases.OAuthUsecase
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(oauthUsecase *usecases.OAuthUsecase) *OAuthHandler {
	return &OAuthHandler{oauthUsecase: oauthUsecase}
}

// Callback completes the connect flow and returns the merchant to its page
// GET /callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	var input entities.CallbackInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.String(http.StatusOK, StateMismatchMessage)
		return
	}

	merchant, err := h.oauthUsecase.HandleCallback(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrStateMismatch) {
			c.String(http.StatusOK, StateMismatchMessage)
			return
		}
		response.ErrorPage(c, err)
		return
	}

	c.Redirect(http.StatusFound, MerchantPath(merchant.PublicID))
}
