package response

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/pkg/logger"
)

// ErrorTemplate is the HTML template rendered by ErrorPage
const ErrorTemplate = "error.html"

// Error sends a JSON error response
func Error(c *gin.Context, err error) {
	appErr := resolve(c, err)
	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorPage renders an error as HTML for browser-facing routes
func ErrorPage(c *gin.Context, err error) {
	appErr := resolve(c, err)
	c.HTML(appErr.Status, ErrorTemplate, gin.H{
		"Status":  appErr.Status,
		"Title":   http.StatusText(appErr.Status),
		"Message": appErr.Message,
	})
}

func resolve(c *gin.Context, err error) *domainerrors.AppError {
	appErr := domainerrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		ctx := context.Background()
		if c.Request != nil {
			ctx = c.Request.Context()
		}
		logger.Error(ctx, "Request failed",
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
	}
	return appErr
}
