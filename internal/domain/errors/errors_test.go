package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrBadRequest.Error(), err.Error())

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.ErrorIs(t, notFound, ErrNotFound)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.Equal(t, CodeInvalidInput, badReq.Code)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)

	notConnected := NotConnected("connect first")
	assert.Equal(t, http.StatusConflict, notConnected.Status)

	gw := GatewayError(ErrGatewayUnavailable)
	assert.Equal(t, http.StatusBadGateway, gw.Status)
	assert.Equal(t, CodeGatewayError, gw.Code)
}

func TestAppError_ErrorUsesMessageWithoutWrappedErr(t *testing.T) {
	err := &AppError{Status: http.StatusTeapot, Code: "X", Message: "plain"}
	assert.Equal(t, "plain", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"invalid input", fmt.Errorf("amount: %w", ErrInvalidInput), http.StatusBadRequest, CodeInvalidInput},
		{"not connected", ErrMerchantNotConnected, http.StatusConflict, CodeNotConnected},
		{"gateway", fmt.Errorf("sale: %w", ErrGatewayUnavailable), http.StatusBadGateway, CodeGatewayError},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError, CodeInternalError},
		{"app error passthrough", Unauthorized("nope"), http.StatusUnauthorized, CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromError(tt.err)
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}
