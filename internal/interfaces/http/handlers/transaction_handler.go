package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/internal/interfaces/http/response"
	"merchant-connect.backend/internal/usecases"
	"merchant-connect.backend/pkg/logger"
)

// TransactionHandler handles sales submitted from the merchant page
type TransactionHandler struct {
	transactionUsecase *usecases.TransactionUsecase
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionUsecase *usecases.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{transactionUsecase: transactionUsecase}
}

// saleJSONBody is the nested JSON variant of the sale form
type saleJSONBody struct {
	Transaction struct {
		Amount             string `json:"amount"`
		PaymentMethodNonce string `json:"paymentMethodNonce"`
	} `json:"transaction"`
	Require3DS interface{} `json:"require3DS"`
}

func (b saleJSONBody) input() entities.SaleInput {
	in := entities.SaleInput{
		Amount:             b.Transaction.Amount,
		PaymentMethodNonce: b.Transaction.PaymentMethodNonce,
	}
	switch v := b.Require3DS.(type) {
	case nil:
	case bool:
		if v {
			in.Require3DS = "true"
		}
	case string:
		in.Require3DS = v
	default:
		in.Require3DS = "true"
	}
	return in
}

// Create submits a sale and reports {success, errors}
// POST /merchant/:public_id/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	publicID := c.Param("public_id")
	ctx := logger.WithMerchant(c.Request.Context(), publicID)

	var input entities.SaleInput
	if c.ContentType() == binding.MIMEJSON {
		var body saleJSONBody
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidSale(c, "request body is not valid JSON")
			return
		}
		input = body.input()
	} else if err := c.ShouldBind(&input); err != nil {
		invalidSale(c, err.Error())
		return
	}

	result, err := h.transactionUsecase.CreateSale(ctx, publicID, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidInput) {
			invalidSale(c, err.Error())
			return
		}
		response.Error(c, err)
		return
	}

	out := entities.SaleResponse{Success: result.Success}
	if !result.Success {
		out.Errors = result.Errors
		if len(out.Errors) == 0 && result.Message != "" {
			out.Errors = []entities.ValidationError{{Message: result.Message}}
		}
	}
	c.JSON(http.StatusOK, out)
}

func invalidSale(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, entities.SaleResponse{
		Success: false,
		Errors:  []entities.ValidationError{{Code: domainerrors.CodeInvalidInput, Message: message}},
	})
}
