package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/internal/presentation/http/dto/request"
	"github.com/sangkips/register-api/internal/presentation/http/dto/response"
	"github.com/sangkips/register-api/pkg/apperror"
)

// TransactionHandler handles the sales ledger
type TransactionHandler struct {
	transactionService *service.TransactionService
	salesService       *service.SalesService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService, salesService *service.SalesService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		salesService:       salesService,
	}
}

// Record stores a completed sale
func (h *TransactionHandler) Record(c *gin.Context) {
	var req request.RecordSaleRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.Error(c, apperror.NewFieldError("method", "method must be cash or card"))
		return
	}

	items := make([]entity.SaleItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = entity.SaleItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	txn, err := h.transactionService.RecordSale(c.Request.Context(), &service.RecordSaleInput{
		Items:         items,
		Subtotal:      *req.Subtotal,
		Tax:           *req.Tax,
		Total:         *req.Total,
		Tendered:      *req.Tendered,
		Method:        method,
		ReceiptNumber: req.ReceiptNumber,
		Date:          req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded", txn)
}

// List returns transactions in the optional from/to range, newest first
func (h *TransactionHandler) List(c *gin.Context) {
	from, to, err := parseDateRange(c, h.salesService)
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, err := h.transactionService.List(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Transactions retrieved", txns)
}

// Get returns one transaction
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid transaction ID"))
		return
	}

	txn, err := h.transactionService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Transaction retrieved", txn)
}

// parseDateRange reads the from/to query parameters. A bare date in to
// covers the whole of that day.
func parseDateRange(c *gin.Context, sales *service.SalesService) (*time.Time, *time.Time, error) {
	var query request.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return nil, nil, apperror.NewBadRequestError("Invalid query parameters")
	}
	from, err := sales.ParseDateBound(query.From, false)
	if err != nil {
		return nil, nil, err
	}
	to, err := sales.ParseDateBound(query.To, true)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
