package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/presentation/http/dto/request"
	"github.com/sangkips/register-api/internal/presentation/http/dto/response"
	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/pagination"
)

// RegisterHandler handles the cash drawer lifecycle: open, close and the
// read-only probes in between.
type RegisterHandler struct {
	registerService *service.RegisterService
	salesService    *service.SalesService
	printerService  *service.PrinterService
}

// NewRegisterHandler creates a new register handler. printerService may
// be nil, in which case close slips are never printed.
func NewRegisterHandler(registerService *service.RegisterService, salesService *service.SalesService, printerService *service.PrinterService) *RegisterHandler {
	return &RegisterHandler{
		registerService: registerService,
		salesService:    salesService,
		printerService:  printerService,
	}
}

// Status reports whether the register is open. It never fails.
func (h *RegisterHandler) Status(c *gin.Context) {
	response.OK(c, "Register status retrieved", h.registerService.Status(c.Request.Context()))
}

// Current returns the open session with its running sales total
func (h *RegisterHandler) Current(c *gin.Context) {
	current, err := h.registerService.CurrentSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if current == nil {
		response.NotFound(c, "Register is not open")
		return
	}
	response.OK(c, "Current register session retrieved", current)
}

// Prefill suggests a denomination count for the configured float
func (h *RegisterHandler) Prefill(c *gin.Context) {
	prefill, err := h.registerService.Prefill(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Register prefill retrieved", prefill)
}

// Open starts a new session
func (h *RegisterHandler) Open(c *gin.Context) {
	var req request.OpenRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	session, err := h.registerService.OpenSession(c.Request.Context(), &service.OpenSessionInput{
		OpeningAmount:  *req.OpeningAmount,
		OpeningDetails: req.OpeningDetails,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Register opened", session)
}

// Close ends the open session and returns its reconciliation. With
// print set the close slip also goes to the printer; a printer failure
// is reported as a warning since the session is already closed.
func (h *RegisterHandler) Close(c *gin.Context) {
	var req request.CloseRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	summary, err := h.registerService.CloseSession(ctx, &service.CloseSessionInput{
		ClosingAmount:  *req.ClosingAmount,
		ClosingDetails: req.ClosingDetails,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if !req.Print || h.printerService == nil {
		response.OK(c, "Register closed", summary)
		return
	}

	slip, err := h.printerService.PrintCloseSlip(ctx, summary)
	if err != nil {
		response.OK(c, "Register closed but printing failed", gin.H{
			"summary": summary,
			"slip":    slip,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Register closed", gin.H{
		"summary": summary,
		"slip":    slip,
	})
}

// ListSessions pages through session history
func (h *RegisterHandler) ListSessions(c *gin.Context) {
	var query request.SessionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	from, err := h.salesService.ParseDateBound(query.StartDate, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := h.salesService.ParseDateBound(query.EndDate, true)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.registerService.ListSessions(c.Request.Context(), from, to, &pagination.PaginationParams{
		Page:    query.Page,
		PerPage: query.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Register sessions retrieved", result)
}

// SessionSales totals the sales of one session
func (h *RegisterHandler) SessionSales(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid session ID"))
		return
	}

	sales, err := h.registerService.SessionSales(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session sales retrieved", gin.H{
		"session_id": id,
		"sales":      sales,
	})
}
