package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/presentation/http/dto/request"
	"github.com/sangkips/register-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles the store-wide register settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetTaxRate returns the sales tax percentage
func (h *SettingsHandler) GetTaxRate(c *gin.Context) {
	rate, err := h.settingsService.TaxRate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax rate retrieved", gin.H{"tax_rate": rate})
}

// UpdateTaxRate sets the sales tax percentage
func (h *SettingsHandler) UpdateTaxRate(c *gin.Context) {
	var req request.UpdateTaxRateRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.settingsService.SetTaxRate(c.Request.Context(), *req.TaxRate); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax rate updated", gin.H{"tax_rate": *req.TaxRate})
}

// GetRegisterAmount returns the default opening float
func (h *SettingsHandler) GetRegisterAmount(c *gin.Context) {
	amount, err := h.settingsService.RegisterInitialAmount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Register amount retrieved", gin.H{"amount": amount})
}

// UpdateRegisterAmount sets the default opening float
func (h *SettingsHandler) UpdateRegisterAmount(c *gin.Context) {
	var req request.UpdateRegisterAmountRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.settingsService.SetRegisterInitialAmount(c.Request.Context(), *req.Amount); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Register amount updated", gin.H{"amount": *req.Amount})
}
