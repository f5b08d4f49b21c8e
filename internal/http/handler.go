package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/amc-manager/internal/model"
	"github.com/nurpe/amc-manager/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	amc *service.AMCService
	log zerolog.Logger
	now func() time.Time
}

func NewHandler(amc *service.AMCService, log zerolog.Logger) *Handler {
	return &Handler{amc: amc, log: log, now: time.Now}
}

func (h *Handler) Register(router *gin.Engine) {
	router.GET("/dashboard", h.dashboard)
	router.GET("/dashboard/export", h.exportDashboard)

	customers := router.Group("/customers")
	customers.GET("", h.listCustomers)
	customers.POST("", h.createCustomer)
	customers.GET("/:id", h.getCustomer)
	customers.PUT("/:id", h.updateCustomer)
	customers.PUT("/:id/status", h.setCustomerStatus)

	contracts := router.Group("/contracts")
	contracts.GET("", h.listContracts)
	contracts.POST("", h.createContract)
	contracts.GET("/:id", h.getContract)
	contracts.PUT("/:id", h.updateContract)
	contracts.POST("/:id/mark-paid", h.markContractPaid)
	contracts.GET("/:id/invoice", h.contractInvoice)
	contracts.POST("/:id/reminder-email", h.reminderEmail)
}

type customerRequest struct {
	Name   string               `json:"name" binding:"required"`
	Email  string               `json:"email"`
	Number string               `json:"number"`
	Status model.CustomerStatus `json:"status"`
}

type customerStatusRequest struct {
	Status model.CustomerStatus `json:"status" binding:"required"`
}

type createContractRequest struct {
	CustomerID       string               `json:"customerId" binding:"required"`
	DealClosedDate   string               `json:"dealClosedDate" binding:"required"`
	DealAmount       decimal.Decimal      `json:"dealAmount"`
	AMCAmount        decimal.Decimal      `json:"amcAmount"`
	DurationInMonths model.DurationMonths `json:"durationInMonths" binding:"required"`
}

type updateContractRequest struct {
	CustomerID       string               `json:"customerId" binding:"required"`
	DealClosedDate   string               `json:"dealClosedDate" binding:"required"`
	DealAmount       decimal.Decimal      `json:"dealAmount"`
	AMCAmount        decimal.Decimal      `json:"amcAmount"`
	DurationInMonths model.DurationMonths `json:"durationInMonths" binding:"required"`
	PaymentStatus    model.PaymentStatus  `json:"paymentStatus" binding:"required"`
	RenewalDate      string               `json:"renewalDate" binding:"required"`
}

func (h *Handler) dashboard(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.amc.Dashboard(now))
}

func (h *Handler) exportDashboard(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}
	result, err := h.amc.ExportDashboard(now)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, result)
}

func (h *Handler) listCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.amc.ListCustomers()})
}

func (h *Handler) getCustomer(c *gin.Context) {
	customer, err := h.amc.GetCustomer(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.amc.CreateCustomer(c.Request.Context(), service.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Number,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if req.Status == "" {
		existing, err := h.amc.GetCustomer(id)
		if err != nil {
			h.handleError(c, err)
			return
		}
		req.Status = existing.Status
	}

	customer, err := h.amc.UpdateCustomer(c.Request.Context(), model.Customer{
		ID:     id,
		Name:   req.Name,
		Email:  strings.TrimSpace(req.Email),
		Phone:  strings.TrimSpace(req.Number),
		Status: req.Status,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) setCustomerStatus(c *gin.Context) {
	var req customerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.amc.SetCustomerStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) listContracts(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.amc.ListContracts(now)})
}

func (h *Handler) getContract(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}
	row, err := h.amc.GetContract(c.Param("id"), now)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) createContract(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dealClosed, err := parseDate(req.DealClosedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dealClosedDate"})
		return
	}

	contract, err := h.amc.CreateContract(c.Request.Context(), service.CreateContractInput{
		CustomerID:       strings.TrimSpace(req.CustomerID),
		DealClosedDate:   dealClosed,
		DealAmount:       req.DealAmount,
		AMCAmount:        req.AMCAmount,
		DurationInMonths: req.DurationInMonths,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) updateContract(c *gin.Context) {
	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dealClosed, err := parseDate(req.DealClosedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dealClosedDate"})
		return
	}
	renewal, err := parseDate(req.RenewalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid renewalDate"})
		return
	}

	contract, err := h.amc.UpdateContract(c.Request.Context(), model.Contract{
		ID:               c.Param("id"),
		CustomerID:       strings.TrimSpace(req.CustomerID),
		DealClosedDate:   dealClosed,
		DealAmount:       req.DealAmount,
		AMCAmount:        req.AMCAmount,
		DurationInMonths: req.DurationInMonths,
		PaymentStatus:    req.PaymentStatus,
		RenewalDate:      renewal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) markContractPaid(c *gin.Context) {
	contract, err := h.amc.MarkContractPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) contractInvoice(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}
	result, err := h.amc.Invoice(c.Param("id"), now)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, contentTypePDF, result)
}

func (h *Handler) reminderEmail(c *gin.Context) {
	draft, err := h.amc.DraftReminder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// requestNow resolves the instant a time-sensitive read is evaluated at.
// An invalid ?now= aborts the request with 400.
func (h *Handler) requestNow(c *gin.Context) (time.Time, bool) {
	raw := c.Query("now")
	if raw == "" {
		return h.now(), true
	}
	now, err := parseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid now"})
		return time.Time{}, false
	}
	return now, true
}

func sendFile(c *gin.Context, contentType string, result *service.FileResult) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
