package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/service"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	clientService  service.ClientService
	requestService service.RequestService
	quoteService   service.QuoteService
	billingService service.BillingService
	reportService  service.ReportService
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	clientService service.ClientService,
	requestService service.RequestService,
	quoteService service.QuoteService,
	billingService service.BillingService,
	reportService service.ReportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		clientService:  clientService,
		requestService: requestService,
		quoteService:   quoteService,
		billingService: billingService,
		reportService:  reportService,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// respondError maps engine errors to HTTP status codes. Capacity and
// conflict exhaustion are 503 so callers know to retry later rather than
// fix the request.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrCapacityExhausted),
		errors.Is(err, workflow.ErrConflictRetry):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		// Storage details stay out of responses
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func (h *Handlers) respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// pathID parses the numeric :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// listParams parses and bounds limit/offset query parameters
func listParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	h.respondOK(c, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// RegisterClientRequest represents the client registration body
type RegisterClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"required"`
}

// RegisterClient handles POST /api/registration
func (h *Handlers) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	client, err := h.clientService.Register(c.Request.Context(), service.RegisterClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, client)
}

// GetClient handles GET /api/clients/:id
func (h *Handlers) GetClient(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, client)
}

// ListClientRequests handles GET /api/clients/:id/requests
func (h *Handlers) ListClientRequests(c *gin.Context) {
	limit, offset := listParams(c)
	requests, err := h.requestService.ListClientRequests(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, requests)
}

// SubmitRequestRequest represents the work request submission body. Photos
// are client-side filenames; the server mints an opaque reference per photo.
type SubmitRequestRequest struct {
	ClientID        string   `json:"client_id" binding:"required"`
	PropertyAddress string   `json:"property_address" binding:"required"`
	SquareFeet      float64  `json:"square_feet" binding:"required"`
	ProposedPrice   float64  `json:"proposed_price" binding:"required"`
	Note            string   `json:"note"`
	Photos          []string `json:"photos"`
}

// SubmitRequest handles POST /api/requests
func (h *Handlers) SubmitRequest(c *gin.Context) {
	var req SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	refs := make([]string, 0, len(req.Photos))
	for range req.Photos {
		refs = append(refs, uuid.New().String())
	}

	request, err := h.requestService.SubmitRequest(c.Request.Context(), service.SubmitRequestInput{
		ClientID:        req.ClientID,
		PropertyAddress: req.PropertyAddress,
		SquareFeet:      req.SquareFeet,
		ProposedPrice:   req.ProposedPrice,
		Note:            req.Note,
		PhotoRefs:       refs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, request)
}

// ListRequests handles GET /api/requests
func (h *Handlers) ListRequests(c *gin.Context) {
	limit, offset := listParams(c)
	status := entity.RequestStatus(c.Query("status"))
	requests, err := h.requestService.ListRequests(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, requests)
}

// GetRequest handles GET /api/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	request, err := h.requestService.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, request)
}

// RespondToRequestRequest represents the business's decision body
type RespondToRequestRequest struct {
	Decision     string     `json:"decision" binding:"required"`
	Note         string     `json:"note"`
	CounterPrice *float64   `json:"counter_price"`
	WorkStart    *time.Time `json:"work_start"`
	WorkEnd      *time.Time `json:"work_end"`
}

// RespondToRequest handles POST /api/requests/:id/respond
func (h *Handlers) RespondToRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RespondToRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	decision, err := h.requestService.RespondToRequest(c.Request.Context(), service.RespondToRequestInput{
		RequestID:    id,
		Decision:     entity.RequestStatus(req.Decision),
		Note:         req.Note,
		CounterPrice: req.CounterPrice,
		WorkStart:    req.WorkStart,
		WorkEnd:      req.WorkEnd,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, decision)
}

// CounterProposalRequest represents a negotiate or revise body
type CounterProposalRequest struct {
	Price float64   `json:"price" binding:"required"`
	Start time.Time `json:"work_start" binding:"required"`
	End   time.Time `json:"work_end" binding:"required"`
	Note  string    `json:"note"`
}

// NegotiateQuote handles POST /api/quotes/:id/negotiate
func (h *Handlers) NegotiateQuote(c *gin.Context) {
	h.counterPropose(c, h.quoteService.Negotiate)
}

// ReviseQuote handles POST /api/quotes/:id/revise
func (h *Handlers) ReviseQuote(c *gin.Context) {
	h.counterPropose(c, h.quoteService.Revise)
}

func (h *Handlers) counterPropose(c *gin.Context, apply func(ctx context.Context, input service.CounterProposalInput) (*entity.Quote, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CounterProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	quote, err := apply(c.Request.Context(), service.CounterProposalInput{
		QuoteID: id,
		Price:   req.Price,
		Start:   req.Start,
		End:     req.End,
		Note:    req.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, quote)
}

// AcceptQuoteRequest represents the quote acceptance body
type AcceptQuoteRequest struct {
	FinalPrice *float64   `json:"final_price"`
	WorkStart  *time.Time `json:"work_start"`
	WorkEnd    *time.Time `json:"work_end"`
}

// AcceptQuote handles POST /api/quotes/:id/accept
func (h *Handlers) AcceptQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	order, err := h.quoteService.AcceptQuote(c.Request.Context(), service.AcceptQuoteInput{
		QuoteID:    id,
		FinalPrice: req.FinalPrice,
		WorkStart:  req.WorkStart,
		WorkEnd:    req.WorkEnd,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, order)
}

// CloseQuoteRequest represents the quote close body
type CloseQuoteRequest struct {
	Note string `json:"note"`
}

// CloseQuote handles POST /api/quotes/:id/close
func (h *Handlers) CloseQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Body is optional; a missing note is fine
	var req CloseQuoteRequest
	_ = c.ShouldBindJSON(&req)

	quote, err := h.quoteService.CloseQuote(c.Request.Context(), id, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, quote)
}

// RequoteRequest represents the requote body
type RequoteRequest struct {
	Price float64   `json:"price" binding:"required"`
	Start time.Time `json:"work_start" binding:"required"`
	End   time.Time `json:"work_end" binding:"required"`
	Note  string    `json:"note"`
}

// Requote handles POST /api/requests/:id/requote
func (h *Handlers) Requote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RequoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	quote, err := h.quoteService.Requote(c.Request.Context(), service.RequoteInput{
		RequestID: id,
		Price:     req.Price,
		Start:     req.Start,
		End:       req.End,
		Note:      req.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, quote)
}

// ListQuotes handles GET /api/quotes
func (h *Handlers) ListQuotes(c *gin.Context) {
	limit, offset := listParams(c)
	status := entity.QuoteStatus(c.Query("status"))
	quotes, err := h.quoteService.ListQuotes(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, quotes)
}

// GetQuote handles GET /api/quotes/:id
func (h *Handlers) GetQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	quote, err := h.quoteService.GetQuote(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, quote)
}

// ListOrders handles GET /api/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	limit, offset := listParams(c)
	status := entity.OrderStatus(c.Query("status"))
	orders, err := h.billingService.ListOrders(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, orders)
}

// GetOrder handles GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.billingService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, order)
}

// CreateBillRequest represents the billing body
type CreateBillRequest struct {
	AmountDue float64 `json:"amount_due" binding:"required"`
}

// CreateBill handles POST /api/orders/:id/bill
func (h *Handlers) CreateBill(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), id, req.AmountDue)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, bill)
}

// ListBills handles GET /api/bills
func (h *Handlers) ListBills(c *gin.Context) {
	limit, offset := listParams(c)
	status := entity.BillStatus(c.Query("status"))
	bills, err := h.billingService.ListBills(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, bills)
}

// GetBill handles GET /api/bills/:id
func (h *Handlers) GetBill(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, bill)
}

// DisputeBillRequest represents the dispute body
type DisputeBillRequest struct {
	Note string `json:"note" binding:"required"`
}

// DisputeBill handles POST /api/bills/:id/dispute
func (h *Handlers) DisputeBill(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req DisputeBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	bill, err := h.billingService.DisputeBill(c.Request.Context(), id, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, bill)
}

// RespondToDisputeRequest represents the dispute response body
type RespondToDisputeRequest struct {
	AmountDue float64 `json:"amount_due" binding:"required"`
	Note      string  `json:"note"`
}

// RespondToDispute handles POST /api/bills/:id/respond
func (h *Handlers) RespondToDispute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RespondToDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	bill, err := h.billingService.RespondToDispute(c.Request.Context(), id, req.AmountDue, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, bill)
}

// PayBill handles POST /api/bills/:id/pay
func (h *Handlers) PayBill(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	bill, err := h.billingService.PayBill(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondOK(c, bill)
}

// reportRange parses the start/end query parameters (YYYY-MM-DD)
func reportRange(c *gin.Context) (start, end time.Time, ok bool) {
	var err error
	start, err = time.Parse("2006-01-02", c.Query("start"))
	if err == nil {
		end, err = time.Parse("2006-01-02", c.Query("end"))
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false,
			Error: "start and end are required as YYYY-MM-DD"})
		return start, end, false
	}
	// Make the end date inclusive
	end = end.Add(24*time.Hour - time.Nanosecond)
	return start, end, true
}

// RevenueReport handles GET /api/reports/revenue
func (h *Handlers) RevenueReport(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.Revenue(c.Request.Context(), start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, report)
}

// ExportRevenueResponse represents the export result
type ExportRevenueResponse struct {
	Report   interface{} `json:"report"`
	FilePath string      `json:"file_path"`
}

// ExportRevenueReport handles POST /api/reports/revenue/export
func (h *Handlers) ExportRevenueReport(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	report, path, err := h.reportService.ExportRevenue(c.Request.Context(), start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, ExportRevenueResponse{Report: report, FilePath: path})
}

// OverdueBills handles GET /api/reports/overdue-bills
func (h *Handlers) OverdueBills(c *gin.Context) {
	bills, err := h.reportService.OverdueBills(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, bills)
}

// TopClients handles GET /api/reports/top-clients
func (h *Handlers) TopClients(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	clients, err := h.reportService.TopClients(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, clients)
}
