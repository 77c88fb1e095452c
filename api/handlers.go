/*
handlers.go - HTTP API handlers for the rental management system

PURPOSE:
  Exposes the rental engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and report layers.

ENDPOINTS:
  Products:
    GET    /api/products               List all products
    POST   /api/products               Create product
    GET    /api/products/{id}          Get product
    PUT    /api/products/{id}          Update product
    DELETE /api/products/{id}          Delete product

  Renters: same CRUD shape under /api/renters

  Rentals:
    GET    /api/rentals                List rentals (?active=true filters)
    POST   /api/rentals                Create rental + full schedule
    GET    /api/rentals/{id}           Get rental details
    DELETE /api/rentals/{id}           Delete rental (cascades to schedule)
    POST   /api/rentals/{id}/return    Mark returned
    PUT    /api/rentals/{id}/payment-status  Toggle paid/unpaid
    GET    /api/rentals/{id}/payments  Obligation schedule
    GET    /api/rentals/{id}/summary   Financial summary
    GET    /api/rentals/{id}/income    Paid vs expected obligation sums

  Payments:
    GET    /api/payments/unpaid        Unpaid obligations (active rentals)
    PUT    /api/payments/{id}/status   Toggle obligation paid/unpaid

  Reports:
    GET    /api/reports/tenants        Per-renter totals
    GET    /api/reports/unpaid-total   Portfolio unpaid total
    GET    /api/reports/dashboard      Dashboard counts + income

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (engine, report service, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/rental-engine/rental"
	"github.com/warp/rental-engine/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   rental.RecordStore
	Reports *report.Service
}

// NewHandler creates a new handler over the given store.
func NewHandler(store rental.RecordStore) *Handler {
	return &Handler{
		Store:   store,
		Reports: report.NewService(store),
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeDomainError maps engine/store errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case rental.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case rental.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns all products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products", err)
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	p, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

func (h *Handler) parseProduct(w http.ResponseWriter, r *http.Request) (*rental.Product, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Product name is required", nil)
		return nil, false
	}
	if !rental.ProductType(req.Type).Valid() {
		writeError(w, http.StatusBadRequest, "Invalid product type (use bed or equipment)", nil)
		return nil, false
	}
	price, err := rental.ParseAmount(req.RentalPrice)
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "Invalid rental_price", err)
		return nil, false
	}
	return &rental.Product{
		Name:        req.Name,
		Type:        rental.ProductType(req.Type),
		RentalPrice: price,
	}, true
}

// CreateProduct creates a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parseProduct(w, r)
	if !ok {
		return
	}

	id, err := h.Store.SaveProduct(r.Context(), *p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create product", err)
		return
	}
	p.ID = id
	writeJSON(w, http.StatusCreated, toProductDTO(*p))
}

// UpdateProduct updates an existing product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}
	p, ok := h.parseProduct(w, r)
	if !ok {
		return
	}
	p.ID = id

	if err := h.Store.UpdateProduct(r.Context(), *p); err != nil {
		writeDomainError(w, "Failed to update product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

// DeleteProduct deletes a product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}
	if err := h.Store.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RENTER HANDLERS
// =============================================================================

// ListRenters returns all renters.
func (h *Handler) ListRenters(w http.ResponseWriter, r *http.Request) {
	renters, err := h.Store.ListRenters(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list renters", err)
		return
	}

	dtos := make([]RenterDTO, len(renters))
	for i, rn := range renters {
		dtos[i] = toRenterDTO(rn)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRenter returns a single renter.
func (h *Handler) GetRenter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid renter id", err)
		return
	}

	rn, err := h.Store.GetRenter(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get renter", err)
		return
	}
	writeJSON(w, http.StatusOK, toRenterDTO(*rn))
}

// CreateRenter creates a new renter.
func (h *Handler) CreateRenter(w http.ResponseWriter, r *http.Request) {
	var req RenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "Renter full_name is required", nil)
		return
	}

	rn := rental.Renter{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		IDNumber: req.IDNumber,
	}
	id, err := h.Store.SaveRenter(r.Context(), rn)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create renter", err)
		return
	}
	rn.ID = id
	writeJSON(w, http.StatusCreated, toRenterDTO(rn))
}

// UpdateRenter updates an existing renter.
func (h *Handler) UpdateRenter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid renter id", err)
		return
	}

	var req RenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "Renter full_name is required", nil)
		return
	}

	rn := rental.Renter{
		ID:       id,
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		IDNumber: req.IDNumber,
	}
	if err := h.Store.UpdateRenter(r.Context(), rn); err != nil {
		writeDomainError(w, "Failed to update renter", err)
		return
	}
	writeJSON(w, http.StatusOK, toRenterDTO(rn))
}

// DeleteRenter deletes a renter.
func (h *Handler) DeleteRenter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid renter id", err)
		return
	}
	if err := h.Store.DeleteRenter(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete renter", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RENTAL HANDLERS
// =============================================================================

// ListRentals returns all rentals with product/renter details.
// ?active=true restricts to active rentals.
func (h *Handler) ListRentals(w http.ResponseWriter, r *http.Request) {
	var (
		details []rental.RentalDetail
		err     error
	)
	if r.URL.Query().Get("active") == "true" {
		details, err = h.Store.ListActiveRentals(r.Context())
	} else {
		details, err = h.Store.ListRentals(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rentals", err)
		return
	}

	dtos := make([]RentalDTO, len(details))
	for i, d := range details {
		dtos[i] = toRentalDetailDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRental returns a single rental with details.
func (h *Handler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id", err)
		return
	}

	d, err := h.Store.GetRentalDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get rental", err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalDetailDTO(*d))
}

// CreateRental creates a rental and its full payment schedule atomically.
func (h *Handler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cadence := rental.Cadence(req.Cadence)
	if !cadence.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid cadence (use monthly or yearly)", rental.ErrInvalidCadence)
		return
	}

	price, err := rental.ParseAmount(req.UnitPrice)
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "Invalid unit_price", err)
		return
	}

	start, err := rental.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}

	var end *rental.Date
	if req.EndDate != "" {
		d, err := rental.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
			return
		}
		if d.Before(start) {
			writeError(w, http.StatusBadRequest, "end_date before start_date", rental.ErrInvalidDateRange)
			return
		}
		end = &d
	}

	// Referenced records must exist before the schedule is generated.
	if _, err := h.Store.GetProduct(r.Context(), req.ProductID); err != nil {
		writeDomainError(w, "Unknown product", err)
		return
	}
	if _, err := h.Store.GetRenter(r.Context(), req.RenterID); err != nil {
		writeDomainError(w, "Unknown renter", err)
		return
	}

	schedule, err := rental.GenerateSchedule(cadence, price, start, end)
	if err != nil {
		writeDomainError(w, "Failed to generate schedule", err)
		return
	}

	newRental := rental.Rental{
		ProductID: req.ProductID,
		RenterID:  req.RenterID,
		Cadence:   cadence,
		UnitPrice: price,
		StartDate: start,
		EndDate:   end,
	}
	id, err := h.Store.CreateRental(r.Context(), newRental, schedule)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create rental", err)
		return
	}

	d, err := h.Store.GetRentalDetail(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read created rental", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRentalDetailDTO(*d))
}

// DeleteRental deletes a rental and its schedule.
func (h *Handler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id", err)
		return
	}
	if err := h.Store.DeleteRental(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete rental", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReturnRental marks a rental as returned. The transition is one-way.
func (h *Handler) ReturnRental(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id", err)
		return
	}
	if err := h.Store.UpdateRentalStatus(r.Context(), id, rental.StatusReturned); err != nil {
		writeDomainError(w, "Failed to mark rental returned", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(rental.StatusReturned)})
}

// UpdateRentalPaymentStatus toggles the portfolio-level payment status.
func (h *Handler) UpdateRentalPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id", err)
		return
	}

	var req UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	status := rental.PaymentStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status (use paid or unpaid)", rental.ErrInvalidStatus)
		return
	}

	if err := h.Store.UpdateRentalPaymentStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, "Failed to update payment status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"payment_status": string(status)})
}

// ListRentalPayments returns the obligation schedule for a rental.
func (h *Handler) ListRentalPayments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id", err)
		return
	}

	if _, err := h.Store.GetRental(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to get rental", err)
		return
	}
	obligations, err := h.Store.ListObligations(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]ObligationDTO, len(obligations))
	for i, ob := range obligations {
		dtos[i] = toObligationDTO(ob)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRentalSummary returns the rental's financial summary.
func (h *Handler) GetRentalSummary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id", err)
		return
	}

	summary, err := h.Reports.RentalSummary(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetRentalIncome returns paid vs expected obligation sums for a rental.
func (h *Handler) GetRentalIncome(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id", err)
		return
	}

	paid, expected, err := h.Reports.RentalIncome(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to compute income", err)
		return
	}
	writeJSON(w, http.StatusOK, RentalIncomeDTO{
		Paid:     paid.String(),
		Expected: expected.String(),
	})
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListUnpaidPayments returns unpaid obligations across active rentals.
func (h *Handler) ListUnpaidPayments(w http.ResponseWriter, r *http.Request) {
	details, err := h.Store.ListUnpaidObligations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list unpaid payments", err)
		return
	}

	dtos := make([]ObligationDTO, len(details))
	for i, d := range details {
		dtos[i] = toObligationDetailDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdatePaymentStatus toggles a single obligation's paid/unpaid status.
func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment id", err)
		return
	}

	var req UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	status := rental.PaymentStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status (use paid or unpaid)", rental.ErrInvalidStatus)
		return
	}

	if err := h.Store.UpdateObligationStatus(r.Context(), id, status, req.Note); err != nil {
		writeDomainError(w, "Failed to update payment status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetTenantTotals returns per-renter aggregate totals.
func (h *Handler) GetTenantTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Reports.TenantTotals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute tenant totals", err)
		return
	}

	dtos := make([]TenantTotalsDTO, len(totals))
	for i, t := range totals {
		dtos[i] = toTenantTotalsDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUnpaidTotal returns the portfolio-wide unpaid total.
func (h *Handler) GetUnpaidTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.Reports.TotalUnpaidAmount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute unpaid total", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"total_unpaid": total.String()})
}

// GetDashboard returns dashboard counts and total income.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.DashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute dashboard stats", err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardDTO{
		TotalProducts:     stats.TotalProducts,
		TotalRenters:      stats.TotalRenters,
		ActiveRentals:     stats.ActiveRentals,
		PaidRentals:       stats.PaidRentals,
		UnpaidRentals:     stats.UnpaidRentals,
		UnpaidObligations: stats.UnpaidObligations,
		TotalIncome:       stats.TotalIncome.String(),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
