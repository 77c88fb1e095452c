/*
handlers_test.go - HTTP-level tests for the API

Exercises the full stack (router -> handlers -> engine -> SQLite store)
through httptest, covering the create-rental flow, status toggles, and
the report endpoints.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rental-engine/api"
	"github.com/warp/rental-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store)
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func doJSONList(t *testing.T, url string) (*http.Response, []map[string]any) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

// seedRental creates a product, renter, and rental; returns the rental ID.
func seedRental(t *testing.T, srv *httptest.Server, endDate string) float64 {
	resp, product := doJSON(t, http.MethodPost, srv.URL+"/api/products", map[string]any{
		"name": "Hospital Bed", "type": "bed", "rental_price": "150.000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, renter := doJSON(t, http.MethodPost, srv.URL+"/api/renters", map[string]any{
		"full_name": "Fatima Al-Sabah", "phone": "555-0100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := map[string]any{
		"product_id": product["id"],
		"renter_id":  renter["id"],
		"cadence":    "monthly",
		"unit_price": "150.000",
		"start_date": "2026-01-01",
	}
	if endDate != "" {
		body["end_date"] = endDate
	}
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/rentals", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return created["id"].(float64)
}

// =============================================================================
// RENTAL LIFECYCLE
// =============================================================================

func TestCreateRental_ReturnsDetailsAndSchedule(t *testing.T) {
	srv := newTestServer(t)
	id := seedRental(t, srv, "2026-12-31")

	resp, payments := doJSONList(t, fmt.Sprintf("%s/api/rentals/%.0f/payments", srv.URL, id))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, payments, 12)
	assert.Equal(t, "2026-01", payments[0]["period_label"])
	assert.Equal(t, "150.000", payments[0]["amount"])
	assert.Equal(t, "unpaid", payments[0]["status"])

	resp, rentalBody := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/rentals/%.0f", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hospital Bed", rentalBody["product_name"])
	assert.Equal(t, "Fatima Al-Sabah", rentalBody["renter_name"])
	assert.Equal(t, "active", rentalBody["status"])
	assert.Equal(t, "unpaid", rentalBody["payment_status"])
}

func TestCreateRental_Validation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad cadence", map[string]any{"cadence": "weekly", "unit_price": "1.000", "start_date": "2026-01-01"}},
		{"bad price", map[string]any{"cadence": "monthly", "unit_price": "-5", "start_date": "2026-01-01"}},
		{"bad start date", map[string]any{"cadence": "monthly", "unit_price": "1.000", "start_date": "01/01/2026"}},
		{"end before start", map[string]any{"cadence": "monthly", "unit_price": "1.000", "start_date": "2026-02-01", "end_date": "2026-01-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/rentals", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateRental_UnknownReferences(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/rentals", map[string]any{
		"product_id": 999, "renter_id": 999,
		"cadence": "monthly", "unit_price": "1.000", "start_date": "2026-01-01",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteRental_RemovesSchedule(t *testing.T) {
	srv := newTestServer(t)
	id := seedRental(t, srv, "2026-06-30")

	resp, _ := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/rentals/%.0f", srv.URL, id), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/rentals/%.0f", srv.URL, id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// STATUS TOGGLES AND SUMMARY
// =============================================================================

func TestRentalSummary_ReflectsPaymentStatusToggle(t *testing.T) {
	srv := newTestServer(t)
	id := seedRental(t, srv, "2026-12-31")

	resp, summary := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/rentals/%.0f/summary", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1800.000", summary["total_to_pay"])
	assert.Equal(t, "0.000", summary["total_received"])
	assert.Equal(t, "1800.000", summary["still_owed"])

	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/rentals/%.0f/payment-status", srv.URL, id),
		map[string]any{"status": "paid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, summary = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/rentals/%.0f/summary", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1800.000", summary["total_received"])
	assert.Equal(t, "0.000", summary["still_owed"])
}

func TestPaymentStatusToggle_AndUnpaidList(t *testing.T) {
	srv := newTestServer(t)
	id := seedRental(t, srv, "2026-03-31")

	resp, unpaid := doJSONList(t, srv.URL+"/api/payments/unpaid")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, unpaid, 3)

	paymentID := unpaid[0]["id"].(float64)
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/payments/%.0f/status", srv.URL, paymentID),
		map[string]any{"status": "paid", "note": "cash"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, unpaid = doJSONList(t, srv.URL+"/api/payments/unpaid")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, unpaid, 2)

	resp, income := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/rentals/%.0f/income", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "150.000", income["paid"])
	assert.Equal(t, "450.000", income["expected"])
}

func TestReturnRental_ExcludedFromActiveList(t *testing.T) {
	srv := newTestServer(t)
	id := seedRental(t, srv, "2026-06-30")

	resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/rentals/%.0f/return", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, active := doJSONList(t, srv.URL+"/api/rentals?active=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, active)

	resp, all := doJSONList(t, srv.URL+"/api/rentals")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, all, 1)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestReports_TenantTotalsAndDashboard(t *testing.T) {
	srv := newTestServer(t)
	seedRental(t, srv, "2026-12-31") // unpaid active, owed 1800.000

	resp, tenants := doJSONList(t, srv.URL+"/api/reports/tenants")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, tenants, 1)
	assert.Equal(t, "Fatima Al-Sabah", tenants[0]["renter_name"])
	assert.Equal(t, "1800.000", tenants[0]["total_owed"])
	assert.Equal(t, "0.000", tenants[0]["total_received"])

	resp, total := doJSON(t, http.MethodGet, srv.URL+"/api/reports/unpaid-total", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1800.000", total["total_unpaid"])

	resp, dash := doJSON(t, http.MethodGet, srv.URL+"/api/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), dash["active_rentals"])
	assert.Equal(t, float64(1), dash["unpaid_rentals"])
	assert.Equal(t, "0.000", dash["total_income"])
}

func TestReports_EmptyPortfolio(t *testing.T) {
	srv := newTestServer(t)

	resp, total := doJSON(t, http.MethodGet, srv.URL+"/api/reports/unpaid-total", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0.000", total["total_unpaid"])
}
