package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(router *gin.Engine, url string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", url, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	router.ServeHTTP(w, req)
	return w
}

func TestGetAccountingReport(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/api/v1/reports/accounting/cs_a")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ReportID string         `json:"report_id"`
		Report   map[string]any `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ReportID)
	assert.Equal(t, "106.00", resp.Report["gross_amount"])
	assert.Equal(t, "100.00", resp.Report["base_price"])
	assert.Equal(t, "6.00", resp.Report["service_fee"])
	assert.Equal(t, "19.00", resp.Report["seller_commission"])
	assert.Equal(t, "81.00", resp.Report["seller_earnings"])
	assert.Equal(t, "25.00", resp.Report["total_to_platform"])
	assert.Equal(t, "20.00", resp.Report["platform_income_excl_vat"])
	assert.Equal(t, "5.00", resp.Report["platform_vat_amount"])
	assert.Equal(t, "10.71", resp.Report["vat_amount"])
	assert.Equal(t, "pi_cs_a", resp.Report["payment_intent_id"])
	assert.Equal(t, "2024-01", resp.Report["rate_version"])
}

func TestGetAccountingReport_HTML(t *testing.T) {
	router := setupRouter(t)

	for _, w := range []*httptest.ResponseRecorder{
		get(router, "/api/v1/reports/accounting/cs_a?format=html"),
		get(router, "/api/v1/reports/accounting/cs_a", "Accept", "text/html,application/xhtml+xml"),
	} {
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "19.00")
	}
}

func TestGetAccountingReport_Errors(t *testing.T) {
	router := setupRouter(t)

	cases := []struct {
		session string
		code    int
		error   string
	}{
		{"cs_missing", http.StatusNotFound, "resource not found"},
		{"cs_unpaid", http.StatusConflict, "transaction is not paid"},
		{"cs_xyz", http.StatusUnprocessableEntity, "transaction cannot be decomposed"},
	}

	for _, tc := range cases {
		t.Run(tc.session, func(t *testing.T) {
			w := get(router, "/api/v1/reports/accounting/"+tc.session)
			assert.Equal(t, tc.code, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.error, resp["error"])
		})
	}
}

func TestGetReceipt_ShowsOnlyCustomerFigures(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/api/v1/receipts/cs_a")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Receipt map[string]any `json:"receipt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "106.00", resp.Receipt["gross_amount"])
	assert.Equal(t, "100.00", resp.Receipt["base_price"])
	assert.Equal(t, "6.00", resp.Receipt["service_fee"])

	body := w.Body.String()
	for _, hidden := range []string{`"19.00"`, `"25.00"`, `"81.00"`, `"10.71"`, `"5.00"`, "vat", "commission", "earnings", "platform"} {
		assert.NotContains(t, body, hidden)
	}
}

func TestGetReceipt_HTML(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/api/v1/receipts/cs_a?format=html")
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	assert.Contains(t, page, "106.00 SEK")
	assert.Contains(t, page, "100.00 SEK")
	assert.Contains(t, page, "6.00 SEK")
	assert.NotContains(t, page, "19.00")
	assert.NotContains(t, page, "25.00")
	assert.NotContains(t, strings.ToLower(page), "vat")
}

func TestGetReceipt_GenericErrors(t *testing.T) {
	router := setupRouter(t)

	cases := []struct {
		session string
		code    int
		error   string
	}{
		{"cs_missing", http.StatusNotFound, "receipt not found"},
		{"cs_unpaid", http.StatusConflict, "could not generate receipt"},
		{"cs_xyz", http.StatusUnprocessableEntity, "could not generate receipt"},
	}

	for _, tc := range cases {
		t.Run(tc.session, func(t *testing.T) {
			w := get(router, "/api/v1/receipts/"+tc.session)
			assert.Equal(t, tc.code, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.error, resp["error"])
			assert.Empty(t, resp["details"])
		})
	}
}

func TestGetAccountingPeriod(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/api/v1/reports/accounting?date_from=2026-01-01&date_to=2026-02-01&page_size=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Period struct {
			Totals  []map[string]any `json:"totals"`
			Entries []map[string]any `json:"entries"`
		} `json:"period"`
		Pagination map[string]int `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Period.Totals, 1)
	assert.Equal(t, "SEK", resp.Period.Totals[0]["currency"])
	assert.Equal(t, "1106.00", resp.Period.Totals[0]["gross_amount"])
	assert.Equal(t, "198.25", resp.Period.Totals[0]["seller_commission"])

	require.Len(t, resp.Period.Entries, 1)
	assert.Equal(t, "cs_a", resp.Period.Entries[0]["session_id"])
	assert.Equal(t, 2, resp.Pagination["total_items"])
	assert.Equal(t, 2, resp.Pagination["total_pages"])
}

func TestGetAccountingPeriod_HugePage(t *testing.T) {
	router := setupRouter(t)

	var w *httptest.ResponseRecorder
	require.NotPanics(t, func() {
		w = get(router, "/api/v1/reports/accounting?date_from=2026-01-01&date_to=2026-02-01&page=92233720368547760&page_size=100")
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Period struct {
			Entries []map[string]any `json:"entries"`
		} `json:"period"`
		Pagination map[string]int `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Period.Entries)
	assert.Equal(t, 2, resp.Pagination["total_items"])
}

func TestGetAccountingPeriod_BadQuery(t *testing.T) {
	router := setupRouter(t)

	cases := []struct {
		name  string
		query string
		error string
	}{
		{"missing dates", "", "date_from and date_to are required"},
		{"missing date_to", "?date_from=2026-01-01", "date_from and date_to are required"},
		{"bad date_from", "?date_from=01/01/2026&date_to=2026-02-01", "invalid date_from format"},
		{"bad date_to", "?date_from=2026-01-01&date_to=tomorrow", "invalid date_to format"},
		{"reversed range", "?date_from=2026-02-01&date_to=2026-01-01", "date_from must be before date_to"},
		{"empty range", "?date_from=2026-01-01&date_to=2026-01-01", "date_from must be before date_to"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(router, "/api/v1/reports/accounting"+tc.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.error, resp["error"])
		})
	}
}

func TestListRates(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/api/v1/rates")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2024-01", resp.Data[0]["version"])
	assert.Equal(t, "0.06", resp.Data[0]["service_fee_rate"])
	assert.Equal(t, "0.12", resp.Data[0]["food_vat_rate"])
	assert.Equal(t, "0.19", resp.Data[0]["platform_commission_rate"])
	assert.Equal(t, "0.25", resp.Data[0]["platform_services_vat_rate"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t)

	require.Equal(t, http.StatusOK, get(router, "/api/v1/reports/accounting/cs_a").Code)

	w := get(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `commission_decompositions_total{currency="SEK"} 1`)
	assert.Contains(t, w.Body.String(), "commission_report_generation_duration_seconds")
}
