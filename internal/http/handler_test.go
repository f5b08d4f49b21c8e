package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/amc-manager/internal/config"
	"github.com/nurpe/amc-manager/internal/email"
	"github.com/nurpe/amc-manager/internal/excel"
	"github.com/nurpe/amc-manager/internal/http/middleware"
	"github.com/nurpe/amc-manager/internal/metrics"
	"github.com/nurpe/amc-manager/internal/model"
	"github.com/nurpe/amc-manager/internal/pdf"
	"github.com/nurpe/amc-manager/internal/repository"
	"github.com/nurpe/amc-manager/internal/service"
	"github.com/nurpe/amc-manager/internal/store"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	m := metrics.New()
	repo := repository.NewAMCRepository(
		context.Background(),
		store.NewMemoryStore(),
		repository.NewClockIDs(func() time.Time { return testNow }),
		repository.Defaults{Customers: model.SeedCustomers(), Contracts: model.SeedContracts(testNow)},
		zerolog.Nop(),
	)
	cfg := &config.Config{Invoice: config.InvoiceConfig{CompanyName: "AMC Pro Inc.", TaxRate: 10}}
	drafter := email.NewDrafter(nil, time.Second, m, zerolog.Nop())
	svc := service.NewAMCService(repo, pdf.NewGenerator(), excel.NewGenerator(), drafter, cfg)

	handler := NewHandler(svc, zerolog.Nop())
	handler.now = func() time.Time { return testNow }
	return NewRouter(handler, m, []string{"*"}, "development")
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthzSetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestDashboard(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report model.DashboardReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 4, report.Stats.TotalContracts)
	assert.Equal(t, 4, report.Stats.TotalCustomers)
	require.Len(t, report.Overdue, 2)
	assert.Equal(t, "C1", report.Overdue[0].ContractID)
	assert.Equal(t, "$5,000", report.Overdue[0].AMCAmount)
	assert.Empty(t, report.Upcoming)
}

func TestDashboardNowOverride(t *testing.T) {
	router := newTestRouter(t)

	// Three weeks earlier neither C1 nor C4 has lapsed and both renew soon.
	rec := do(t, router, http.MethodGet, "/dashboard?now=2025-05-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report model.DashboardReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Upcoming, 2)
	assert.Equal(t, "C1", report.Upcoming[0].ContractID)
	assert.Equal(t, "C4", report.Upcoming[1].ContractID)
	assert.Empty(t, report.Overdue)

	rec = do(t, router, http.MethodGet, "/dashboard?now=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/customers", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/customers", map[string]string{"name": "Acme", "number": "555-0199"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.ID, repository.CustomerIDPrefix))
	assert.Equal(t, model.CustomerStatusActive, created.Status)
	assert.Equal(t, "555-0199", created.Phone)

	rec = do(t, router, http.MethodGet, "/customers/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/customers/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPut, "/customers/CUST1", map[string]string{"name": "Innovate Corporation"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Innovate Corporation", updated.Name)
	assert.Equal(t, model.CustomerStatusActive, updated.Status)

	rec = do(t, router, http.MethodPut, "/customers/CUST1/status", map[string]string{"status": "Blocked"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, model.CustomerStatusBlocked, updated.Status)

	rec = do(t, router, http.MethodPut, "/customers/CUST1/status", map[string]string{"status": "Gone"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []model.Customer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 5)
}

func TestCreateContract(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{
			name: "created",
			body: map[string]interface{}{"customerId": "CUST2", "dealClosedDate": "2025-06-01", "dealAmount": 1000, "amcAmount": 100, "durationInMonths": 13},
			code: http.StatusCreated,
		},
		{
			name: "unknown customer",
			body: map[string]interface{}{"customerId": "CUST9", "dealClosedDate": "2025-06-01", "dealAmount": 1000, "amcAmount": 100, "durationInMonths": 12},
			code: http.StatusBadRequest,
		},
		{
			name: "unsupported duration",
			body: map[string]interface{}{"customerId": "CUST2", "dealClosedDate": "2025-06-01", "dealAmount": 1000, "amcAmount": 100, "durationInMonths": 24},
			code: http.StatusBadRequest,
		},
		{
			name: "bad date",
			body: map[string]interface{}{"customerId": "CUST2", "dealClosedDate": "June 1st", "dealAmount": 1000, "amcAmount": 100, "durationInMonths": 12},
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/contracts", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, router, http.MethodPost, "/contracts", tests[0].body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var contract model.Contract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contract))
	assert.Equal(t, model.PaymentStatusPaid, contract.PaymentStatus)
	assert.Equal(t, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), contract.RenewalDate)
}

func TestUpdateAndMarkPaid(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/contracts/C1/mark-paid", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Paid does not survive a renewal date that has already arrived.
	rec = do(t, router, http.MethodGet, "/contracts/C1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var row model.ContractRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, model.PaymentStatusPaid, row.Contract.PaymentStatus)
	assert.Equal(t, model.PaymentStatusPending, row.EffectiveStatus)
	assert.Equal(t, "Innovate Corp", row.CustomerName)

	rec = do(t, router, http.MethodPut, "/contracts/C1", map[string]interface{}{
		"customerId":       "CUST1",
		"dealClosedDate":   "2024-06-01",
		"dealAmount":       50000,
		"amcAmount":        5500,
		"durationInMonths": 12,
		"paymentStatus":    "Paid",
		"renewalDate":      "2026-06-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/contracts/C1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, model.PaymentStatusPaid, row.EffectiveStatus)
	assert.Equal(t, "5500", row.Contract.AMCAmount.String())

	rec = do(t, router, http.MethodPut, "/contracts/C1", map[string]interface{}{
		"customerId":       "CUST1",
		"dealClosedDate":   "2024-06-01",
		"durationInMonths": 12,
		"paymentStatus":    "Settled",
		"renewalDate":      "2026-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/contracts/C99/mark-paid", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListContracts(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/contracts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []model.ContractRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 4)

	statuses := map[string]model.PaymentStatus{}
	for _, row := range list.Data {
		statuses[row.Contract.ID] = row.EffectiveStatus
	}
	assert.Equal(t, model.PaymentStatusPending, statuses["C1"])
	assert.Equal(t, model.PaymentStatusOverdue, statuses["C2"])
	assert.Equal(t, model.PaymentStatusPaid, statuses["C3"])
	assert.Equal(t, model.PaymentStatusOverdue, statuses["C4"])
}

func TestDownloads(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/contracts/C1/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypePDF, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "invoice-C1-2025.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = do(t, router, http.MethodGet, "/contracts/C42/invoice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/dashboard/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "amc-dashboard-20250601.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestReminderEmailAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/contracts/C1/reminder-email", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var draft email.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	assert.Equal(t, email.SourceTemplate, draft.Source)
	assert.Contains(t, draft.Body, "Innovate Corp")
	assert.True(t, strings.HasPrefix(draft.Text, "Subject: "))

	rec = do(t, router, http.MethodPost, "/contracts/C0/reminder-email", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `amc_email_drafts_total{source="template"} 1`)
	assert.Contains(t, body, `route="/contracts/:id/reminder-email"`)
}
