package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
	"github.com/jhoicas/posadmin-api/internal/application/dto"
	"github.com/jhoicas/posadmin-api/internal/domain/invoicing"
	"github.com/jhoicas/posadmin-api/internal/infrastructure/export"
	"github.com/jhoicas/posadmin-api/internal/infrastructure/memory"
	"github.com/jhoicas/posadmin-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/posadmin-api/internal/interfaces/http"
	"github.com/jhoicas/posadmin-api/pkg/logger"
	"github.com/jhoicas/posadmin-api/pkg/money"
)

// newAPI arma la API completa sobre el store en memoria con catálogo de demo.
func newAPI() *fiber.App {
	store := memory.NewSeededStore()
	presenter := billing.NewPresenter(money.NewFormatter(money.InvoiceOptions()), invoicing.DefaultVATRate)
	invoiceUC := billing.NewInvoiceUseCase(store, store, store, presenter, logger.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		InvoiceUC: invoiceUC,
		ExportUC: billing.NewExportUseCase(invoiceUC, pdf.NewMarotoInvoiceRenderer(pdf.Issuer{Name: "POS Admin"}),
			export.CSVExporter{}, export.XLSXExporter{}),
		CatalogUC: billing.NewCatalogUseCase(store),
		ReportUC:  billing.NewReportUseCase(store, presenter, money.NewFormatter(money.ReportOptions())),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func demoInvoice() map[string]any {
	return map[string]any{
		"owner_id":      "owner-demo",
		"devices":       []map[string]any{{"device_id": "dev-epson-t20", "quantity": 1}},
		"subscriptions": []map[string]any{{"package_id": "pkg-annual", "quantity": 1, "price": "0"}},
		"discount":      10000,
		"vat_inclusive": true,
	}
}

func TestInvoiceFlow_PreviewCreateDetailExport(t *testing.T) {
	app := newAPI()

	preview := decode[billing.Presentation](t, call(t, app, http.MethodPost, "/api/invoices/preview", apphttp.RoleStaff, demoInvoice()))
	// 118,000 + 250,000 = 368,000; IVA extraído 56,135.59; total 358,000
	assert.Equal(t, "TZS 368,000.00", preview.Totals.Subtotal)
	assert.Equal(t, "TZS 56,135.59", preview.Totals.Tax)
	assert.Equal(t, "TZS 358,000.00", preview.Totals.Total)
	assert.True(t, preview.Totals.ShowTax)

	resp := call(t, app, http.MethodPost, "/api/invoices", apphttp.RoleStaff, demoInvoice())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CreateInvoiceResponse](t, resp)
	assert.Regexp(t, `^INV-\d{6}$`, created.InvoiceNumber)
	assert.Equal(t, "/invoices/"+created.ID, created.RedirectTo)

	resp = call(t, app, http.MethodGet, "/api/invoices/"+created.ID, apphttp.RoleStaff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[apphttp.InvoiceDetailResponse](t, resp)
	assert.Equal(t, created.ID, detail.ID)
	assert.Equal(t, preview.Totals, detail.Totals)
	assert.Equal(t, preview.Rows, detail.Rows)

	resp = call(t, app, http.MethodGet, "/api/invoices/"+created.ID+"/export.csv", apphttp.RoleStaff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_"+created.InvoiceNumber+".csv")
	csvBody, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(csvBody), "TZS 358,000.00")

	resp = call(t, app, http.MethodGet, "/api/invoices/"+created.ID+"/pdf", apphttp.RoleStaff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pdfBody, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdfBody, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, "/api/invoices/"+created.ID+"/export.docx", apphttp.RoleStaff, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	list := decode[dto.InvoiceListResponse](t, call(t, app, http.MethodGet, "/api/invoices?status=draft", apphttp.RoleStaff, nil))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "TZS 358,000.00", list.Items[0].Total)
}

func TestInvoiceStatus_AdminOnlyAndTerminalCancel(t *testing.T) {
	app := newAPI()
	created := decode[dto.CreateInvoiceResponse](t, call(t, app, http.MethodPost, "/api/invoices", apphttp.RoleStaff, demoInvoice()))
	path := "/api/invoices/" + created.ID + "/status"

	resp := call(t, app, http.MethodPatch, path, apphttp.RoleStaff, map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, path, apphttp.RoleAdmin, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, path, apphttp.RoleAdmin, map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "CONFLICT", body.Code)
}

func TestInvoiceErrors(t *testing.T) {
	app := newAPI()

	req := demoInvoice()
	req["discount"] = -5
	resp := call(t, app, http.MethodPost, "/api/invoices", apphttp.RoleStaff, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Contains(t, body.Details, "discount")

	resp = call(t, app, http.MethodGet, "/api/invoices/does-not-exist", apphttp.RoleStaff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	raw := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader("{not json"))
	raw.Header.Set("Content-Type", "application/json")
	raw.Header.Set("Authorization", tokenForRole(t, apphttp.RoleStaff))
	resp, err := app.Test(raw, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/invoices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalogAndReportRoutes(t *testing.T) {
	app := newAPI()

	devices := decode[map[string][]dto.CatalogEntry](t, call(t, app, http.MethodGet, "/api/catalog/devices?q=sunmi", apphttp.RoleStaff, nil))
	require.Len(t, devices["items"], 1)
	assert.Equal(t, "Sunmi V2s", devices["items"][0].DisplayName)

	owners := decode[map[string][]dto.CatalogEntry](t, call(t, app, http.MethodGet, "/api/catalog/owners?q=asha", apphttp.RoleStaff, nil))
	require.Len(t, owners["items"], 1)
	assert.Equal(t, "Asha Mwita (Duka Bora)", owners["items"][0].DisplayName)

	resp := call(t, app, http.MethodGet, "/api/reports/invoices", apphttp.RoleStaff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_ = decode[dto.CreateInvoiceResponse](t, call(t, app, http.MethodPost, "/api/invoices", apphttp.RoleStaff, demoInvoice()))
	report := decode[dto.InvoiceReportResponse](t, call(t, app, http.MethodGet, "/api/reports/invoices", apphttp.RoleAdmin, nil))
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, "TZS 358,000", report.GrandTotal)
	assert.Equal(t, "TZS 56,136", report.Tax)
}

func TestHealthAndRequestID(t *testing.T) {
	app := newAPI()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}
