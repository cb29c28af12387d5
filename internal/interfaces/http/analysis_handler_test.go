package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cashflow-api/internal/application/auth"
	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/application/usecase"
	"github.com/jhoicas/cashflow-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/cashflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/cashflow-api/internal/infrastructure/pdf"
)

const (
	testAdminEmail    = "admin@negocio.test"
	testAdminPassword = "clave-super-segura"
)

// newTestServer monta la API completa sobre el store en memoria, sin proveedor
// de IA, y devuelve la app junto con un token de admin válido.
func newTestServer(t *testing.T) (*fiber.App, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewDatasetStore()
	authUC := auth.NewAuthUseCase(
		auth.AdminConfig{Email: testAdminEmail, PasswordHash: string(hash)},
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
	)
	datasetUC := usecase.NewDatasetUseCase(store, csvimport.NewParser())
	analysisUC := usecase.NewAnalysisUseCase(store, nil, decimal.NewFromInt(500))

	app := fiber.New()
	Router(app, RouterDeps{
		AuthUC:     authUC,
		DatasetUC:  datasetUC,
		AnalysisUC: analysisUC,
		PDF:        pdf.NewMarotoReportGenerator(),
		JWTSecret:  testJWTSecret,
	})
	return app, tokenForRole(t, "admin")
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

// uploadDataset sube un dataset chico por multipart: dos ventas el mismo día y
// un refund.
func uploadDataset(t *testing.T, app *fiber.App, token string) {
	t.Helper()

	transactionsCSV := strings.Join([]string{
		"date,transaction_id,product_id,product_name,quantity,gross_sales,discount,net_sales,payment_type,cogs,gross_profit",
		"2024-03-01,t-1,p-1,Café en grano,5,50.00,0,50.00,card,4.00,30.00",
		"2024-03-05,t-2,p-2,Filtros,2,8.00,0,8.00,cash,1.00,6.00",
	}, "\n")
	refundsCSV := strings.Join([]string{
		"original_transaction_id,refund_date,refund_amount",
		"t-1,2024-03-06,3.00",
	}, "\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range map[string]string{
		"transactions": transactionsCSV,
		"refunds":      refundsCSV,
	} {
		part, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestLogin_CredencialesValidas(t *testing.T) {
	app, _ := newTestServer(t)
	resp, body := jsonRequest(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, testExpMin*60, login.ExpiresIn)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	app, _ := newTestServer(t)
	resp, body := jsonRequest(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: testAdminEmail, Password: "otra-clave"})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "UNAUTHORIZED", errResp.Code)
}

func TestSnapshot_SinDataset(t *testing.T) {
	app, token := newTestServer(t)
	resp, body := jsonRequest(t, app, http.MethodGet, "/api/analysis/snapshot", token, nil)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "NO_DATASET", errResp.Code)
}

func TestSnapshot_ConDataset(t *testing.T) {
	app, token := newTestServer(t)
	uploadDataset(t, app, token)

	resp, body := jsonRequest(t, app, http.MethodGet, "/api/analysis/snapshot", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap dto.SnapshotDTO
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, 2, snap.TotalTransactions)
	assert.Equal(t, int64(7), snap.ItemsSold)
	assert.Equal(t, "2024-03-01", snap.PeriodStart)
	assert.Equal(t, "2024-03-05", snap.PeriodEnd)
	assert.True(t, snap.GrossSales.Equal(decimal.NewFromInt(58)), "gross_sales = %s", snap.GrossSales)
	assert.True(t, snap.Refunds.Equal(decimal.NewFromInt(3)), "refunds = %s", snap.Refunds)
}

func TestDatasetStatus_VacioYLuegoCargado(t *testing.T) {
	app, token := newTestServer(t)

	resp, body := jsonRequest(t, app, http.MethodGet, "/api/datasets", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var status dto.DatasetStatusResponse
	require.NoError(t, json.Unmarshal(body, &status))
	assert.False(t, status.Loaded)

	uploadDataset(t, app, token)

	_, body = jsonRequest(t, app, http.MethodGet, "/api/datasets", token, nil)
	require.NoError(t, json.Unmarshal(body, &status))
	assert.True(t, status.Loaded)
	assert.Equal(t, 2, status.Transactions)
	assert.Equal(t, 1, status.Refunds)
	assert.Equal(t, "2024-03-01", status.PeriodStart)
}

func TestDatasetReset(t *testing.T) {
	app, token := newTestServer(t)
	uploadDataset(t, app, token)

	resp, _ := jsonRequest(t, app, http.MethodDelete, "/api/datasets", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = jsonRequest(t, app, http.MethodGet, "/api/analysis/snapshot", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpload_SinTransacciones(t *testing.T) {
	app, token := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReorder_PresupuestoInvalido(t *testing.T) {
	app, token := newTestServer(t)
	uploadDataset(t, app, token)

	resp, body := jsonRequest(t, app, http.MethodGet, "/api/analysis/reorder?budget=abc", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestReorder_PresupuestoCero(t *testing.T) {
	app, token := newTestServer(t)
	uploadDataset(t, app, token)

	resp, body := jsonRequest(t, app, http.MethodGet, "/api/analysis/reorder?budget=0", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var plan dto.ReorderPlanDTO
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Empty(t, plan.Items)
	assert.True(t, plan.TotalSpend.IsZero())
}

func TestRunAnalysis_TipoDesconocido(t *testing.T) {
	app, token := newTestServer(t)
	uploadDataset(t, app, token)

	resp, body := jsonRequest(t, app, http.MethodPost, "/api/analysis", token,
		dto.AnalysisRequest{AnalysisType: "pareto"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestRunAnalysis_FullSinProveedorIA(t *testing.T) {
	app, token := newTestServer(t)
	uploadDataset(t, app, token)

	resp, body := jsonRequest(t, app, http.MethodPost, "/api/analysis", token,
		dto.AnalysisRequest{AnalysisType: dto.AnalysisFull, IncludeInsight: true})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result dto.AnalysisResultDTO
	require.NoError(t, json.Unmarshal(body, &result))
	require.NotNil(t, result.Snapshot)
	require.NotNil(t, result.CashEaters)
	require.NotNil(t, result.ReorderPlan)
	require.NotNil(t, result.Clearance)
	assert.Empty(t, result.Insight)
	assert.NotEmpty(t, result.InsightError)
}

func TestReportPDF_Descarga(t *testing.T) {
	app, token := newTestServer(t)
	uploadDataset(t, app, token)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/report.pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "el cuerpo debe ser un PDF")
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	app, _ := newTestServer(t)
	resp, _ := jsonRequest(t, app, http.MethodGet, "/api/analysis/snapshot", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
