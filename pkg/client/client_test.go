package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/", Token: "token-1", RetryWait: time.Millisecond})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestLoginStoresAccessToken(t *testing.T) {
	var authHeader atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ops@hf.test", body["email"])
			writeJSON(w, http.StatusOK, `{"data":{"access_token":"fresh","refresh_token":"r1","user":{"email":"ops@hf.test","role":"operator"}}}`)
		case "/api/auth/me":
			authHeader.Store(r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"data":{"email":"ops@hf.test","role":"operator","is_active":true}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	resp, err := c.Login(context.Background(), "ops@hf.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.RefreshToken)
	assert.Equal(t, "fresh", c.Token())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleOperator, me.Role)
	assert.Equal(t, "Bearer fresh", authHeader.Load())
}

func TestRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, `{"error":{"code":"DEPENDENCY_ERROR","message":"db down"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data":[{"id":"`+uuid.NewString()+`","customer_name":"Norte","number_of_cells":5,"delivery_date":"2026-06-01","larvae_transfer_date":"2026-05-20","status":"pending"}]}`)
	})

	rows, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-06-01", rows[0].DeliveryDate.String())
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestDoesNotRetryWrites(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/stock/sell", r.URL.Path)
		writeJSON(w, http.StatusServiceUnavailable, `{"error":{"code":"DEPENDENCY_ERROR","message":"dependency unavailable"}}`)
	})

	_, err := c.SellStock(context.Background(), SellRequest{PackageID: uuid.NewString(), CustomerName: "Norte", CellsToSell: 2})
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDoesNotRetryUnauthorized(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusUnauthorized, `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`)
	})

	_, err := c.DashboardStats(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "token expired", apiErr.Message)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetOrderMissingReturnsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"order not found"}}`)
	})

	order, err := c.GetOrder(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestValidationDetailsAreDecoded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/stock/sell", r.URL.Path)
		writeJSON(w, http.StatusBadRequest, `{"error":{"code":"VALIDATION_ERROR","message":"validation failed","details":{"cells_to_sell":"must be at least 1"}}}`)
	})

	_, err := c.SellStock(context.Background(), SellRequest{PackageID: uuid.NewString(), CustomerName: "Sur"})
	require.Error(t, err)
	apiErr := err.(*APIError)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	details, ok := apiErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "must be at least 1", details["cells_to_sell"])
}

func TestUpdateOrderStatusSendsBody(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/orders/"+id.String()+"/status", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ready", body["status"])
		writeJSON(w, http.StatusOK, `{"data":{"id":"`+id.String()+`","status":"ready","next_status":"delivered"}}`)
	})

	order, err := c.UpdateOrderStatus(context.Background(), id, enums.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusReady, order.Status)
	require.NotNil(t, order.NextStatus)
	assert.Equal(t, enums.OrderStatusDelivered, *order.NextStatus)
}

func TestExportReturnsRawBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/exports/productions", r.URL.Path)
		assert.Equal(t, "pdf", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="production-records-2026-05-10.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.3 fake")
	})

	file, err := c.ExportProductions(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "production-records-2026-05-10.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "%PDF-1.3 fake", string(file.Body))
}

func TestHistoryQuery(t *testing.T) {
	assert.Equal(t, "", historyQuery("", "", 0))
	assert.Equal(t, "?cursor=abc&limit=10&q=miel+sur", historyQuery("miel sur", "abc", 10))
}
