package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	internalstock "github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	available []models.StockPackage
	all       []models.StockPackage
	sellErr   error
	lastSell  internalstock.SellInput
}

func (s *stubService) ListAvailable(context.Context) ([]models.StockPackage, error) {
	return s.available, nil
}

func (s *stubService) ListAll(context.Context) ([]models.StockPackage, error) {
	return s.all, nil
}

func (s *stubService) Sell(_ context.Context, input internalstock.SellInput) (*models.StockPackage, *models.StockSale, error) {
	s.lastSell = input
	if s.sellErr != nil {
		return nil, nil, s.sellErr
	}
	pkg := testPackage(10 - input.CellsToSell)
	sale := &models.StockSale{
		ID:           uuid.New(),
		PackageID:    pkg.ID,
		CustomerName: input.CustomerName,
		CellsSold:    input.CellsToSell,
		SaleDate:     time.Now(),
	}
	return &pkg, sale, nil
}

func (s *stubService) SweepExpired(context.Context, time.Time) (int, error) { return 0, nil }

func (s *stubService) Expiring(context.Context, time.Time, int) ([]models.StockPackage, error) {
	return nil, nil
}

func (s *stubService) AvailableCells(context.Context) (int, error) { return 0, nil }

func testPackage(available int) models.StockPackage {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return models.StockPackage{
		ID:             uuid.New(),
		ProductionID:   uuid.New(),
		TotalCells:     10,
		AvailableCells: available,
		SoldCells:      10 - available,
		ProductionDate: today,
		ExpirationDate: today.AddDate(0, 0, 10),
	}
}

func TestAvailableAndAll(t *testing.T) {
	open := testPackage(10)
	svc := &stubService{
		available: []models.StockPackage{open},
		all:       []models.StockPackage{testPackage(10), testPackage(0)},
	}

	resp := httptest.NewRecorder()
	Available(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stock", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var available struct {
		Data []internalstock.PackageDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &available))
	require.Len(t, available.Data, 1)
	assert.Equal(t, open.ID, available.Data[0].ID)
	assert.Equal(t, []string{}, available.Data[0].OriginHives)

	resp = httptest.NewRecorder()
	All(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stock/all", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var all struct {
		Data []internalstock.PackageDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &all))
	assert.Len(t, all.Data, 2)
}

func TestSell(t *testing.T) {
	svc := &stubService{}
	packageID := uuid.New()
	body := `{"package_id":"` + packageID.String() + `","customer_name":"Cabaña Norte","cells_to_sell":3}`

	resp := httptest.NewRecorder()
	Sell(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/stock/sell", bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, packageID, svc.lastSell.PackageID)
	assert.Equal(t, 3, svc.lastSell.CellsToSell)

	var envelope struct {
		Data internalstock.SellResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 7, envelope.Data.Package.AvailableCells)
	assert.Equal(t, 3, envelope.Data.Sale.CellsSold)
}

func TestSellValidationAndConflicts(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "bad uuid", body: `{"package_id":"x","customer_name":"A","cells_to_sell":1}`, status: http.StatusBadRequest},
		{name: "zero cells", body: `{"package_id":"` + uuid.NewString() + `","customer_name":"A","cells_to_sell":0}`, status: http.StatusBadRequest},
		{
			name:   "oversell",
			body:   `{"package_id":"` + uuid.NewString() + `","customer_name":"A","cells_to_sell":50}`,
			err:    pkgerrors.New(pkgerrors.CodeStateConflict, "not enough cells available"),
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "missing package",
			body:   `{"package_id":"` + uuid.NewString() + `","customer_name":"A","cells_to_sell":1}`,
			err:    pkgerrors.New(pkgerrors.CodeNotFound, "stock package not found"),
			status: http.StatusNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{sellErr: tc.err}
			resp := httptest.NewRecorder()
			Sell(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/stock/sell", bytes.NewReader([]byte(tc.body))))
			assert.Equal(t, tc.status, resp.Code, resp.Body.String())
		})
	}
}
