package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alanhoffer/hf-dashboard/internal/auth"
	"github.com/alanhoffer/hf-dashboard/internal/dashboard"
	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/internal/productions"
	"github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/internal/users"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
)

// CreateOrderRequest books a new order. Dates are YYYY-MM-DD.
type CreateOrderRequest struct {
	CustomerName       string  `json:"customer_name"`
	NumberOfCells      int     `json:"number_of_cells"`
	DeliveryDate       string  `json:"delivery_date"`
	LarvaeTransferDate *string `json:"larvae_transfer_date,omitempty"`
}

// CreateProductionRequest records a grafting batch.
type CreateProductionRequest struct {
	TransferDate      string   `json:"transfer_date"`
	LarvaeTransferred int      `json:"larvae_transferred"`
	CellsProduced     int      `json:"cells_produced"`
	Hives             []string `json:"hives,omitempty"`
	OrderID           *string  `json:"order_id,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
}

// SellRequest sells cells out of one stock package.
type SellRequest struct {
	PackageID    string `json:"package_id"`
	CustomerName string `json:"customer_name"`
	CellsToSell  int    `json:"cells_to_sell"`
}

// Login exchanges credentials for tokens and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	body := auth.LoginRequest{Email: email, Password: password}
	out, err := call[auth.LoginResponse](ctx, c, http.MethodPost, "/auth/login", body)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Refresh rotates the token pair. The current access token may already be expired.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	out, err := call[auth.TokenPair](ctx, c, http.MethodPost, "/auth/refresh", auth.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Logout revokes the current session and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := call[map[string]any](ctx, c, http.MethodPost, "/auth/logout", nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*users.UserDTO, error) {
	out, err := call[users.UserDTO](ctx, c, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]orders.OrderDTO, error) {
	return call[[]orders.OrderDTO](ctx, c, http.MethodGet, "/orders", nil)
}

// GetOrder returns nil without error when the order does not exist.
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	out, err := call[orders.OrderDTO](ctx, c, http.MethodGet, "/orders/"+id.String(), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*orders.OrderDTO, error) {
	out, err := call[orders.OrderDTO](ctx, c, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	body := map[string]string{"status": string(status)}
	out, err := call[orders.OrderDTO](ctx, c, http.MethodPatch, "/orders/"+id.String()+"/status", body)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProductions(ctx context.Context) ([]productions.ProductionDTO, error) {
	return call[[]productions.ProductionDTO](ctx, c, http.MethodGet, "/productions", nil)
}

func (c *Client) CreateProduction(ctx context.Context, req CreateProductionRequest) (*productions.ProductionDTO, error) {
	out, err := call[productions.ProductionDTO](ctx, c, http.MethodPost, "/productions", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordAcceptance(ctx context.Context, id uuid.UUID, accepted int) (*productions.ProductionDTO, error) {
	body := map[string]int{"accepted_cells": accepted}
	out, err := call[productions.ProductionDTO](ctx, c, http.MethodPatch, "/productions/"+id.String()+"/acceptance", body)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAvailableStock(ctx context.Context) ([]stock.PackageDTO, error) {
	return call[[]stock.PackageDTO](ctx, c, http.MethodGet, "/stock", nil)
}

func (c *Client) ListAllStock(ctx context.Context) ([]stock.PackageDTO, error) {
	return call[[]stock.PackageDTO](ctx, c, http.MethodGet, "/stock/all", nil)
}

func (c *Client) SellStock(ctx context.Context, req SellRequest) (*stock.SellResult, error) {
	out, err := call[stock.SellResult](ctx, c, http.MethodPost, "/stock/sell", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*dashboard.Stats, error) {
	out, err := call[dashboard.Stats](ctx, c, http.MethodGet, "/dashboard/stats", nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardUpcoming(ctx context.Context) ([]orders.OrderDTO, error) {
	return call[[]orders.OrderDTO](ctx, c, http.MethodGet, "/dashboard/upcoming", nil)
}

func (c *Client) DashboardExpiring(ctx context.Context) ([]stock.PackageDTO, error) {
	return call[[]stock.PackageDTO](ctx, c, http.MethodGet, "/dashboard/expiring", nil)
}

// OrderHistory searches orders newest first. An empty cursor starts at the top.
func (c *Client) OrderHistory(ctx context.Context, term, cursor string, limit int) (*orders.OrderList, error) {
	out, err := call[orders.OrderList](ctx, c, http.MethodGet, "/history/orders"+historyQuery(term, cursor, limit), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductionHistory(ctx context.Context, term, cursor string, limit int) (*productions.ProductionList, error) {
	out, err := call[productions.ProductionList](ctx, c, http.MethodGet, "/history/productions"+historyQuery(term, cursor, limit), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportOrders downloads the order table as csv or pdf.
func (c *Client) ExportOrders(ctx context.Context, format string) (*File, error) {
	return c.download(ctx, "/exports/orders", format)
}

// ExportProductions downloads the production table as csv or pdf.
func (c *Client) ExportProductions(ctx context.Context, format string) (*File, error) {
	return c.download(ctx, "/exports/productions", format)
}

func historyQuery(term, cursor string, limit int) string {
	values := url.Values{}
	if term != "" {
		values.Set("q", term)
	}
	if cursor != "" {
		values.Set("cursor", cursor)
	}
	if limit > 0 {
		values.Set("limit", fmt.Sprint(limit))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
