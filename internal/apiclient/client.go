// Package apiclient provides typed wrappers over the marketplace REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/swiftlogi/marketplace/internal/job"
	"github.com/swiftlogi/marketplace/internal/order"
	"github.com/swiftlogi/marketplace/internal/product"
	"github.com/swiftlogi/marketplace/internal/session"
	"github.com/swiftlogi/marketplace/internal/user"
)

// Client talks to the marketplace API. Calls carry no retry or backoff; the
// caller decides whether to resubmit.
type Client struct {
	client  *http.Client
	baseURL string

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetToken installs the bearer token sent with subsequent requests. An empty
// token reverts the client to unauthenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Register creates an account. The server responds with the created user; a
// session is only established by a subsequent Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (user.User, error) {
	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return user.User{}, err
	}
	return resp.User, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return session.Session{}, err
	}
	return session.Session{
		UserID:        resp.User.ID,
		Name:          resp.User.Name,
		Email:         resp.User.Email,
		Role:          resp.User.Role,
		WalletBalance: resp.User.WalletBalance,
		Token:         resp.Token,
	}, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListOrders(ctx context.Context, userID int) ([]order.Order, error) {
	var orders []order.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/orders/%d", userID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	if err := c.do(ctx, http.MethodGet, "/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (product.Product, error) {
	var created product.Product
	if err := c.do(ctx, http.MethodPost, "/products", req, &created); err != nil {
		return product.Product{}, err
	}
	return created, nil
}

// CreateOrder submits a checkout. The caller must not clear its cart unless
// this returns nil.
func (c *Client) CreateOrder(ctx context.Context, buyerID int, items []order.Item, totalPrice float64) (order.Order, error) {
	req := createOrderRequest{BuyerID: buyerID, Items: items, TotalPrice: totalPrice}
	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", req, &resp); err != nil {
		return order.Order{}, err
	}
	return resp.Order, nil
}

func (c *Client) AcceptJob(ctx context.Context, orderID int) (job.Job, error) {
	var j job.Job
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/accept", orderID), nil, &j); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (c *Client) DeliverJob(ctx context.Context, orderID int) (job.Job, error) {
	var j job.Job
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/deliver", orderID), nil, &j); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (c *Client) UpdateJobStatus(ctx context.Context, orderID int, status string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/status", orderID), statusRequest{Status: status}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}
	return nil
}
