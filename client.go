package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAPIURL is the API base URL used when none is configured.
const DefaultAPIURL = "http://localhost:8080/api"

// API is the remote portfolio service.
//
// Authenticated methods take the session from the context (see WithSession).
type API interface {
	Login(ctx context.Context, c Credentials) (token string, err error)
	Register(ctx context.Context, c Credentials) (token string, err error)
	Holdings(ctx context.Context) ([]Holding, error)
	AddHolding(ctx context.Context, r HoldingRequest) (Holding, error)
	RemoveHolding(ctx context.Context, id int64) error
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (Holding, error)
}

// Client is the HTTP implementation of API.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for the API at baseURL. A nil httpClient means
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) do(ctx context.Context, r request) error {
	return jdo(ctx, c.http, c.base, r)
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *Client) authenticate(ctx context.Context, path string, cr Credentials) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: path, in: cr, out: &resp}); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("the server returned no token")
	}
	return resp.Token, nil
}

// Login exchanges existing credentials for a session token.
func (c *Client) Login(ctx context.Context, cr Credentials) (string, error) {
	return c.authenticate(ctx, "/auth/login", cr)
}

// Register creates an account and returns its session token.
func (c *Client) Register(ctx context.Context, cr Credentials) (string, error) {
	return c.authenticate(ctx, "/auth/register", cr)
}

// Holdings lists the session's holdings in server order.
func (c *Client) Holdings(ctx context.Context) ([]Holding, error) {
	var holdings []Holding
	err := c.do(ctx, request{method: http.MethodGet, path: "/stocks", auth: true, out: &holdings})
	return holdings, err
}

// AddHolding creates a holding and returns it as stored by the server.
func (c *Client) AddHolding(ctx context.Context, r HoldingRequest) (Holding, error) {
	var h Holding
	err := c.do(ctx, request{method: http.MethodPost, path: "/stocks", auth: true, in: r, out: &h})
	return h, err
}

// RemoveHolding deletes a holding by ID.
func (c *Client) RemoveHolding(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/stocks/%d", id), auth: true})
}

// UpdatePrice overrides the current price of a holding.
func (c *Client) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (Holding, error) {
	var w jsonObjectWriter
	w.Number("price", price)
	var h Holding
	err := c.do(ctx, request{method: http.MethodPatch, path: fmt.Sprintf("/stocks/%d/price", id), auth: true, in: &w, out: &h})
	return h, err
}
