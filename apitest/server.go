// Package apitest provides an in-memory implementation of the portfolio API,
// served over HTTP for tests.
//
// It mimics the behavior of the real backend that matters to the client:
// JWT bearer tokens, per-user holdings, plain text error bodies, and empty
// 401 responses.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// Stock is a holding as stored by the server.
type Stock struct {
	ID           int64   `json:"id"`
	Symbol       string  `json:"symbol"`
	Quantity     int64   `json:"quantity"`
	BuyPrice     float64 `json:"buyPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	owner        string
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type stockRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	BuyPrice float64 `json:"buyPrice"`
}

type priceRequest struct {
	Price *float64 `json:"price"`
}

// Server is a running fake API. Its base URL is URL + "/api".
type Server struct {
	*httptest.Server

	secret []byte

	mu        sync.Mutex
	users     map[string]string // email -> password
	stocks    []Stock
	nextID    int64
	prices    map[string]float64 // symbol -> current price
	listDelay time.Duration

	lists       atomic.Int64
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

// NewServer starts a fake API. It is closed at the end of the test.
func NewServer(t testing.TB) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		secret: []byte("apitest-secret"),
		users:  make(map[string]string),
		prices: make(map[string]float64),
		nextID: 1,
	}

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	stocks := api.Group("/stocks", s.authenticate)
	stocks.GET("", s.list)
	stocks.POST("", s.create)
	stocks.DELETE("/:id", s.delete)
	stocks.PATCH("/:id/price", s.updatePrice)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root, as configured in the client.
func (s *Server) BaseURL() string { return s.URL + "/api" }

// AddUser registers an account directly.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// SetPrice sets the current price of every holding of symbol, present and
// future.
func (s *Server) SetPrice(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
	for i := range s.stocks {
		if s.stocks[i].Symbol == symbol {
			s.stocks[i].CurrentPrice = price
		}
	}
}

// SetListDelay makes every GET /stocks wait d before answering.
func (s *Server) SetListDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listDelay = d
}

// Lists returns the number of GET /stocks received so far.
func (s *Server) Lists() int { return int(s.lists.Load()) }

// MaxConcurrentLists is the highest number of GET /stocks served at once.
func (s *Server) MaxConcurrentLists() int { return int(s.maxInFlight.Load()) }

// Token issues a valid token for email.
func (s *Server) Token(email string) string {
	claims := jwt.StandardClaims{
		Subject:   email,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	if !strings.Contains(req.Email, "@") {
		c.String(http.StatusBadRequest, "email is invalid")
		return
	}
	if len(req.Password) < 6 {
		c.String(http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	s.mu.Lock()
	_, exists := s.users[req.Email]
	if !exists {
		s.users[req.Email] = req.Password
	}
	s.mu.Unlock()
	if exists {
		c.String(http.StatusConflict, "email already registered")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": s.Token(req.Email)})
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	password, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok || password != req.Password {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": s.Token(req.Email)})
}

func (s *Server) authenticate(c *gin.Context) {
	raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	var claims jwt.StandardClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) { return s.secret, nil })
	if err != nil || claims.Subject == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set("owner", claims.Subject)
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	s.lists.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.maxInFlight.Load()
		if n <= peak || s.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	s.mu.Lock()
	delay := s.listDelay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	owner := c.GetString("owner")
	s.mu.Lock()
	result := make([]Stock, 0)
	for _, st := range s.stocks {
		if st.owner == owner {
			result = append(result, st)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, result)
}

func (s *Server) create(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Symbol) == "" {
		c.String(http.StatusBadRequest, "symbol is required")
		return
	}
	if req.Quantity < 1 || req.BuyPrice <= 0 {
		c.String(http.StatusBadRequest, "quantity and buy price must be positive")
		return
	}

	s.mu.Lock()
	current, ok := s.prices[req.Symbol]
	if !ok {
		current = req.BuyPrice
	}
	st := Stock{
		ID:           s.nextID,
		Symbol:       req.Symbol,
		Quantity:     req.Quantity,
		BuyPrice:     req.BuyPrice,
		CurrentPrice: current,
		owner:        c.GetString("owner"),
	}
	s.nextID++
	s.stocks = append(s.stocks, st)
	s.mu.Unlock()

	c.JSON(http.StatusOK, st)
}

// find returns the index of the owner's stock with the path's id, or -1.
// s.mu must be held.
func (s *Server) find(c *gin.Context) int {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return -1
	}
	owner := c.GetString("owner")
	for i, st := range s.stocks {
		if st.ID == id && st.owner == owner {
			return i
		}
	}
	return -1
}

func (s *Server) delete(c *gin.Context) {
	s.mu.Lock()
	i := s.find(c)
	if i >= 0 {
		s.stocks = append(s.stocks[:i], s.stocks[i+1:]...)
	}
	s.mu.Unlock()
	if i < 0 {
		c.String(http.StatusNotFound, "stock not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) updatePrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
		c.String(http.StatusBadRequest, "price required")
		return
	}
	s.mu.Lock()
	i := s.find(c)
	var st Stock
	if i >= 0 {
		s.stocks[i].CurrentPrice = *req.Price
		st = s.stocks[i]
	}
	s.mu.Unlock()
	if i < 0 {
		c.String(http.StatusNotFound, "stock not found")
		return
	}
	c.JSON(http.StatusOK, st)
}
