package folio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/folio/apitest"
	"github.com/stretchr/testify/require"
)

func loggedIn(t *testing.T, srv *apitest.Server, email string) context.Context {
	t.Helper()
	srv.AddUser(email, "secret1")
	return WithSession(context.Background(), &Session{Token: srv.Token(email)})
}

func TestClientAuthenticate(t *testing.T) {
	srv := apitest.NewServer(t)
	c := NewClient(srv.BaseURL(), nil)
	ctx := context.Background()

	token, err := c.Register(ctx, Credentials{Email: "sude@example.com", Password: "123456"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	token, err = c.Login(ctx, Credentials{Email: "sude@example.com", Password: "123456"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// registration errors carry the server message.
	_, err = c.Register(ctx, Credentials{Email: "sude@example.com", Password: "123456"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.EqualError(t, err, "email already registered")

	// wrong password is an empty 401.
	_, err = c.Login(ctx, Credentials{Email: "sude@example.com", Password: "wrong"})
	require.EqualError(t, err, "HTTP 401")
}

func TestClientHoldings(t *testing.T) {
	srv := apitest.NewServer(t)
	c := NewClient(srv.BaseURL()+"/", nil) // trailing slash is ignored
	ctx := loggedIn(t, srv, "a@example.com")

	holdings, err := c.Holdings(ctx)
	require.NoError(t, err)
	require.Empty(t, holdings)

	srv.SetPrice("AAA", 15)
	created, err := c.AddHolding(ctx, NewHoldingRequest("AAA", D(t, "2"), D(t, "10")))
	require.NoError(t, err)
	require.Equal(t, "AAA", created.Symbol)
	require.True(t, created.CurrentPrice.Equal(D(t, "15")), "current price = %v", created.CurrentPrice)

	_, err = c.AddHolding(ctx, NewHoldingRequest("BBB", D(t, "1"), D(t, "3.5")))
	require.NoError(t, err)

	holdings, err = c.Holdings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	require.Equal(t, "AAA", holdings[0].Symbol)
	require.Equal(t, "BBB", holdings[1].Symbol)
	require.True(t, holdings[1].BuyPrice.Equal(D(t, "3.5")))

	updated, err := c.UpdatePrice(ctx, created.ID, D(t, "16.25"))
	require.NoError(t, err)
	require.True(t, updated.CurrentPrice.Equal(D(t, "16.25")))

	require.NoError(t, c.RemoveHolding(ctx, created.ID))
	holdings, err = c.Holdings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	err = c.RemoveHolding(ctx, created.ID)
	require.EqualError(t, err, "stock not found")
}

func TestClientHoldingsIsolation(t *testing.T) {
	srv := apitest.NewServer(t)
	c := NewClient(srv.BaseURL(), nil)
	alice := loggedIn(t, srv, "alice@example.com")
	bob := loggedIn(t, srv, "bob@example.com")

	_, err := c.AddHolding(alice, NewHoldingRequest("AAA", D(t, "1"), D(t, "1")))
	require.NoError(t, err)

	holdings, err := c.Holdings(bob)
	require.NoError(t, err)
	require.Empty(t, holdings)
}

func TestClientWithoutSession(t *testing.T) {
	srv := apitest.NewServer(t)
	c := NewClient(srv.BaseURL(), nil)

	_, err := c.Holdings(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	require.Zero(t, srv.Lists(), "no request must be sent without a session")

	ctx := WithSession(context.Background(), &Session{Token: "forged"})
	_, err = c.Holdings(ctx)
	require.EqualError(t, err, "HTTP 401")
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "body text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "price service unavailable", http.StatusBadGateway)
			},
			want: "price service unavailable",
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: "HTTP 500",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
			want: "cannot decode GET /stocks response",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := NewClient(srv.URL, nil)
			ctx := WithSession(context.Background(), &Session{Token: "t"})

			_, err := c.Holdings(ctx)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.RemoveHolding(WithSession(context.Background(), &Session{Token: "abc"}), 7)
	require.NoError(t, err)
	require.Equal(t, "Bearer abc", got)
}

func TestAPIErrorMessage(t *testing.T) {
	var err error = &APIError{StatusCode: http.StatusForbidden}
	if err.Error() != "HTTP 403" {
		t.Errorf("Error() = %q, want %q", err.Error(), "HTTP 403")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Error("errors.As(*APIError) = false")
	}
}
