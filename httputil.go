package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/etnz/folio/logger"
	"github.com/etnz/folio/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// contains http utils to deal with the portfolio API

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string // response body text, possibly empty
}

// Error returns the body text as sent by the server, or "HTTP <status>" when
// the server sent none.
func (e *APIError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// request describes a single API call.
type request struct {
	method string
	path   string
	auth   bool // attach the session's bearer token
	in     any  // JSON request body, or nil
	out    any  // JSON response destination, or nil
}

// jdo performs the request and unmarshals the JSON response into r.out.
func jdo(ctx context.Context, client *http.Client, base string, r request) (err error) {
	ctx, span := tracing.Start(ctx, r.method+" "+r.path,
		attribute.String("http.method", r.method),
		attribute.String("http.route", r.path),
	)
	defer func() { tracing.End(span, err) }()

	var body io.Reader
	if r.in != nil {
		data, err := json.Marshal(r.in)
		if err != nil {
			return fmt.Errorf("cannot encode %s %s request: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, base+r.path, body)
	if err != nil {
		return fmt.Errorf("cannot create http request %s %s: %w", r.method, r.path, err)
	}
	if r.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if r.auth {
		s := SessionFrom(ctx)
		if s == nil {
			return ErrNoSession
		}
		s.authorize(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	logger.FromContext(ctx).Debugf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("cannot read %s %s response body: %w", r.method, r.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(buf.String())}
	}
	if r.out == nil || buf.Len() == 0 {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), r.out); err != nil {
		return fmt.Errorf("cannot decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}
