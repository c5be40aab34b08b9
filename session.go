package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
)

// ErrNoSession is returned by authenticated operations when the context
// carries no session.
var ErrNoSession = errors.New("not logged in")

// Session holds the bearer token issued by the API.
type Session struct {
	Token string
	Email string // as typed at login, empty when the session was resumed.
}

// Claims is the display information found in a JWT session token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero if the token does not expire.
}

// Claims decodes the session token as a JWT.
//
// The signature is not verified: the token is opaque to the client and this is
// only meant to tell the user who they are logged in as.
func (s *Session) Claims() (Claims, error) {
	var std jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(s.Token, &std); err != nil {
		return Claims{}, fmt.Errorf("session token is not a JWT: %w", err)
	}
	c := Claims{Subject: std.Subject}
	if std.ExpiresAt != 0 {
		c.ExpiresAt = time.Unix(std.ExpiresAt, 0)
	}
	return c, nil
}

// Who returns the best available name for the session's user.
func (s *Session) Who() string {
	if s.Email != "" {
		return s.Email
	}
	if c, err := s.Claims(); err == nil && c.Subject != "" {
		return c.Subject
	}
	return ""
}

func (s *Session) authorize(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+s.Token)
}

type sessionKey struct{}

// WithSession returns a copy of ctx that carries s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
