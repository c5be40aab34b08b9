package folio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/etnz/folio/logger"
	"github.com/shopspring/decimal"
)

// ErrAuthFailed is displayed when a login or registration fails and the server
// gave no explanation.
var ErrAuthFailed = errors.New("authentication failed")

// View is a snapshot of the App state, ready to be rendered.
type View struct {
	LoggedIn   bool
	Who        string // email or token subject, possibly empty
	Holdings   []Holding
	Aggregates []Aggregate
	Totals     Totals
	Loading    bool   // a fetch is in flight
	Err        string // the last error, shown inline
}

// App ties a session, its refresh loop and the holdings together.
//
// Every failure is reduced to a single message available in View().Err, and
// also returned to the caller. Mutations never patch the holdings list: they
// are always followed by a full refresh.
type App struct {
	api      API
	store    TokenStore
	interval time.Duration // 0 disables the refresh loop

	mu        sync.Mutex
	onChange  func(View)
	session   *Session
	refresher *Refresher
	holdings  []Holding
	loading   bool
	err       string
}

// NewApp returns a logged out App. With a positive interval, every session
// runs a refresh loop; otherwise holdings are only fetched by Refresh and after
// mutations.
func NewApp(api API, store TokenStore, interval time.Duration) *App {
	return &App{api: api, store: store, interval: interval}
}

// OnChange sets the function called with a fresh View after every state
// change. It may be called from the refresh goroutine, so it must not call
// Logout or Close.
func (a *App) OnChange(f func(View)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = f
}

// View returns the current state.
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	holdings := slices.Clone(a.holdings)
	aggs := Aggregates(holdings)
	v := View{
		LoggedIn:   a.session != nil,
		Holdings:   holdings,
		Aggregates: aggs,
		Totals:     Total(aggs),
		Loading:    a.loading,
		Err:        a.err,
	}
	if a.session != nil {
		v.Who = a.session.Who()
	}
	return v
}

// Session returns the current session, or nil when logged out.
func (a *App) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Resume starts a session from the stored token, if any.
func (a *App) Resume(ctx context.Context) (bool, error) {
	token, err := a.store.Load()
	if err != nil {
		err = fmt.Errorf("cannot load session: %w", err)
		a.fail(err)
		return false, err
	}
	if token == "" {
		return false, nil
	}
	a.begin(ctx, &Session{Token: token})
	return true, nil
}

// Login exchanges the credentials for a token, stores it and starts a session.
func (a *App) Login(ctx context.Context, cr Credentials) error {
	return a.authenticate(ctx, cr, a.api.Login)
}

// Register creates the account, stores its token and starts a session.
func (a *App) Register(ctx context.Context, cr Credentials) error {
	return a.authenticate(ctx, cr, a.api.Register)
}

func (a *App) authenticate(ctx context.Context, cr Credentials, exchange func(context.Context, Credentials) (string, error)) error {
	token, err := exchange(ctx, cr)
	if err != nil {
		msg := authMessage(err)
		if msg == ErrAuthFailed.Error() {
			err = fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}
		a.setErr(msg)
		return err
	}
	if err := a.store.Save(token); err != nil {
		err = fmt.Errorf("cannot save session: %w", err)
		a.fail(err)
		return err
	}
	a.begin(ctx, &Session{Token: token, Email: cr.Email})
	return nil
}

// authMessage is the server's message, or the generic fallback.
func authMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Body == "" {
		return ErrAuthFailed.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return ErrAuthFailed.Error()
}

// begin replaces the current session with s, and starts its refresh loop.
func (a *App) begin(ctx context.Context, s *Session) {
	var r *Refresher
	if a.interval > 0 {
		r = NewRefresher(a.interval, func(ctx context.Context) { a.fetch(ctx, s) })
	}

	a.mu.Lock()
	old := a.refresher
	a.session, a.refresher = s, r
	a.holdings, a.err, a.loading = nil, "", r != nil
	a.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	logger.FromContext(ctx).Debugw("session started", "who", s.Who())
	a.notify()
	if r != nil {
		r.Start(WithSession(ctx, s))
	}
}

// Logout ends the session: the refresh loop is stopped, holdings are cleared
// and the stored token is deleted.
func (a *App) Logout() error {
	a.mu.Lock()
	r := a.refresher
	a.session, a.refresher = nil, nil
	a.holdings, a.err, a.loading = nil, "", false
	a.mu.Unlock()

	if r != nil {
		r.Stop()
	}
	err := a.store.Delete()
	if err != nil {
		err = fmt.Errorf("cannot delete session: %w", err)
		a.setErr(err.Error())
	}
	a.notify()
	return err
}

// Close stops the refresh loop but keeps the session stored.
func (a *App) Close() {
	a.mu.Lock()
	r := a.refresher
	a.refresher = nil
	a.mu.Unlock()
	if r != nil {
		r.Stop()
	}
}

// Refresh fetches the holdings now.
func (a *App) Refresh(ctx context.Context) error {
	s := a.Session()
	if s == nil {
		a.fail(ErrNoSession)
		return ErrNoSession
	}
	return a.fetch(ctx, s)
}

// fetch replaces the holdings with the server's list. Results for a session
// that is no longer current are discarded.
func (a *App) fetch(ctx context.Context, s *Session) error {
	a.mu.Lock()
	if a.session != s {
		a.mu.Unlock()
		return ErrNoSession
	}
	a.loading = true
	empty := len(a.holdings) == 0
	a.mu.Unlock()
	if empty {
		a.notify()
	}

	holdings, err := a.api.Holdings(WithSession(ctx, s))

	a.mu.Lock()
	if a.session != s {
		a.mu.Unlock()
		return err
	}
	a.loading = false
	switch {
	case err == nil:
		a.holdings, a.err = holdings, ""
	case ctx.Err() != nil:
		// cancelled: keep the state as is.
	default:
		a.err = err.Error()
		logger.FromContext(ctx).Warnw("cannot fetch holdings", "error", err)
	}
	a.mu.Unlock()
	a.notify()
	return err
}

// Add validates and creates a holding, then refreshes.
//
// An invalid request is rejected before anything is sent.
func (a *App) Add(ctx context.Context, r HoldingRequest) error {
	r = NewHoldingRequest(r.Symbol, r.Quantity, r.BuyPrice)
	if err := r.Validate(); err != nil {
		a.fail(err)
		return err
	}
	return a.mutate(ctx, func(ctx context.Context) error {
		_, err := a.api.AddHolding(ctx, r)
		return err
	})
}

// Remove deletes a holding, then refreshes.
func (a *App) Remove(ctx context.Context, id int64) error {
	return a.mutate(ctx, func(ctx context.Context) error {
		return a.api.RemoveHolding(ctx, id)
	})
}

// UpdatePrice sets the current price of a holding, then refreshes.
func (a *App) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) error {
	if price.IsNegative() {
		err := errors.New("price must not be negative")
		a.fail(err)
		return err
	}
	return a.mutate(ctx, func(ctx context.Context) error {
		_, err := a.api.UpdatePrice(ctx, id, price)
		return err
	})
}

// mutate runs op in the current session. On failure, only the error changes.
// On success, a refresh is triggered: asynchronously if the refresh loop runs,
// synchronously otherwise.
func (a *App) mutate(ctx context.Context, op func(context.Context) error) error {
	a.mu.Lock()
	s, r := a.session, a.refresher
	a.mu.Unlock()
	if s == nil {
		a.fail(ErrNoSession)
		return ErrNoSession
	}
	if err := op(WithSession(ctx, s)); err != nil {
		a.fail(err)
		return err
	}
	if r != nil {
		r.Trigger()
		return nil
	}
	a.fetch(ctx, s) // a failed refresh is displayed, but the mutation succeeded.
	return nil
}

func (a *App) fail(err error) { a.setErr(err.Error()) }

func (a *App) setErr(msg string) {
	a.mu.Lock()
	a.err = msg
	a.mu.Unlock()
	a.notify()
}

func (a *App) notify() {
	a.mu.Lock()
	f := a.onChange
	a.mu.Unlock()
	if f != nil {
		f(a.View())
	}
}
