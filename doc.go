// Package folio is the client side of a personal stock-portfolio tracker.
//
// The portfolio itself, the live prices and the user accounts are owned by a
// remote HTTP API. This package provides everything a front end needs to
// drive it:
//   - Session Management: exchanging credentials for a bearer token,
//     persisting it between runs, and carrying it through a context.Context.
//   - API Client: typed access to the holdings endpoints, with non-2xx
//     responses surfaced as *APIError.
//   - Refresh Loop: a cancellable polling task that never runs two fetches at
//     the same time.
//   - Aggregation: per-symbol and total value and profit/loss, computed with
//     exact decimals.
//   - App: the stateful composition of the above, with login, logout and
//     add/remove mutations that always end with a full refresh.
//
// This package serves as the foundational logic for the `pft` command-line
// tool.
package folio
