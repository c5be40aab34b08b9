// Package renderer turns portfolio views into markdown documents.
package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// BarWidth is the length of the longest chart bar.
const BarWidth = 20

const (
	gainBar = "█"
	lossBar = "▒"
)

// PortfolioMarkdown renders the portfolio screen: holdings table, totals and
// the two charts.
func PortfolioMarkdown(v folio.View, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := v.Who
	if title == "" {
		title = "Session open"
	}
	doc.H1("Portfolio: " + title)
	if v.Err != "" {
		doc.PlainText("**Error:** " + v.Err)
	}

	money := func(d decimal.Decimal) string { return folio.M(d, currency).String() }

	switch {
	case len(v.Holdings) == 0 && v.Loading:
		doc.PlainText("Loading…")
	case len(v.Holdings) == 0:
		doc.PlainText("No holdings yet. Add a holding to start tracking it.")
	default:
		rows := make([][]string, 0, len(v.Holdings))
		for _, h := range v.Holdings {
			rows = append(rows, []string{
				h.Symbol,
				h.Quantity.String(),
				money(h.BuyPrice),
				money(h.CurrentPrice),
				money(h.Value()),
				folio.M(h.PnL(), currency).SignedString(),
				strconv.FormatInt(h.ID, 10),
			})
		}
		table(doc, md.TableSet{
			Header: []string{"Symbol", "Quantity", "Buy", "Last", "Value", "P&L", "ID"},
			Rows:   rows,
		})
	}

	doc.PlainText(fmt.Sprintf("**Total value:** %s, **P&L:** %s",
		money(v.Totals.Value), folio.M(v.Totals.PnL, currency).SignedString()))

	doc.H2("Portfolio distribution")
	if len(v.Aggregates) == 0 {
		doc.PlainText("Add holdings to see charts.")
	} else {
		table(doc, distribution(v.Aggregates, v.Totals.Value, currency))
	}

	doc.H2("P&L by symbol")
	if len(v.Aggregates) == 0 {
		doc.PlainText("Add holdings to see charts.")
	} else {
		table(doc, pnl(v.Aggregates, currency))
	}

	return doc.String()
}

// table writes t with its headers as given.
func table(doc *md.Markdown, t md.TableSet) {
	doc.CustomTable(t, md.TableOptions{AutoWrapText: false, AutoFormatHeaders: false})
}

func distribution(aggs []folio.Aggregate, total decimal.Decimal, currency string) md.TableSet {
	peak := decimal.Zero
	for _, a := range aggs {
		peak = decimal.Max(peak, a.Value)
	}
	hundred := decimal.NewFromInt(100)
	t := md.TableSet{Header: []string{"Symbol", "Value", "Share", "Chart"}}
	for _, a := range aggs {
		share := "-"
		if total.IsPositive() {
			share = a.Value.Mul(hundred).Div(total).StringFixed(1) + "%"
		}
		t.Rows = append(t.Rows, []string{
			a.Symbol,
			folio.M(a.Value, currency).String(),
			share,
			Bar(a.Value, peak, gainBar),
		})
	}
	return t
}

func pnl(aggs []folio.Aggregate, currency string) md.TableSet {
	peak := decimal.Zero
	for _, a := range aggs {
		peak = decimal.Max(peak, a.PnL.Abs())
	}
	t := md.TableSet{Header: []string{"Symbol", "P&L", "Chart"}}
	for _, a := range aggs {
		bar := Bar(a.PnL, peak, gainBar)
		if a.PnL.IsNegative() {
			bar = "-" + Bar(a.PnL.Abs(), peak, lossBar)
		} else if a.PnL.IsPositive() {
			bar = "+" + bar
		}
		t.Rows = append(t.Rows, []string{
			a.Symbol,
			folio.M(a.PnL, currency).SignedString(),
			bar,
		})
	}
	return t
}

// Bar draws value as a run of glyph, BarWidth long when value equals peak.
// Non-zero values get at least one glyph.
func Bar(value, peak decimal.Decimal, glyph string) string {
	if !value.IsPositive() || !peak.IsPositive() {
		return ""
	}
	n := int(value.Mul(decimal.NewFromInt(BarWidth)).Div(peak).Round(0).IntPart())
	n = max(1, min(n, BarWidth))
	return strings.Repeat(glyph, n)
}

// AuthMarkdown renders the logged out screen.
func AuthMarkdown(err string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Portfolio: sign in")
	if err != "" {
		doc.PlainText("**Error:** " + err)
	}
	doc.PlainText("Sign in with `login <email>` or create an account with `register <email>`. Passwords need at least 6 characters.")
	return doc.String()
}
