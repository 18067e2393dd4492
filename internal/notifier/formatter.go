package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"BazaarWatch/internal/catalog"
	"BazaarWatch/internal/collector"
	"BazaarWatch/internal/model"
)

// Placeholder is shown for fields the API did not report.
const Placeholder = "N/A"

// Messages shown to the user.
const (
	MsgLoading    = "Loading item list..."
	MsgReady      = "Ready!"
	MsgLoadFailed = "Error loading item list. Try refreshing the page."
	MsgNotLoaded  = "Item list not loaded yet. Please wait."
	MsgInvalid    = "Please enter a valid item ID."
)

// Formatter turns products and lookup outcomes into HTML-flavoured text.
type Formatter struct {
	printer       *message.Printer
	zeroAsMissing bool
}

// NewFormatter builds a formatter for the given BCP 47 locale. Unknown locales
// fall back to English. With zeroAsMissing set, a reported value of 0 is
// rendered as the placeholder, the same as a missing one.
func NewFormatter(locale string, zeroAsMissing bool) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{
		printer:       message.NewPrinter(tag),
		zeroAsMissing: zeroAsMissing,
	}
}

func (f *Formatter) present(v *float64) bool {
	if v == nil {
		return false
	}
	return !(f.zeroAsMissing && *v == 0)
}

// Price renders v with exactly two decimals.
func (f *Formatter) Price(v *float64) string {
	if !f.present(v) {
		return Placeholder
	}
	return fixed2(*v)
}

// fixed2 rounds the exact binary value of v, so 1.005 (stored as 1.00499...)
// becomes 1.00.
func fixed2(v float64) string {
	return decimal.NewFromFloatWithExponent(v, -2).StringFixed(2)
}

// Volume renders v with locale thousands separators.
func (f *Formatter) Volume(v *float64) string {
	if !f.present(v) {
		return Placeholder
	}
	return f.grouped(*v)
}

// grouped rounds the shortest decimal form of v half-to-even at three
// fraction digits before grouping.
func (f *Formatter) grouped(v float64) string {
	r, _ := decimal.NewFromFloat(v).RoundBank(3).Float64()
	return f.printer.Sprint(number.Decimal(r, number.MaxFractionDigits(3)))
}

// FormatProduct renders the quick-status panel of one product.
func (f *Formatter) FormatProduct(id string, p *model.Product) string {
	qs := p.QuickStatus
	if qs == nil {
		qs = &model.QuickStatus{}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>%s</b>\n\n", html.EscapeString(catalog.DisplayName(id))))
	b.WriteString(fmt.Sprintf("Instant Sell: %s coins\n", f.Price(qs.SellPrice)))
	b.WriteString(fmt.Sprintf("Instant Buy: %s coins\n", f.Price(qs.BuyPrice)))
	b.WriteString(fmt.Sprintf("Sell Volume: %s\n", f.Volume(qs.SellVolume)))
	b.WriteString(fmt.Sprintf("Buy Volume: %s\n", f.Volume(qs.BuyVolume)))
	return b.String()
}

// FormatOrderBook renders the leading depth entries of both order-book sides.
func (f *Formatter) FormatOrderBook(p *model.Product, depth int) string {
	var b strings.Builder
	f.writeOrders(&b, "📗 <b>Top Buy Orders</b>", model.TopOrders(p.BuySummary, depth))
	b.WriteString("\n")
	f.writeOrders(&b, "📕 <b>Top Sell Orders</b>", model.TopOrders(p.SellSummary, depth))
	return b.String()
}

func (f *Formatter) writeOrders(b *strings.Builder, title string, entries []model.OrderSummaryEntry) {
	b.WriteString(title + "\n")
	if len(entries) == 0 {
		b.WriteString("  none\n")
		return
	}
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("  %d. Price: %s | Orders: %s | Amount: %s\n",
			i+1, fixed2(e.PricePerUnit), f.grouped(e.Orders), f.grouped(e.Amount)))
	}
}

// FormatLookupError maps a lookup failure to the inline message shown next to
// the input.
func (f *Formatter) FormatLookupError(err error) string {
	var (
		nl *catalog.NotLoadedError
		ve *catalog.ValidationError
		nf *catalog.NotFoundError
	)
	switch {
	case errors.As(err, &nl):
		return "❌ " + MsgNotLoaded
	case errors.As(err, &ve):
		return "❌ " + MsgInvalid
	case errors.As(err, &nf):
		msg := fmt.Sprintf("❌ Item ID \"<code>%s</code>\" not found. Please check the spelling.", html.EscapeString(nf.ID))
		if nf.Closest != "" {
			msg += fmt.Sprintf("\nDid you mean <code>%s</code>?", html.EscapeString(nf.Closest))
		}
		return msg
	default:
		return "❌ " + html.EscapeString(err.Error())
	}
}

// FormatLoadError describes a failed catalog load for the status line.
func (f *Formatter) FormatLoadError(err error) string {
	var (
		ne *collector.NetworkError
		pe *collector.ParseError
		ae *collector.APIError
	)
	detail := "unexpected error"
	switch {
	case errors.As(err, &ne) && ne.StatusCode != 0:
		detail = fmt.Sprintf("HTTP status %d", ne.StatusCode)
	case errors.As(err, &ne):
		detail = "network unreachable"
	case errors.As(err, &pe):
		detail = "malformed response"
	case errors.As(err, &ae):
		detail = ae.Error()
	}
	return fmt.Sprintf("%s (%s)", MsgLoadFailed, html.EscapeString(detail))
}

// FormatSuggestions renders a numbered suggestion list.
func (f *Formatter) FormatSuggestions(suggestions []model.Suggestion) string {
	var b strings.Builder
	for i, s := range suggestions {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, html.EscapeString(s.Label)))
	}
	return b.String()
}

// FormatCatalogStatus summarizes the catalog for the /status command.
func (f *Formatter) FormatCatalogStatus(cat *catalog.Catalog, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 <b>Catalog status</b>\n\n")
	b.WriteString(fmt.Sprintf("State: %s\n", cat.State()))
	switch cat.State() {
	case catalog.StateReady:
		b.WriteString(fmt.Sprintf("Products: %s\n", f.grouped(float64(cat.Len()))))
		b.WriteString(fmt.Sprintf("Loaded: %s\n", humanize.RelTime(cat.LoadedAt(), now, "ago", "from now")))
		if up := cat.UpdatedAt(); !up.IsZero() {
			b.WriteString(fmt.Sprintf("Upstream snapshot: %s\n", humanize.RelTime(up, now, "ago", "from now")))
		}
	case catalog.StateFailed:
		b.WriteString(f.FormatLoadError(cat.Err()) + "\n")
	}
	return b.String()
}
