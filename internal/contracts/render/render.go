// Package render substitutes {{namespace.field}} placeholders in contract
// templates with values from a reservation record. Rendering is a pure string
// transformation: it never mutates the template or the reservation, and a
// placeholder with no matching key is left byte-for-byte untouched.
package render

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"inspirehub/pkg/model"
)

const notSpecified = "Not specified"

// Vars builds the full placeholder mapping for one reservation. Overrides are
// user-supplied variables keyed without braces ("custom.promo_code",
// "tenant.name"); they win over computed values on collision.
func Vars(r *model.Reservation, overrides map[string]string) map[string]string {
	b := r.Billing
	now := time.Now()

	vars := map[string]string{
		"{{tenant.name}}":    orDefault(r.Tenant.Name),
		"{{tenant.email}}":   orDefault(r.Tenant.Email),
		"{{tenant.phone}}":   orDefault(r.Tenant.Phone),
		"{{tenant.company}}": orDefault(r.Tenant.Company),
		"{{tenant.address}}": orDefault(r.Tenant.Address),

		"{{contract.kind}}":       kindLabel(r.Kind),
		"{{contract.status}}":     orDefault(r.Status),
		"{{contract.start_date}}": orDefault(b.StartDate.String()),
		"{{contract.end_date}}":   orDefault(b.EndDate.String()),
		"{{contract.months}}":     strconv.Itoa(b.Months),

		"{{billing.rate}}":        FormatPeso(b.Rate),
		"{{billing.cusa_fee}}":    FormatPeso(b.CusaFee),
		"{{billing.parking_fee}}": FormatPeso(b.ParkingFee),
		"{{billing.subtotal}}":    FormatPeso(b.Subtotal),
		"{{billing.vat}}":         FormatPeso(b.VAT),
		"{{billing.total}}":       FormatPeso(b.Total),

		"{{office.resources}}":  joinList(r.ResourceIDs),
		"{{office.inclusions}}": joinList(r.Inclusions),
		"{{office.count}}":      strconv.Itoa(b.ResourceCount),

		"{{date.today}}": now.Format("2006-01-02"),
		"{{date.year}}":  strconv.Itoa(now.Year()),

		"{{system.generated_at}}": now.Format(time.RFC3339),
	}

	for key, value := range overrides {
		vars["{{"+key+"}}"] = value
	}

	return vars
}

// Render replaces every occurrence of every known key in the template.
// Replacement is literal, so brace characters in keys never act as pattern
// syntax. Keys are applied in sorted order to keep output deterministic.
func Render(template string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := template
	for _, key := range keys {
		out = strings.ReplaceAll(out, key, vars[key])
	}
	return out
}

// FormatPeso renders an amount with the peso sign, two decimal digits and
// comma thousands separators. Zero renders as "₱0.00", never empty.
func FormatPeso(amount float64) string {
	d := decimal.NewFromFloat(amount).StringFixed(2)

	neg := strings.HasPrefix(d, "-")
	d = strings.TrimPrefix(d, "-")

	parts := strings.SplitN(d, ".", 2)
	whole, frac := parts[0], parts[1]

	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	out := "₱" + strings.Join(groups, ",") + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func joinList(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func kindLabel(kind model.ProductKind) string {
	if !kind.Valid() {
		return notSpecified
	}
	return kind.Label()
}
