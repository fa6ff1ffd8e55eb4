package render

import (
	"strings"
	"testing"

	"inspirehub/pkg/billing"
	"inspirehub/pkg/model"
)

func date(t *testing.T, s string) billing.Date {
	t.Helper()
	d, err := billing.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func sampleReservation(t *testing.T) *model.Reservation {
	return &model.Reservation{
		Kind: model.ProductDedicatedDesk,
		Tenant: model.Tenant{
			Name:  "Maria Santos",
			Email: "maria@example.com",
		},
		ResourceIDs: model.StringList{"map1-A1", "map1-A2"},
		Status:      model.StatusActive,
		Billing: model.Snapshot{
			Rate:          500,
			ResourceCount: 2,
			Months:        2,
			StartDate:     date(t, "2025-01-15"),
			EndDate:       date(t, "2025-03-15"),
			Subtotal:      3300,
			VAT:           396,
			Total:         3696,
		},
	}
}

func TestFormatPeso(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₱0.00"},
		{500, "₱500.00"},
		{3696, "₱3,696.00"},
		{1234567.5, "₱1,234,567.50"},
		{999.999, "₱1,000.00"},
		{-250, "-₱250.00"},
	}

	for _, tt := range tests {
		if got := FormatPeso(tt.amount); got != tt.want {
			t.Errorf("FormatPeso(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestRender_SubstitutesKnownPlaceholders(t *testing.T) {
	r := sampleReservation(t)
	vars := Vars(r, nil)

	template := "Tenant: {{tenant.name}}\nSeats: {{office.resources}}\nTotal: {{billing.total}}\nEnds: {{contract.end_date}}"
	got := Render(template, vars)

	want := "Tenant: Maria Santos\nSeats: map1-A1, map1-A2\nTotal: ₱3,696.00\nEnds: 2025-03-15"
	if got != want {
		t.Errorf("rendered output mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRender_RepeatedPlaceholderReplacedEverywhere(t *testing.T) {
	r := sampleReservation(t)
	template := "{{tenant.name}} agrees. Signed: {{tenant.name}}. Witness for {{tenant.name}}."

	got := Render(template, Vars(r, nil))
	if strings.Contains(got, "{{tenant.name}}") {
		t.Errorf("placeholder left behind: %q", got)
	}
	if want := 3; strings.Count(got, "Maria Santos") != want {
		t.Errorf("expected %d substitutions, got %q", want, got)
	}
}

func TestRender_UnknownPlaceholderUntouched(t *testing.T) {
	r := sampleReservation(t)
	template := "Known: {{tenant.name}}, unknown: {{totally.unknown}}"

	got := Render(template, Vars(r, nil))
	if !strings.Contains(got, "{{totally.unknown}}") {
		t.Errorf("unknown placeholder must stay byte-for-byte: %q", got)
	}
}

func TestRender_OverridesWinOnCollision(t *testing.T) {
	r := sampleReservation(t)
	vars := Vars(r, map[string]string{
		"tenant.name":  "Overridden Name",
		"custom.promo": "SUMMER25",
	})

	got := Render("{{tenant.name}} / {{custom.promo}}", vars)
	if got != "Overridden Name / SUMMER25" {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestRender_DoesNotMutateTemplate(t *testing.T) {
	r := sampleReservation(t)
	template := "Name: {{tenant.name}}"
	_ = Render(template, Vars(r, nil))

	if template != "Name: {{tenant.name}}" {
		t.Error("template string must not change")
	}
}

func TestVars_MissingFieldsFallBackToDefaults(t *testing.T) {
	r := &model.Reservation{Kind: model.ProductVirtualOffice}
	vars := Vars(r, nil)

	if got := vars["{{tenant.name}}"]; got != "Not specified" {
		t.Errorf("missing name should default, got %q", got)
	}
	if got := vars["{{office.resources}}"]; got != "Not specified" {
		t.Errorf("empty resource list should default, got %q", got)
	}
	if got := vars["{{billing.rate}}"]; got != "₱0.00" {
		t.Errorf("zero rate must format as pesos, got %q", got)
	}
	if got := vars["{{contract.start_date}}"]; got != "Not specified" {
		t.Errorf("zero start date should default, got %q", got)
	}
}

func TestRender_PlaceholderBracesAreLiteral(t *testing.T) {
	// Braces and dots in keys must never act as pattern syntax.
	vars := map[string]string{"{{c.v}}": "x"}
	if got := Render("a{{cAv}}b {{c.v}}", vars); got != "a{{cAv}}b x" {
		t.Errorf("dot must not match any character: %q", got)
	}
}
