// Package billing is the single billing computation engine for all product
// kinds. Every caller that needs a subtotal, VAT amount, total, or contract
// end date goes through this package; nothing else in the codebase is allowed
// to duplicate the arithmetic or the calendar rollover rule.
//
// Amounts cross package boundaries as float64 because the document store
// persists plain numbers, but every computation runs on decimal.Decimal so
// repeated extension accumulation cannot drift.
package billing

import "github.com/shopspring/decimal"

// VAT is flat 12% on the subtotal, not configurable.
var vatRate = decimal.New(12, -2)

type Input struct {
	Rate          float64 `json:"rate"`
	ResourceCount int     `json:"resource_count"`
	Months        int     `json:"months"`
	CusaFee       float64 `json:"cusa_fee"`
	ParkingFee    float64 `json:"parking_fee"`
	StartDate     Date    `json:"start_date"`
}

type Quote struct {
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
	EndDate  Date    `json:"end_date"`
}

// Compute derives the full billing quote:
//
//	subtotal = rate x count x months + cusaFee x months + parkingFee x months
//	vat      = subtotal x 0.12
//	total    = subtotal + vat
//	endDate  = startDate advanced by months, clamped to end of month
//
// A zero month count or zero start date yields a zero EndDate. That is the
// "not yet computable" sentinel, not a failure; rejecting such input before
// submission is the caller's validation concern. Rate and count validation is
// likewise the caller's job: the calculator accepts whatever it is given.
func Compute(in Input) Quote {
	months := decimal.NewFromInt(int64(in.Months))

	subtotal := decimal.NewFromFloat(in.Rate).
		Mul(decimal.NewFromInt(int64(in.ResourceCount))).
		Mul(months).
		Add(decimal.NewFromFloat(in.CusaFee).Mul(months)).
		Add(decimal.NewFromFloat(in.ParkingFee).Mul(months))

	vat := subtotal.Mul(vatRate)
	total := subtotal.Add(vat)

	var endDate Date
	if in.Months >= 1 && !in.StartDate.IsZero() {
		endDate = in.StartDate.AddMonths(in.Months)
	}

	return Quote{
		Subtotal: subtotal.InexactFloat64(),
		VAT:      vat.InexactFloat64(),
		Total:    total.InexactFloat64(),
		EndDate:  endDate,
	}
}

type ExtensionInput struct {
	Rate         float64
	CurrentTotal float64
	CurrentEnd   Date
	ExtraMonths  int
	Now          Date
}

type Extension struct {
	From     Date    `json:"from"`
	To       Date    `json:"to"`
	Months   int     `json:"months"`
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
	Amount   float64 `json:"amount"`
	NewTotal float64 `json:"new_total"`
}

// Extend charges extra months at the snapshot's rate and advances the end
// date. Extensions chain from the current end date, never the original start
// date; when the current end date was never computed, the chain starts at
// Now. The cumulative total is additive on top of the frozen total, it is not
// recomputed from scratch.
func Extend(in ExtensionInput) Extension {
	from := in.CurrentEnd
	if from.IsZero() {
		from = in.Now
	}
	to := from.AddMonths(in.ExtraMonths)

	subtotal := decimal.NewFromFloat(in.Rate).Mul(decimal.NewFromInt(int64(in.ExtraMonths)))
	vat := subtotal.Mul(vatRate)
	amount := subtotal.Add(vat)
	newTotal := decimal.NewFromFloat(in.CurrentTotal).Add(amount)

	return Extension{
		From:     from,
		To:       to,
		Months:   in.ExtraMonths,
		Subtotal: subtotal.InexactFloat64(),
		VAT:      vat.InexactFloat64(),
		Amount:   amount.InexactFloat64(),
		NewTotal: newTotal.InexactFloat64(),
	}
}
