// Package pdf lays out the rendered contract as an A4 PDF.
package pdf

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"inspirehub/internal/contracts/render"
	"inspirehub/pkg/model"
)

// Generate produces the contract PDF: a header block with the tenant and
// product details, the rendered contract body, a billing summary table and a
// signature section. It returns the raw PDF bytes.
func Generate(reservation *model.Reservation, body string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, reservation)
	addBody(m, body)
	addBillingSummary(m, reservation)
	addSignatures(m, reservation)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contract PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, r *model.Reservation) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New("SERVICE AGREEMENT", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New(kindTitle(r.Kind), props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Tenant: %s  |  %s", r.Tenant.Name, r.Tenant.Email), props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addBody(m core.Maroto, body string) {
	bodyStyle := props.Text{
		Size:  9,
		Align: align.Left,
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			m.AddRows(row.New(3))
			continue
		}
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(text.New(line, bodyStyle)),
			),
		)
	}

	m.AddRows(row.New(4))
}

func addBillingSummary(m core.Maroto, r *model.Reservation) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerCell := &props.Cell{BackgroundColor: headerBg}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New("BILLING SUMMARY", headerText)).WithStyle(headerCell),
		),
	)

	b := r.Billing
	lines := []struct{ label, value string }{
		{"Monthly rate", render.FormatPeso(b.Rate)},
		{"Billed units", fmt.Sprintf("%d", b.ResourceCount)},
		{"Term (months)", fmt.Sprintf("%d", b.Months)},
		{"CUSA fee / month", render.FormatPeso(b.CusaFee)},
		{"Parking fee / month", render.FormatPeso(b.ParkingFee)},
		{"Subtotal", render.FormatPeso(b.Subtotal)},
		{"VAT (12%)", render.FormatPeso(b.VAT)},
	}

	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}
	for i, line := range lines {
		labelCol := col.New(8).Add(text.New(line.label, labelStyle))
		valueCol := col.New(4).Add(text.New(line.value, valueStyle))
		if i%2 == 1 {
			cell := &props.Cell{BackgroundColor: altBg}
			labelCol = labelCol.WithStyle(cell)
			valueCol = valueCol.WithStyle(cell)
		}
		m.AddRows(row.New(6).Add(labelCol, valueCol))
	}

	totalBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	totalCell := &props.Cell{BackgroundColor: totalBg}
	totalText := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	totalLabel := totalText
	totalLabel.Align = align.Left
	totalValue := totalText
	totalValue.Align = align.Right

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("TOTAL", totalLabel)).WithStyle(totalCell),
			col.New(4).Add(text.New(render.FormatPeso(b.Total), totalValue)).WithStyle(totalCell),
		),
	)

	m.AddRows(row.New(4))
}

func addSignatures(m core.Maroto, r *model.Reservation) {
	m.AddRows(row.New(10))

	lineStyle := props.Text{
		Size:  8,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("____________________________", lineStyle)),
			col.New(6).Add(text.New("____________________________", lineStyle)),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(r.Tenant.Name, labelStyle)),
			col.New(6).Add(text.New("Authorized Signatory", labelStyle)),
		),
	)
}

func kindTitle(kind model.ProductKind) string {
	switch kind {
	case model.ProductDedicatedDesk:
		return "DEDICATED DESK"
	case model.ProductPrivateOffice:
		return "PRIVATE OFFICE"
	case model.ProductVirtualOffice:
		return "VIRTUAL OFFICE"
	}
	return string(kind)
}
