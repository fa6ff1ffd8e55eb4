package model

import (
	"time"

	"inspirehub/pkg/billing"
)

type ProductKind string

const (
	ProductDedicatedDesk ProductKind = "dedicated_desk"
	ProductPrivateOffice ProductKind = "private_office"
	ProductVirtualOffice ProductKind = "virtual_office"
)

func (k ProductKind) Valid() bool {
	switch k {
	case ProductDedicatedDesk, ProductPrivateOffice, ProductVirtualOffice:
		return true
	}
	return false
}

// Physical reports whether the product occupies bookable resources. Virtual
// office tenants hold no seats or units and bill one flat unit.
func (k ProductKind) Physical() bool {
	return k == ProductDedicatedDesk || k == ProductPrivateOffice
}

// Label is the human-readable product name used in contracts and emails.
func (k ProductKind) Label() string {
	switch k {
	case ProductDedicatedDesk:
		return "Dedicated Desk"
	case ProductPrivateOffice:
		return "Private Office"
	case ProductVirtualOffice:
		return "Virtual Office"
	}
	return string(k)
}

const (
	StatusActive      = "active"
	StatusDeactivated = "deactivated"
)

type Tenant struct {
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" bson:"email" validate:"required,email"`
	Phone   string `json:"phone" bson:"phone" validate:"omitempty,e164"`
	Company string `json:"company,omitempty" bson:"company,omitempty" validate:"omitempty,max=160"`
	Address string `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=240"`
}

// Snapshot is the billing state embedded in a reservation. Subtotal, VAT,
// Total and EndDate are derived at submission time and frozen; they are never
// recomputed on read. EndDate is never set by a client directly.
type Snapshot struct {
	Rate          float64      `json:"rate" bson:"rate" validate:"gt=0"`
	ResourceCount int          `json:"resource_count" bson:"resource_count" validate:"min=0"`
	Months        int          `json:"months" bson:"months" validate:"min=1"`
	CusaFee       float64      `json:"cusa_fee" bson:"cusa_fee" validate:"min=0"`
	ParkingFee    float64      `json:"parking_fee" bson:"parking_fee" validate:"min=0"`
	StartDate     billing.Date `json:"start_date" bson:"start_date" validate:"required"`
	EndDate       billing.Date `json:"end_date" bson:"end_date"`
	Subtotal      float64      `json:"subtotal" bson:"subtotal"`
	VAT           float64      `json:"vat" bson:"vat"`
	Total         float64      `json:"total" bson:"total"`
	Extensions    []Extension  `json:"extensions,omitempty" bson:"extensions,omitempty"`
}

// Extension is immutable once appended to a snapshot's history.
type Extension struct {
	From       billing.Date `json:"from" bson:"from"`
	To         billing.Date `json:"to" bson:"to"`
	Months     int          `json:"months" bson:"months"`
	Subtotal   float64      `json:"subtotal" bson:"subtotal"`
	VAT        float64      `json:"vat" bson:"vat"`
	Amount     float64      `json:"amount" bson:"amount"`
	ExtendedAt time.Time    `json:"extended_at" bson:"extended_at"`
}

type Reservation struct {
	ID          string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Kind        ProductKind `json:"kind" bson:"kind" validate:"required,oneof=dedicated_desk private_office virtual_office"`
	Tenant      Tenant      `json:"tenant" bson:"tenant" validate:"required"`
	ResourceIDs StringList  `json:"resource_ids" bson:"resource_ids"`
	Inclusions  StringList  `json:"inclusions,omitempty" bson:"inclusions,omitempty"`
	Billing     Snapshot    `json:"billing" bson:"billing" validate:"required"`
	Status      string      `json:"status" bson:"status" validate:"required,oneof=active deactivated"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ReservationUpdate carries merge-patch semantics: nil pointers leave the
// existing value untouched.
type ReservationUpdate struct {
	Tenant      *Tenant        `json:"tenant,omitempty" validate:"omitempty"`
	ResourceIDs *StringList    `json:"resource_ids,omitempty"`
	Inclusions  *StringList    `json:"inclusions,omitempty"`
	Billing     *BillingUpdate `json:"billing,omitempty" validate:"omitempty"`
	Status      string         `json:"status,omitempty" validate:"omitempty,oneof=active deactivated"`
}

// BillingUpdate has no end date or total field on purpose: both are derived.
type BillingUpdate struct {
	Rate       *float64      `json:"rate,omitempty" validate:"omitempty,gt=0"`
	Months     *int          `json:"months,omitempty" validate:"omitempty,min=1"`
	CusaFee    *float64      `json:"cusa_fee,omitempty" validate:"omitempty,min=0"`
	ParkingFee *float64      `json:"parking_fee,omitempty" validate:"omitempty,min=0"`
	StartDate  *billing.Date `json:"start_date,omitempty"`
}

// ExtendRequest asks for extra billed months on an existing reservation.
type ExtendRequest struct {
	Months int `json:"months" validate:"required,min=1,max=60"`
}
