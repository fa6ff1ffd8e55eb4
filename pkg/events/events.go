// Package events carries reservation lifecycle notifications between
// services over Kafka. Messages are keyed by reservation id so all events for
// one reservation land in the same partition, in order.
package events

import (
	"time"

	"inspirehub/pkg/model"
)

const (
	TopicReservations = "reservation-events"

	TypeReservationCreated     = "reservation.created"
	TypeReservationExtended    = "reservation.extended"
	TypeReservationDeactivated = "reservation.deactivated"
	TypeReservationDeleted     = "reservation.deleted"
)

// Header keys shared by producer and consumers.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

type ReservationEvent struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	ReservationID string            `json:"reservation_id"`
	Kind          model.ProductKind `json:"kind"`
	TenantName    string            `json:"tenant_name"`
	TenantEmail   string            `json:"tenant_email"`
	EndDate       string            `json:"end_date,omitempty"`
	Total         float64           `json:"total,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
