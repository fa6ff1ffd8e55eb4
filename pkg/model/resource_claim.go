package model

import (
	"fmt"
	"time"
)

// ResourceClaim marks a seat or office unit as held by an active reservation.
// The claim id doubles as the Mongo _id, so inserting a claim that already
// exists fails with a duplicate key error. That failed insert is the
// conditional write that closes the check-then-reserve race between two
// sessions: whoever inserts first owns the resource.
type ResourceClaim struct {
	ID            string      `bson:"_id" json:"id"`
	Kind          ProductKind `bson:"kind" json:"kind"`
	ResourceID    string      `bson:"resource_id" json:"resource_id"`
	ReservationID string      `bson:"reservation_id" json:"reservation_id"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
}

// ClaimID namespaces the resource id by product kind; seats and offices live
// in different namespaces and must never collide.
func ClaimID(kind ProductKind, resourceID string) string {
	return fmt.Sprintf("%s/%s", kind, resourceID)
}
