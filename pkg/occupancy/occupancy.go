// Package occupancy decides which bookable resources (seats, office units)
// are claimed by active reservations. It is pure set arithmetic over already
// fetched records: callers filter to active reservations of a single product
// kind before asking, and seats are never checked against offices.
package occupancy

import (
	"errors"

	"inspirehub/pkg/model"
)

// ErrOccupied reports a selection attempt on a resource held by another
// reservation.
var ErrOccupied = errors.New("resource is already occupied")

// Occupied returns the union of resource ids across the given reservations.
// An id is occupied iff at least one reservation in the input lists it. The
// result does not depend on input order, and an empty input yields an empty
// set. The input must already be filtered to active records; the resolver
// trusts its callers on that.
func Occupied(reservations []*model.Reservation) map[string]struct{} {
	occupied := make(map[string]struct{})
	for _, res := range reservations {
		if res == nil {
			continue
		}
		for _, id := range res.ResourceIDs {
			occupied[id] = struct{}{}
		}
	}
	return occupied
}

// Toggle applies one click on a resource map: selecting an occupied resource
// is rejected, re-selecting an already chosen resource removes it, anything
// else is added. The same check runs again at submission time against a fresh
// fetch, so a stale client cannot sneak a taken resource through.
func Toggle(id string, selection []string, occupied map[string]struct{}) ([]string, error) {
	if _, taken := occupied[id]; taken {
		return selection, ErrOccupied
	}

	for i, existing := range selection {
		if existing == id {
			next := make([]string, 0, len(selection)-1)
			next = append(next, selection[:i]...)
			next = append(next, selection[i+1:]...)
			return next, nil
		}
	}

	next := make([]string, 0, len(selection)+1)
	next = append(next, selection...)
	next = append(next, id)
	return next, nil
}

// Conflicts reports which of the wanted resource ids are already occupied.
func Conflicts(wanted []string, occupied map[string]struct{}) []string {
	var conflicts []string
	for _, id := range wanted {
		if _, taken := occupied[id]; taken {
			conflicts = append(conflicts, id)
		}
	}
	return conflicts
}
