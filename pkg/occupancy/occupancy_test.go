package occupancy

import (
	"errors"
	"reflect"
	"testing"

	"inspirehub/pkg/model"
)

func reservationWith(ids ...string) *model.Reservation {
	return &model.Reservation{
		Kind:        model.ProductDedicatedDesk,
		ResourceIDs: model.StringList(ids),
		Status:      model.StatusActive,
	}
}

func TestOccupiedEmptyInput(t *testing.T) {
	got := Occupied(nil)
	if len(got) != 0 {
		t.Errorf("Occupied(nil) = %v, want empty set", got)
	}

	got = Occupied([]*model.Reservation{})
	if len(got) != 0 {
		t.Errorf("Occupied(empty) = %v, want empty set", got)
	}
}

func TestOccupiedUnion(t *testing.T) {
	reservations := []*model.Reservation{
		reservationWith("map1-A1", "map1-A2"),
		reservationWith("map1-B1"),
		reservationWith(), // virtual-office style record, no resources
	}

	got := Occupied(reservations)

	want := map[string]struct{}{
		"map1-A1": {},
		"map1-A2": {},
		"map1-B1": {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Occupied() = %v, want %v", got, want)
	}
}

func TestOccupiedOrderInvariant(t *testing.T) {
	a := reservationWith("map1-A1", "map1-A2")
	b := reservationWith("map1-B1")

	forward := Occupied([]*model.Reservation{a, b})
	backward := Occupied([]*model.Reservation{b, a})

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("resolver depends on input order: %v vs %v", forward, backward)
	}
}

func TestOccupiedSkipsNilEntries(t *testing.T) {
	got := Occupied([]*model.Reservation{nil, reservationWith("map1-A1")})
	if _, ok := got["map1-A1"]; !ok || len(got) != 1 {
		t.Errorf("Occupied() = %v, want single entry map1-A1", got)
	}
}

func TestToggle(t *testing.T) {
	occupied := map[string]struct{}{
		"map1-A1": {},
		"map1-A2": {},
	}

	tests := []struct {
		name      string
		id        string
		selection []string
		want      []string
		wantErr   bool
	}{
		{
			name:      "occupied resource is rejected",
			id:        "map1-A1",
			selection: []string{"map1-C1"},
			want:      []string{"map1-C1"},
			wantErr:   true,
		},
		{
			name:      "free resource is added",
			id:        "map1-C2",
			selection: []string{"map1-C1"},
			want:      []string{"map1-C1", "map1-C2"},
		},
		{
			name:      "toggling a selected resource removes it",
			id:        "map1-C1",
			selection: []string{"map1-C1", "map1-C2"},
			want:      []string{"map1-C2"},
		},
		{
			name:      "first selection",
			id:        "map1-D4",
			selection: nil,
			want:      []string{"map1-D4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Toggle(tt.id, tt.selection, occupied)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Toggle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrOccupied) {
				t.Errorf("Toggle() error = %v, want ErrOccupied", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Toggle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConflicts(t *testing.T) {
	occupied := Occupied([]*model.Reservation{reservationWith("map1-A1", "map1-A2")})

	got := Conflicts([]string{"map1-A1", "map1-C1"}, occupied)
	if !reflect.DeepEqual(got, []string{"map1-A1"}) {
		t.Errorf("Conflicts() = %v, want [map1-A1]", got)
	}

	if got := Conflicts([]string{"map1-C1"}, occupied); got != nil {
		t.Errorf("Conflicts() = %v, want nil for free resources", got)
	}
}
