package validator

import (
	"testing"

	"inspirehub/pkg/billing"
	"inspirehub/pkg/logger"
	"inspirehub/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func validReservation(t *testing.T) *model.Reservation {
	t.Helper()
	start, err := billing.ParseDate("2025-01-15")
	if err != nil {
		t.Fatalf("bad start date: %v", err)
	}
	return &model.Reservation{
		Kind: model.ProductPrivateOffice,
		Tenant: model.Tenant{
			Name:  "Acme Trading Corp",
			Email: "admin@acme.ph",
			Phone: "+639171234567",
		},
		ResourceIDs: model.StringList{"office-2F-201"},
		Status:      model.StatusActive,
		Billing: model.Snapshot{
			Rate:          15000,
			ResourceCount: 1,
			Months:        6,
			StartDate:     start,
		},
	}
}

func TestValidate_AcceptsWellFormedReservation(t *testing.T) {
	v := NewReservationValidator(testLogger())
	if err := v.Validate(validReservation(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	v := NewReservationValidator(testLogger())

	tests := []struct {
		name   string
		mutate func(r *model.Reservation)
	}{
		{"missing tenant name", func(r *model.Reservation) { r.Tenant.Name = "" }},
		{"short tenant name", func(r *model.Reservation) { r.Tenant.Name = "A" }},
		{"bad email", func(r *model.Reservation) { r.Tenant.Email = "nope" }},
		{"bad phone", func(r *model.Reservation) { r.Tenant.Phone = "0917123" }},
		{"zero rate", func(r *model.Reservation) { r.Billing.Rate = 0 }},
		{"zero months", func(r *model.Reservation) { r.Billing.Months = 0 }},
		{"unknown kind", func(r *model.Reservation) { r.Kind = "garage" }},
		{"unknown status", func(r *model.Reservation) { r.Status = "paused" }},
		{"physical kind without resources", func(r *model.Reservation) { r.ResourceIDs = nil }},
		{"zero start date", func(r *model.Reservation) { r.Billing.StartDate = billing.Date{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation(t)
			tt.mutate(r)
			if err := v.Validate(r); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_VirtualOfficeNeedsNoResources(t *testing.T) {
	v := NewReservationValidator(testLogger())

	r := validReservation(t)
	r.Kind = model.ProductVirtualOffice
	r.ResourceIDs = nil
	r.Billing.ResourceCount = 1

	if err := v.Validate(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Billing.ResourceCount = 3
	if err := v.Validate(r); err == nil {
		t.Error("virtual office with multiple billed units must be rejected")
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewReservationValidator(testLogger())

	empty := model.StringList{}
	if err := v.ValidateUpdate(&model.ReservationUpdate{ResourceIDs: &empty}); err == nil {
		t.Error("emptying the resource selection must be rejected")
	}

	badStatus := &model.ReservationUpdate{Status: "paused"}
	if err := v.ValidateUpdate(badStatus); err == nil {
		t.Error("unknown status must be rejected")
	}

	rate := 1200.0
	ok := &model.ReservationUpdate{Billing: &model.BillingUpdate{Rate: &rate}}
	if err := v.ValidateUpdate(ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateExtend(t *testing.T) {
	v := NewReservationValidator(testLogger())

	if err := v.ValidateExtend(&model.ExtendRequest{Months: 1}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateExtend(&model.ExtendRequest{Months: 0}); err == nil {
		t.Error("zero months must be rejected")
	}
	if err := v.ValidateExtend(&model.ExtendRequest{Months: 61}); err == nil {
		t.Error("months above the cap must be rejected")
	}
}
