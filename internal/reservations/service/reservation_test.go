package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reserrors "inspirehub/internal/reservations/errors"
	"inspirehub/internal/reservations/validator"
	"inspirehub/pkg/billing"
	"inspirehub/pkg/config"
	mongotx "inspirehub/pkg/db/mongo"
	apperrors "inspirehub/pkg/errors"
	"inspirehub/pkg/events"
	"inspirehub/pkg/logger"
	"inspirehub/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockReservationRepository struct {
	mu              sync.Mutex
	created         []*model.Reservation
	findByIDFunc    func(ctx context.Context, id string) (*model.Reservation, error)
	findActiveFunc  func(ctx context.Context, kind model.ProductKind) ([]*model.Reservation, error)
	appendExtFunc   func(ctx context.Context, id string, ext model.Extension, newEndDate string, newTotal float64) error
	setStatusFunc   func(ctx context.Context, id string, status string) error
	deleteFunc      func(ctx context.Context, id string) error
	countFunc       func(ctx context.Context, status string, kind model.ProductKind) (int64, error)
	findAllFunc     func(ctx context.Context, status string, kind model.ProductKind, limit int, offset int64) ([]*model.Reservation, error)
	appendExtCalls  int
	setStatusCalls  int
	deletedIDs      []string
}

func (m *mockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = "65f000000000000000000001"
	m.created = append(m.created, r)
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reserrors.ErrNotFound
}

func (m *mockReservationRepository) FindAll(ctx context.Context, status string, kind model.ProductKind, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, status, kind, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) FindActiveByKind(ctx context.Context, kind model.ProductKind) ([]*model.Reservation, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, kind)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Update(ctx context.Context, id string, r *model.Reservation) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockReservationRepository) AppendExtension(ctx context.Context, id string, ext model.Extension, newEndDate string, newTotal float64) error {
	m.mu.Lock()
	m.appendExtCalls++
	m.mu.Unlock()
	if m.appendExtFunc != nil {
		return m.appendExtFunc(ctx, id, ext, newEndDate, newTotal)
	}
	return nil
}

func (m *mockReservationRepository) SetStatus(ctx context.Context, id string, status string) error {
	m.mu.Lock()
	m.setStatusCalls++
	m.mu.Unlock()
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deletedIDs = append(m.deletedIDs, id)
	m.mu.Unlock()
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) Count(ctx context.Context, status string, kind model.ProductKind) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, status, kind)
	}
	return 0, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockClaimRepository struct {
	mu       sync.Mutex
	claimed  []string
	released []string
	claimErr error
}

func (m *mockClaimRepository) ClaimAll(ctx context.Context, kind model.ProductKind, reservationID string, resourceIDs []string) error {
	if m.claimErr != nil {
		return m.claimErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimed = append(m.claimed, resourceIDs...)
	return nil
}

func (m *mockClaimRepository) ReleaseAll(ctx context.Context, kind model.ProductKind, resourceIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, resourceIDs...)
	return nil
}

func (m *mockClaimRepository) ReleaseByReservation(ctx context.Context, reservationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, "by-reservation:"+reservationID)
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.ReservationEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event events.ReservationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) byType(eventType string) []events.ReservationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.ReservationEvent
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestService(repo *mockReservationRepository, claims *mockClaimRepository, pub *mockPublisher) ReservationService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
	return NewReservationService(repo, claims, validator.NewReservationValidator(log), pub, cfg)
}

func mustDate(t *testing.T, s string) billing.Date {
	t.Helper()
	d, err := billing.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func validDeskReservation(t *testing.T) *model.Reservation {
	return &model.Reservation{
		Kind: model.ProductDedicatedDesk,
		Tenant: model.Tenant{
			Name:  "Maria Santos",
			Email: "maria@example.com",
		},
		ResourceIDs: model.StringList{"map1-A1", "map1-A2", "map1-A3"},
		Billing: model.Snapshot{
			Rate:       500,
			Months:     2,
			CusaFee:    100,
			ParkingFee: 50,
			StartDate:  mustDate(t, "2025-01-15"),
		},
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_ComputesBillingServerSide(t *testing.T) {
	repo := &mockReservationRepository{}
	claims := &mockClaimRepository{}
	pub := &mockPublisher{}
	svc := newTestService(repo, claims, pub)

	reservation := validDeskReservation(t)
	// Client-supplied totals must be overwritten, never trusted.
	reservation.Billing.Subtotal = 1
	reservation.Billing.VAT = 1
	reservation.Billing.Total = 1

	if err := svc.Create(context.Background(), reservation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := reservation.Billing
	if b.Subtotal != 3300 {
		t.Errorf("expected subtotal 3300, got %v", b.Subtotal)
	}
	if b.VAT != 396 {
		t.Errorf("expected vat 396, got %v", b.VAT)
	}
	if b.Total != 3696 {
		t.Errorf("expected total 3696, got %v", b.Total)
	}
	if got := b.EndDate.String(); got != "2025-03-15" {
		t.Errorf("expected end date 2025-03-15, got %q", got)
	}
	if b.ResourceCount != 3 {
		t.Errorf("expected resource count 3 from selection, got %d", b.ResourceCount)
	}
	if len(claims.claimed) != 3 {
		t.Errorf("expected 3 claims, got %d", len(claims.claimed))
	}
	if got := len(pub.byType(events.TypeReservationCreated)); got != 1 {
		t.Errorf("expected one created event, got %d", got)
	}
}

func TestCreate_RejectsOccupiedResource(t *testing.T) {
	repo := &mockReservationRepository{
		findActiveFunc: func(ctx context.Context, kind model.ProductKind) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ResourceIDs: model.StringList{"map1-A1", "map1-A2"}, Status: model.StatusActive},
			}, nil
		},
	}
	claims := &mockClaimRepository{}
	svc := newTestService(repo, claims, &mockPublisher{})

	reservation := validDeskReservation(t)
	reservation.ResourceIDs = model.StringList{"map1-A1"}

	err := svc.Create(context.Background(), reservation)
	if err == nil {
		t.Fatal("expected conflict error for occupied resource")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict app error, got %v", err)
	}
	if !strings.Contains(appErr.Message, "map1-A1") {
		t.Errorf("expected conflict message to name the resource, got %q", appErr.Message)
	}
	if len(claims.claimed) != 0 {
		t.Errorf("no claims should be made on conflict, got %v", claims.claimed)
	}
}

func TestCreate_ClaimRaceSurfacesConflict(t *testing.T) {
	repo := &mockReservationRepository{}
	claims := &mockClaimRepository{claimErr: reserrors.ErrResourceOccupied}
	svc := newTestService(repo, claims, &mockPublisher{})

	err := svc.Create(context.Background(), validDeskReservation(t))
	if err == nil {
		t.Fatal("expected conflict when claim insert collides")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict app error, got %v", err)
	}
}

func TestCreate_VirtualOfficeBillsSingleUnit(t *testing.T) {
	repo := &mockReservationRepository{}
	claims := &mockClaimRepository{}
	svc := newTestService(repo, claims, &mockPublisher{})

	reservation := &model.Reservation{
		Kind: model.ProductVirtualOffice,
		Tenant: model.Tenant{
			Name:  "Juan Dela Cruz",
			Email: "juan@example.com",
		},
		Inclusions: model.StringList{"Business address", "Mail handling"},
		Billing: model.Snapshot{
			Rate:      2000,
			Months:    12,
			StartDate: mustDate(t, "2025-06-01"),
		},
	}

	if err := svc.Create(context.Background(), reservation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.Billing.ResourceCount != 1 {
		t.Errorf("virtual office should bill one unit, got %d", reservation.Billing.ResourceCount)
	}
	if len(claims.claimed) != 0 {
		t.Errorf("virtual office must not claim resources, got %v", claims.claimed)
	}
	if reservation.Billing.Subtotal != 24000 {
		t.Errorf("expected subtotal 24000, got %v", reservation.Billing.Subtotal)
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockClaimRepository{}, &mockPublisher{})

	tests := []struct {
		name   string
		mutate func(r *model.Reservation)
	}{
		{"zero rate", func(r *model.Reservation) { r.Billing.Rate = 0 }},
		{"negative rate", func(r *model.Reservation) { r.Billing.Rate = -500 }},
		{"zero months", func(r *model.Reservation) { r.Billing.Months = 0 }},
		{"bad email", func(r *model.Reservation) { r.Tenant.Email = "not-an-email" }},
		{"empty selection for desk", func(r *model.Reservation) { r.ResourceIDs = nil }},
		{"unknown kind", func(r *model.Reservation) { r.Kind = "hot_desk" }},
		{"missing start date", func(r *model.Reservation) { r.Billing.StartDate = billing.Date{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservation := validDeskReservation(t)
			tt.mutate(reservation)
			err := svc.Create(context.Background(), reservation)
			if err == nil {
				t.Fatal("expected validation error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeValidation {
				t.Errorf("expected validation app error, got %v", err)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Extend
// ────────────────────────────────────────────────

func activeReservation(t *testing.T) *model.Reservation {
	r := validDeskReservation(t)
	r.ID = "65f000000000000000000001"
	r.Status = model.StatusActive
	r.Billing.ResourceCount = 3
	r.Billing.Subtotal = 3300
	r.Billing.VAT = 396
	r.Billing.Total = 3696
	r.Billing.EndDate = mustDate(t, "2025-03-15")
	return r
}

func TestExtend_AdditiveChaining(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return activeReservation(t), nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, &mockClaimRepository{}, pub)

	extended, err := svc.Extend(context.Background(), "65f000000000000000000001", &model.ExtendRequest{Months: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := extended.Billing.EndDate.String(); got != "2025-05-15" {
		t.Errorf("expected new end date 2025-05-15, got %q", got)
	}
	// 500 x 2 = 1000 subtotal, 120 vat, 1120 amount on top of the frozen total.
	if extended.Billing.Total != 3696+1120 {
		t.Errorf("expected cumulative total %v, got %v", 3696+1120, extended.Billing.Total)
	}
	if len(extended.Billing.Extensions) != 1 {
		t.Fatalf("expected one extension record, got %d", len(extended.Billing.Extensions))
	}
	rec := extended.Billing.Extensions[0]
	if rec.From.String() != "2025-03-15" || rec.To.String() != "2025-05-15" {
		t.Errorf("extension must chain from current end date, got %s -> %s", rec.From, rec.To)
	}
	if got := len(pub.byType(events.TypeReservationExtended)); got != 1 {
		t.Errorf("expected one extended event, got %d", got)
	}
}

func TestExtend_SingleFlightGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return activeReservation(t), nil
		},
		appendExtFunc: func(ctx context.Context, id string, ext model.Extension, newEndDate string, newTotal float64) error {
			close(started)
			<-release
			return nil
		},
	}
	svc := newTestService(repo, &mockClaimRepository{}, &mockPublisher{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.Extend(context.Background(), "65f000000000000000000001", &model.ExtendRequest{Months: 1}); err != nil {
			t.Errorf("first extension should succeed: %v", err)
		}
	}()

	<-started
	_, err := svc.Extend(context.Background(), "65f000000000000000000001", &model.ExtendRequest{Months: 1})
	if err == nil {
		t.Fatal("duplicate in-flight extension must be rejected")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict for in-flight duplicate, got %v", err)
	}

	close(release)
	wg.Wait()

	if repo.appendExtCalls != 1 {
		t.Errorf("expected exactly one extension write, got %d", repo.appendExtCalls)
	}
}

func TestExtend_RejectsDeactivated(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			r := activeReservation(t)
			r.Status = model.StatusDeactivated
			return r, nil
		},
	}
	svc := newTestService(repo, &mockClaimRepository{}, &mockPublisher{})

	if _, err := svc.Extend(context.Background(), "65f000000000000000000001", &model.ExtendRequest{Months: 1}); err == nil {
		t.Fatal("extending a deactivated reservation must fail")
	}
}

func TestExtend_InvalidMonths(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockClaimRepository{}, &mockPublisher{})

	for _, months := range []int{0, -1, 61} {
		if _, err := svc.Extend(context.Background(), "65f000000000000000000001", &model.ExtendRequest{Months: months}); err == nil {
			t.Errorf("months=%d should be rejected", months)
		}
	}
}

// ────────────────────────────────────────────────
// Deactivate / Delete
// ────────────────────────────────────────────────

func TestDeactivate_ReleasesClaims(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return activeReservation(t), nil
		},
	}
	claims := &mockClaimRepository{}
	pub := &mockPublisher{}
	svc := newTestService(repo, claims, pub)

	if err := svc.Deactivate(context.Background(), "65f000000000000000000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.setStatusCalls != 1 {
		t.Errorf("expected one status write, got %d", repo.setStatusCalls)
	}
	if len(claims.released) != 1 || claims.released[0] != "by-reservation:65f000000000000000000001" {
		t.Errorf("expected claims released by reservation id, got %v", claims.released)
	}
	if got := len(pub.byType(events.TypeReservationDeactivated)); got != 1 {
		t.Errorf("expected one deactivated event, got %d", got)
	}
}

func TestDeactivate_AlreadyDeactivated(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			r := activeReservation(t)
			r.Status = model.StatusDeactivated
			return r, nil
		},
	}
	svc := newTestService(repo, &mockClaimRepository{}, &mockPublisher{})

	err := svc.Deactivate(context.Background(), "65f000000000000000000001")
	if err == nil {
		t.Fatal("deactivating twice must fail")
	}
}

func TestDelete_ReleasesClaimsAndPublishes(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return activeReservation(t), nil
		},
	}
	claims := &mockClaimRepository{}
	pub := &mockPublisher{}
	svc := newTestService(repo, claims, pub)

	if err := svc.Delete(context.Background(), "65f000000000000000000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.deletedIDs) != 1 {
		t.Errorf("expected one delete, got %v", repo.deletedIDs)
	}
	if len(claims.released) != 1 {
		t.Errorf("expected claims released, got %v", claims.released)
	}
	if got := len(pub.byType(events.TypeReservationDeleted)); got != 1 {
		t.Errorf("expected one deleted event, got %d", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockClaimRepository{}, &mockPublisher{})

	_, err := svc.GetByID(context.Background(), "65f000000000000000000099")
	if err == nil {
		t.Fatal("expected not found error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found app error, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Occupancy
// ────────────────────────────────────────────────

func TestOccupiedResources(t *testing.T) {
	repo := &mockReservationRepository{
		findActiveFunc: func(ctx context.Context, kind model.ProductKind) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ResourceIDs: model.StringList{"map1-A1", "map1-A2"}},
				{ResourceIDs: model.StringList{"map1-B1"}},
			}, nil
		},
	}
	svc := newTestService(repo, &mockClaimRepository{}, &mockPublisher{})

	occupied, err := svc.OccupiedResources(context.Background(), model.ProductDedicatedDesk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occupied) != 3 {
		t.Errorf("expected 3 occupied resources, got %v", occupied)
	}

	if _, err := svc.OccupiedResources(context.Background(), "hot_desk"); err == nil {
		t.Error("unknown kind must be rejected")
	}

	virtual, err := svc.OccupiedResources(context.Background(), model.ProductVirtualOffice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(virtual) != 0 {
		t.Errorf("virtual office namespace has no occupancy, got %v", virtual)
	}
}
