package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reserrors "inspirehub/internal/reservations/errors"
	"inspirehub/internal/reservations/repository"
	"inspirehub/internal/reservations/validator"
	"inspirehub/pkg/billing"
	"inspirehub/pkg/config"
	apperrors "inspirehub/pkg/errors"
	"inspirehub/pkg/events"
	"inspirehub/pkg/model"
	"inspirehub/pkg/occupancy"
	"inspirehub/pkg/sanitizer"
)

// EventPublisher is satisfied by events.Producer; the service does not care
// where the events go.
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent) error
}

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, status string, kind model.ProductKind, limit int, offset int64) ([]*model.Reservation, int64, error)
	OccupiedResources(ctx context.Context, kind model.ProductKind) ([]string, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error)
	Extend(ctx context.Context, id string, req *model.ExtendRequest) (*model.Reservation, error)
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	claims    repository.ClaimRepository
	validator *validator.ReservationValidator
	publisher EventPublisher
	cfg       *config.Config

	// single-flight guard per reservation for extensions; a duplicate
	// submission while one is in flight gets a conflict, not a second charge
	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

func NewReservationService(
	repo repository.ReservationRepository,
	claims repository.ClaimRepository,
	validator *validator.ReservationValidator,
	publisher EventPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		claims:    claims,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		inflight:  make(map[string]struct{}),
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	s.applyDefaults(reservation)
	s.sanitize(reservation)
	if err := s.validate(reservation); err != nil {
		return err
	}

	// Server-side billing: client-supplied totals are never trusted.
	quote := billing.Compute(billing.Input{
		Rate:          reservation.Billing.Rate,
		ResourceCount: reservation.Billing.ResourceCount,
		Months:        reservation.Billing.Months,
		CusaFee:       reservation.Billing.CusaFee,
		ParkingFee:    reservation.Billing.ParkingFee,
		StartDate:     reservation.Billing.StartDate,
	})
	reservation.Billing.Subtotal = quote.Subtotal
	reservation.Billing.VAT = quote.VAT
	reservation.Billing.Total = quote.Total
	reservation.Billing.EndDate = quote.EndDate

	if reservation.Kind.Physical() {
		if err := s.checkOccupancy(ctx, reservation.Kind, reservation.ResourceIDs); err != nil {
			return err
		}
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		if reservation.Kind.Physical() {
			if err := s.claims.ClaimAll(sessCtx, reservation.Kind, reservation.ID, reservation.ResourceIDs); err != nil {
				if errors.Is(err, reserrors.ErrResourceOccupied) {
					return apperrors.Conflict(err.Error())
				}
				return apperrors.Internal("Failed to claim resources", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return err
	}

	s.publish(ctx, events.TypeReservationCreated, reservation)

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"kind", reservation.Kind,
		"resources", len(reservation.ResourceIDs),
		"total", reservation.Billing.Total,
	)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, status string, kind model.ProductKind, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if kind != "" && !kind.Valid() {
		return nil, 0, apperrors.InvalidInput("Unknown product kind: " + string(kind))
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, status, kind)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, status, kind, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// OccupiedResources resolves the occupancy map for one product namespace from
// a fresh read of active reservations.
func (s *reservationService) OccupiedResources(ctx context.Context, kind model.ProductKind) ([]string, error) {
	if !kind.Valid() {
		return nil, apperrors.InvalidInput("Unknown product kind: " + string(kind))
	}
	if !kind.Physical() {
		return []string{}, nil
	}

	active, err := s.repo.FindActiveByKind(ctx, kind)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve occupancy", err)
	}

	occupied := occupancy.Occupied(active)
	ids := make([]string, 0, len(occupied))
	for id := range occupied {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged, billingChanged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if billingChanged {
		quote := billing.Compute(billing.Input{
			Rate:          merged.Billing.Rate,
			ResourceCount: merged.Billing.ResourceCount,
			Months:        merged.Billing.Months,
			CusaFee:       merged.Billing.CusaFee,
			ParkingFee:    merged.Billing.ParkingFee,
			StartDate:     merged.Billing.StartDate,
		})
		merged.Billing.Subtotal = quote.Subtotal
		merged.Billing.VAT = quote.VAT
		merged.Billing.Total = quote.Total
		merged.Billing.EndDate = quote.EndDate
	}

	added, removed := diffResources(existing.ResourceIDs, merged.ResourceIDs)
	if merged.Kind.Physical() && len(added) > 0 {
		if err := s.checkOccupancy(ctx, merged.Kind, added); err != nil {
			return nil, err
		}
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if merged.Kind.Physical() && len(added) > 0 {
			if err := s.claims.ClaimAll(sessCtx, merged.Kind, id, added); err != nil {
				if errors.Is(err, reserrors.ErrResourceOccupied) {
					return apperrors.Conflict(err.Error())
				}
				return apperrors.Internal("Failed to claim resources", err)
			}
		}
		if merged.Kind.Physical() && len(removed) > 0 {
			if err := s.claims.ReleaseAll(sessCtx, merged.Kind, removed); err != nil {
				return apperrors.Internal("Failed to release resources", err)
			}
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation updated successfully", "id", id)
	merged.ID = id
	return merged, nil
}

func (s *reservationService) Extend(ctx context.Context, id string, req *model.ExtendRequest) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if err := s.validator.ValidateExtend(req); err != nil {
		return nil, apperrors.Validation("Invalid extension input", map[string]any{"error": err.Error()})
	}

	if !s.tryAcquireInflight(id) {
		return nil, apperrors.Conflict("An extension for this reservation is already in progress")
	}
	defer s.releaseInflight(id)

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != model.StatusActive {
		return nil, apperrors.Conflict("Cannot extend a deactivated reservation")
	}

	ext := billing.Extend(billing.ExtensionInput{
		Rate:         existing.Billing.Rate,
		CurrentTotal: existing.Billing.Total,
		CurrentEnd:   existing.Billing.EndDate,
		ExtraMonths:  req.Months,
		Now:          billing.Today(),
	})

	record := model.Extension{
		From:       ext.From,
		To:         ext.To,
		Months:     ext.Months,
		Subtotal:   ext.Subtotal,
		VAT:        ext.VAT,
		Amount:     ext.Amount,
		ExtendedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.AppendExtension(ctx, id, record, ext.To.String(), ext.NewTotal); err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to extend reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to extend reservation", err)
	}

	existing.Billing.Extensions = append(existing.Billing.Extensions, record)
	existing.Billing.EndDate = ext.To
	existing.Billing.Total = ext.NewTotal

	s.publish(ctx, events.TypeReservationExtended, existing)

	s.cfg.Log.Info("Reservation extended successfully",
		"id", id,
		"months", req.Months,
		"new_end_date", ext.To.String(),
		"new_total", ext.NewTotal,
	)
	return existing, nil
}

func (s *reservationService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == model.StatusDeactivated {
		return apperrors.Conflict("Reservation is already deactivated")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.SetStatus(sessCtx, id, model.StatusDeactivated); err != nil {
			return apperrors.Internal("Failed to deactivate reservation", err)
		}
		if err := s.claims.ReleaseByReservation(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to release resources", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to deactivate reservation", "id", id, "error", err)
		return err
	}

	existing.Status = model.StatusDeactivated
	s.publish(ctx, events.TypeReservationDeactivated, existing)

	s.cfg.Log.Info("Reservation deactivated successfully", "id", id)
	return nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, reserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			return apperrors.Internal("Failed to delete reservation", err)
		}
		if err := s.claims.ReleaseByReservation(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to release resources", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.TypeReservationDeleted, existing)

	s.cfg.Log.Info("Reservation deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *reservationService) applyDefaults(r *model.Reservation) {
	if r.Status == "" {
		r.Status = model.StatusActive
	}
	if r.Kind.Physical() {
		r.Billing.ResourceCount = len(r.ResourceIDs)
	} else if r.Billing.ResourceCount == 0 {
		// Virtual office tenants hold no seats and bill a single flat unit.
		r.Billing.ResourceCount = 1
	}
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.Tenant.Name = sanitizer.TrimAndNormalize(r.Tenant.Name)
	r.Tenant.Email = sanitizer.NormalizeEmail(r.Tenant.Email)
	r.Tenant.Phone = sanitizer.NormalizePhone(r.Tenant.Phone)
	r.Tenant.Company = sanitizer.TrimAndNormalize(r.Tenant.Company)
	r.Tenant.Address = sanitizer.TrimAndNormalize(r.Tenant.Address)
	r.ResourceIDs = sanitizer.NormalizeList(r.ResourceIDs)
	r.Inclusions = sanitizer.NormalizeList(r.Inclusions)
}

func (s *reservationService) validate(r *model.Reservation) error {
	if err := s.validator.Validate(r); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// checkOccupancy is the friendly early check against a fresh active fetch; the
// claim insert inside the transaction is what actually closes the race.
func (s *reservationService) checkOccupancy(ctx context.Context, kind model.ProductKind, wanted []string) error {
	active, err := s.repo.FindActiveByKind(ctx, kind)
	if err != nil {
		return apperrors.Internal("Failed to check occupancy", err)
	}

	if conflicts := occupancy.Conflicts(wanted, occupancy.Occupied(active)); len(conflicts) > 0 {
		return apperrors.Conflict("Resources already occupied: " + strings.Join(conflicts, ", "))
	}
	return nil
}

func (s *reservationService) mergeUpdates(existing *model.Reservation, updates *model.ReservationUpdate) (*model.Reservation, bool) {
	merged := *existing
	billingChanged := false

	if updates.Tenant != nil {
		merged.Tenant = *updates.Tenant
	}
	if updates.ResourceIDs != nil {
		merged.ResourceIDs = *updates.ResourceIDs
		if merged.Kind.Physical() {
			merged.Billing.ResourceCount = len(merged.ResourceIDs)
			billingChanged = true
		}
	}
	if updates.Inclusions != nil {
		merged.Inclusions = *updates.Inclusions
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Billing != nil {
		b := updates.Billing
		if b.Rate != nil {
			merged.Billing.Rate = *b.Rate
			billingChanged = true
		}
		if b.Months != nil {
			merged.Billing.Months = *b.Months
			billingChanged = true
		}
		if b.CusaFee != nil {
			merged.Billing.CusaFee = *b.CusaFee
			billingChanged = true
		}
		if b.ParkingFee != nil {
			merged.Billing.ParkingFee = *b.ParkingFee
			billingChanged = true
		}
		if b.StartDate != nil {
			merged.Billing.StartDate = *b.StartDate
			billingChanged = true
		}
	}

	return &merged, billingChanged
}

func (s *reservationService) tryAcquireInflight(id string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *reservationService) releaseInflight(id string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, id)
}

func (s *reservationService) publish(ctx context.Context, eventType string, r *model.Reservation) {
	if s.publisher == nil {
		return
	}
	event := events.ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		Kind:          r.Kind,
		TenantName:    r.Tenant.Name,
		TenantEmail:   r.Tenant.Email,
		EndDate:       r.Billing.EndDate.String(),
		Total:         r.Billing.Total,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Event delivery is best-effort; the write already committed.
		s.cfg.Log.Warn("Failed to publish reservation event",
			"type", eventType,
			"reservation_id", r.ID,
			"error", err,
		)
	}
}

func diffResources(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]struct{}, len(before))
	for _, id := range before {
		beforeSet[id] = struct{}{}
	}
	afterSet := make(map[string]struct{}, len(after))
	for _, id := range after {
		afterSet[id] = struct{}{}
	}

	for _, id := range after {
		if _, ok := beforeSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if _, ok := afterSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
