package service

import (
	"context"
	"errors"

	"inspirehub/internal/contracts/pdf"
	"inspirehub/internal/contracts/render"
	"inspirehub/internal/contracts/templates"
	"inspirehub/pkg/config"
	apperrors "inspirehub/pkg/errors"
	"inspirehub/pkg/model"
)

type ContractService interface {
	RenderText(ctx context.Context, kind model.ProductKind, reservationID, bearerToken string, overrides map[string]string) (string, error)
	RenderPDF(ctx context.Context, kind model.ProductKind, reservationID, bearerToken string, overrides map[string]string) ([]byte, error)
}

type contractService struct {
	store   templates.Store
	fetcher ReservationFetcher
	cfg     *config.Config
}

func NewContractService(store templates.Store, fetcher ReservationFetcher, cfg *config.Config) ContractService {
	return &contractService{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg,
	}
}

// RenderText runs the full pipeline: load template, fetch reservation, build
// variables, substitute. Status contract: template absent is not found, fetch
// or render failure is internal, success returns the document body.
func (s *contractService) RenderText(ctx context.Context, kind model.ProductKind, reservationID, bearerToken string, overrides map[string]string) (string, error) {
	if !kind.Valid() {
		return "", apperrors.InvalidInput("Unknown product kind: " + string(kind))
	}
	if reservationID == "" {
		return "", apperrors.InvalidInput("reservation_id is required")
	}

	template, err := s.store.Load(kind)
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			return "", apperrors.NotFound("Contract template for " + string(kind))
		}
		s.cfg.Log.Error("Failed to load contract template", "kind", kind, "error", err)
		return "", apperrors.Internal("Failed to load contract template", err)
	}

	reservation, err := s.fetcher.Fetch(ctx, reservationID, bearerToken)
	if err != nil {
		return "", err
	}
	if reservation.Kind != kind {
		return "", apperrors.InvalidInput("Reservation kind does not match requested template")
	}

	document := render.Render(template, render.Vars(reservation, overrides))

	s.cfg.Log.Info("Contract rendered",
		"kind", kind,
		"reservation_id", reservationID,
		"overrides", len(overrides),
	)
	return document, nil
}

func (s *contractService) RenderPDF(ctx context.Context, kind model.ProductKind, reservationID, bearerToken string, overrides map[string]string) ([]byte, error) {
	if !kind.Valid() {
		return nil, apperrors.InvalidInput("Unknown product kind: " + string(kind))
	}
	if reservationID == "" {
		return nil, apperrors.InvalidInput("reservation_id is required")
	}

	template, err := s.store.Load(kind)
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			return nil, apperrors.NotFound("Contract template for " + string(kind))
		}
		s.cfg.Log.Error("Failed to load contract template", "kind", kind, "error", err)
		return nil, apperrors.Internal("Failed to load contract template", err)
	}

	reservation, err := s.fetcher.Fetch(ctx, reservationID, bearerToken)
	if err != nil {
		return nil, err
	}
	if reservation.Kind != kind {
		return nil, apperrors.InvalidInput("Reservation kind does not match requested template")
	}

	body := render.Render(template, render.Vars(reservation, overrides))

	document, err := pdf.Generate(reservation, body)
	if err != nil {
		s.cfg.Log.Error("Failed to generate contract PDF", "kind", kind, "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal("Failed to generate contract PDF", err)
	}

	s.cfg.Log.Info("Contract PDF generated",
		"kind", kind,
		"reservation_id", reservationID,
		"bytes", len(document),
	)
	return document, nil
}
