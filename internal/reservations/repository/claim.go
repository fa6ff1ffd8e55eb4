package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	reserrors "inspirehub/internal/reservations/errors"
	"inspirehub/pkg/config"
	"inspirehub/pkg/model"
)

const ClaimCollectionName = "Resource_claims"

// ClaimRepository holds the per-resource claims that make occupancy atomic.
type ClaimRepository interface {
	ClaimAll(ctx context.Context, kind model.ProductKind, reservationID string, resourceIDs []string) error
	ReleaseAll(ctx context.Context, kind model.ProductKind, resourceIDs []string) error
	ReleaseByReservation(ctx context.Context, reservationID string) error
}

type mongoClaimRepository struct {
	collection *mongo.Collection
}

func NewClaimRepository(cfg *config.Config) ClaimRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoClaimRepository{
		collection: db.Collection(ClaimCollectionName),
	}
}

// ClaimAll inserts one claim per resource id. The claim id is the Mongo _id,
// so a duplicate key error means another active reservation already holds the
// resource; any claims inserted before the collision are rolled back.
func (r *mongoClaimRepository) ClaimAll(ctx context.Context, kind model.ProductKind, reservationID string, resourceIDs []string) error {
	now := time.Now().UTC()

	var inserted []string
	for _, resourceID := range resourceIDs {
		claim := &model.ResourceClaim{
			ID:            model.ClaimID(kind, resourceID),
			Kind:          kind,
			ResourceID:    resourceID,
			ReservationID: reservationID,
			CreatedAt:     now,
		}

		_, err := r.collection.InsertOne(ctx, claim)
		if err != nil {
			if releaseErr := r.ReleaseAll(ctx, kind, inserted); releaseErr != nil {
				return fmt.Errorf("failed to roll back claims after conflict: %w", releaseErr)
			}
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("%w: %s", reserrors.ErrResourceOccupied, resourceID)
			}
			return fmt.Errorf("failed to claim resource %s: %w", resourceID, err)
		}
		inserted = append(inserted, resourceID)
	}

	return nil
}

func (r *mongoClaimRepository) ReleaseAll(ctx context.Context, kind model.ProductKind, resourceIDs []string) error {
	if len(resourceIDs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(resourceIDs))
	for _, resourceID := range resourceIDs {
		ids = append(ids, model.ClaimID(kind, resourceID))
	}

	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to release claims: %w", err)
	}
	return nil
}

func (r *mongoClaimRepository) ReleaseByReservation(ctx context.Context, reservationID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"reservation_id": reservationID})
	if err != nil {
		return fmt.Errorf("failed to release claims for reservation %s: %w", reservationID, err)
	}
	return nil
}
