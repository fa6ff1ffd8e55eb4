package service

import (
	"context"
	"fmt"
	"net/http"

	"inspirehub/pkg/client"
	apperrors "inspirehub/pkg/errors"
	"inspirehub/pkg/model"
)

// ReservationFetcher retrieves the reservation a contract is rendered for.
type ReservationFetcher interface {
	Fetch(ctx context.Context, id, bearerToken string) (*model.Reservation, error)
}

// httpReservationFetcher calls the reservations service through the
// breaker-wrapped client, forwarding the caller's bearer token.
type httpReservationFetcher struct {
	client *client.HttpClient
}

func NewReservationFetcher(c *client.HttpClient) ReservationFetcher {
	return &httpReservationFetcher{client: c}
}

func (f *httpReservationFetcher) Fetch(ctx context.Context, id, bearerToken string) (*model.Reservation, error) {
	headers := map[string]string{}
	if bearerToken != "" {
		headers["Authorization"] = "Bearer " + bearerToken
	}

	resp, err := f.client.GETWithHeaders(ctx, "/api/v1/reservations/id/"+id, headers)
	if err != nil {
		return nil, apperrors.Unavailable("Reservations service")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperrors.NotFoundWithID("Reservation", id)
	case http.StatusUnauthorized:
		return nil, apperrors.Unauthorized(client.GetErrorMessage(resp))
	default:
		return nil, apperrors.Internal(
			fmt.Sprintf("Reservations service returned %d", resp.StatusCode),
			fmt.Errorf("%s", client.GetErrorMessage(resp)),
		)
	}

	var envelope struct {
		Data model.Reservation `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, apperrors.Internal("Failed to decode reservation response", err)
	}

	return &envelope.Data, nil
}
