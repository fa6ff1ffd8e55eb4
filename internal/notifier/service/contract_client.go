package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"inspirehub/internal/auth/token"
	"inspirehub/pkg/client"
	"inspirehub/pkg/model"
)

// ContractFetcher retrieves the rendered agreement text for a reservation.
type ContractFetcher interface {
	FetchText(ctx context.Context, kind model.ProductKind, reservationID string) (string, error)
}

type httpContractFetcher struct {
	client *client.HttpClient
	tokens *token.Manager
}

// NewContractFetcher builds a fetcher against the contracts service. A fresh
// service session token is minted per call; both services share the signing
// secret.
func NewContractFetcher(c *client.HttpClient, tokens *token.Manager) ContractFetcher {
	return &httpContractFetcher{
		client: c,
		tokens: tokens,
	}
}

func (f *httpContractFetcher) FetchText(ctx context.Context, kind model.ProductKind, reservationID string) (string, error) {
	bearer, err := f.tokens.IssueSession("service:notifier", "notifier@internal", "staff")
	if err != nil {
		return "", fmt.Errorf("failed to issue service token: %w", err)
	}

	path := fmt.Sprintf("/api/v1/contracts/%s/text?reservation_id=%s", kind, url.QueryEscape(reservationID))
	resp, err := f.client.GETWithHeaders(ctx, path, map[string]string{
		"Authorization": "Bearer " + bearer,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch contract text: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("contracts service returned status %d", resp.StatusCode)
	}

	return string(resp.Body), nil
}
